package contract

import (
	"os"
	"sort"

	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NoLogsEnv - non-empty value of the variable disables printing of contract logs
const NoLogsEnv = "NEAR_NO_LOGS"

// errors
var (
	ErrMethodNotFound = errors.New("method is not found")
	ErrNilTransport   = errors.New("nil transport")
)

// Method creates a call handle for the bound function. It never performs I/O.
type Method func(args ...any) Call

// Contract - deployed contract bound to its ABI. It is immutable after New and safe for concurrent use.
type Contract struct {
	transport  Transport
	contractID string
	abi        abi.ABI
	methods    map[string]Method
	codecOpts  []codec.Option
	logger     zerolog.Logger
}

// Option -
type Option func(*Contract)

// WithLogger sets the logger contract logs are printed with. Default is the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Contract) {
		c.logger = logger
	}
}

// WithCodecOptions -
func WithCodecOptions(opts ...codec.Option) Option {
	return func(c *Contract) {
		c.codecOpts = append(c.codecOpts, opts...)
	}
}

// New binds every function of the ABI to the contract deployed at contractID.
func New(transport Transport, contractID string, doc abi.ABI, opts ...Option) (*Contract, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	c := &Contract{
		transport:  transport,
		contractID: contractID,
		abi:        doc,
		methods:    make(map[string]Method, len(doc.Body.Functions)),
		logger:     log.Logger,
	}
	for i := range opts {
		opts[i](c)
	}

	for i := range doc.Body.Functions {
		fn := doc.Body.Functions[i]
		c.methods[fn.Name] = c.method(fn)
	}
	return c, nil
}

func (c *Contract) method(fn abi.Function) Method {
	if fn.IsView {
		return func(args ...any) Call {
			return &ViewCall{
				baseCall: newBaseCall(c, fn, args),
			}
		}
	}
	return func(args ...any) Call {
		return &ChangeCall{
			baseCall: newBaseCall(c, fn, args),
		}
	}
}

// ContractID -
func (c *Contract) ContractID() string {
	return c.contractID
}

// ABI -
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Method - returns handle factory of the function
func (c *Contract) Method(name string) (Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Methods - sorted names of all bound functions
func (c *Contract) Methods() []string {
	names := make([]string, 0, len(c.methods))
	for name := range c.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call - creates call handle of the function with the arguments
func (c *Contract) Call(name string, args ...any) (Call, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, errors.Wrapf(ErrMethodNotFound, "%s on %s", name, c.contractID)
	}
	return m(args...), nil
}

func (c *Contract) printLogs(logs []string) {
	if len(logs) == 0 || os.Getenv(NoLogsEnv) != "" {
		return
	}
	for i := range logs {
		c.logger.Info().Str("contract", c.contractID).Msg(logs[i])
	}
}
