package contract

import (
	"context"
	"encoding/base64"

	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/pkg/errors"
)

// Call - handle of one function invocation. Concrete handles are *ViewCall for view
// functions and *ChangeCall for mutating ones.
type Call interface {
	Function() abi.Function
	Args() []any
	Contract() *Contract
	IsView() bool
	// Serialize returns the argument payload the handle sends.
	Serialize() ([]byte, error)
}

// Viewer - handle of a view function
type Viewer interface {
	Call
	View(ctx context.Context) (any, error)
}

// Submitter - handle of a mutating function
type Submitter interface {
	Call
	CallFrom(ctx context.Context, signerID string, opts *CallOptions) (any, error)
}

// CallOptions -
type CallOptions struct {
	// Gas - max amount of gas the call can use
	Gas any
	// AttachedDeposit - amount of tokens in yocto units sent with the call
	AttachedDeposit any
	// WalletMeta - metadata passed to the wallet when it signs the transaction
	WalletMeta string
	// WalletCallbackURL - callback url passed to the wallet when it signs the transaction
	WalletCallbackURL string
}

// Validate -
func (opts *CallOptions) Validate() error {
	if opts == nil {
		return nil
	}
	if err := codec.ValidateNumeric("gas", opts.Gas); err != nil {
		return err
	}
	return codec.ValidateNumeric("amount", opts.AttachedDeposit)
}

type baseCall struct {
	contract *Contract
	fn       abi.Function
	args     []any
}

func newBaseCall(c *Contract, fn abi.Function, args []any) baseCall {
	copied := make([]any, len(args))
	copy(copied, args)
	return baseCall{
		contract: c,
		fn:       fn,
		args:     copied,
	}
}

// Function -
func (bc baseCall) Function() abi.Function {
	return bc.fn
}

// Args -
func (bc baseCall) Args() []any {
	return bc.args
}

// Contract -
func (bc baseCall) Contract() *Contract {
	return bc.contract
}

// Serialize -
func (bc baseCall) Serialize() ([]byte, error) {
	return codec.Serialize(bc.fn.Name, bc.args, bc.fn.Params, bc.contract.codecOpts...)
}

// ViewCall -
type ViewCall struct {
	baseCall
}

// IsView -
func (vc *ViewCall) IsView() bool {
	return true
}

// View serializes arguments, queries the contract with optimistic finality and decodes the result.
// An empty result is codec.NoValue.
func (vc *ViewCall) View(ctx context.Context) (any, error) {
	response, err := vc.query(ctx)
	if err != nil {
		return nil, err
	}
	return codec.Deserialize(response)
}

// ViewInto - same as View but decodes the result into dst
func (vc *ViewCall) ViewInto(ctx context.Context, dst any) error {
	response, err := vc.query(ctx)
	if err != nil {
		return err
	}
	return codec.DeserializeInto(response, dst)
}

func (vc *ViewCall) query(ctx context.Context) ([]byte, error) {
	args, err := vc.Serialize()
	if err != nil {
		return nil, err
	}

	result, err := vc.contract.transport.Query(ctx, QueryRequest{
		ContractID: vc.contract.contractID,
		MethodName: vc.fn.Name,
		ArgsBase64: base64.StdEncoding.EncodeToString(args),
		Finality:   FinalityOptimistic,
	})
	if err != nil {
		return nil, err
	}

	vc.contract.printLogs(result.Logs)
	return result.Result, nil
}

// ChangeCall -
type ChangeCall struct {
	baseCall
}

// IsView -
func (cc *ChangeCall) IsView() bool {
	return false
}

// CallFrom submits the call signed by signerID and returns the transport outcome as is.
// Arguments and options are validated before anything is sent.
func (cc *ChangeCall) CallFrom(ctx context.Context, signerID string, opts *CallOptions) (any, error) {
	args, err := cc.Serialize()
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	call := FunctionCall{
		ContractID: cc.contract.contractID,
		MethodName: cc.fn.Name,
		Args:       args,
	}
	if opts != nil {
		call.Gas = opts.Gas
		call.AttachedDeposit = opts.AttachedDeposit
		call.WalletMeta = opts.WalletMeta
		call.WalletCallbackURL = opts.WalletCallbackURL
	}
	return cc.contract.transport.Submit(ctx, signerID, call)
}

// errors
var (
	ErrNotView    = errors.New("function is not a view")
	ErrNotMutable = errors.New("function is a view")
)

// View - runs the handle if it is a view handle
func View(ctx context.Context, call Call) (any, error) {
	viewer, ok := call.(Viewer)
	if !ok {
		return nil, errors.Wrap(ErrNotView, call.Function().Name)
	}
	return viewer.View(ctx)
}

// ViewInto - decodes the result of a view handle into dst
func ViewInto(ctx context.Context, call Call, dst any) error {
	vc, ok := call.(*ViewCall)
	if !ok {
		return errors.Wrap(ErrNotView, call.Function().Name)
	}
	return vc.ViewInto(ctx, dst)
}

// Submit - runs the handle if it is a mutating handle
func Submit(ctx context.Context, call Call, signerID string, opts *CallOptions) (any, error) {
	submitter, ok := call.(Submitter)
	if !ok {
		return nil, errors.Wrap(ErrNotMutable, call.Function().Name)
	}
	return submitter.CallFrom(ctx, signerID, opts)
}
