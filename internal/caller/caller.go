package caller

import (
	"context"

	"github.com/dipdup-io/near-abi/pkg/contract"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// errors
var (
	ErrNoSigner          = errors.New("transaction signer is not set")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrExecution         = errors.New("contract execution")
)

// Caller - transport for contract calls
type Caller interface {
	contract.Transport
}

// TxSigner builds and signs a transaction with the single function call action.
// Key management lives outside of this module, the signer returns borsh-serialized signed transaction.
type TxSigner interface {
	SignFunctionCall(ctx context.Context, signerID string, call contract.FunctionCall) ([]byte, error)
}

// Outcome - result of a submitted transaction
type Outcome struct {
	TransactionHash string
	// Value is the decoded return value of the last receipt, codec.NoValue if the call returned nothing
	Value any
	Logs  []string
	Raw   json.RawMessage
}

var (
	_ Caller = (*NodeRpcCaller)(nil)
	_ Caller = (*CachedCaller)(nil)
)
