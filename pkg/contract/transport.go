package contract

import (
	"context"
)

// Finality -
type Finality string

// finality values
const (
	FinalityOptimistic Finality = "optimistic"
	FinalityFinal      Finality = "final"
)

// QueryRequest - read-only function call
type QueryRequest struct {
	ContractID string
	MethodName string
	ArgsBase64 string
	Finality   Finality
}

// QueryResult -
type QueryResult struct {
	Result      []byte
	Logs        []string
	BlockHeight uint64
	BlockHash   string
}

// FunctionCall - state-mutating function call. Gas and AttachedDeposit hold any value accepted by codec.ParseNumeric.
type FunctionCall struct {
	ContractID        string
	MethodName        string
	Args              []byte
	Gas               any
	AttachedDeposit   any
	WalletMeta        string
	WalletCallbackURL string
}

// Transport - network collaborator which delivers calls to the ledger
type Transport interface {
	Query(ctx context.Context, req QueryRequest) (QueryResult, error)
	Submit(ctx context.Context, signerID string, call FunctionCall) (any, error)
}
