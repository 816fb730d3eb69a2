package caller

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/dipdup-io/near-abi/pkg/contract"
	"github.com/dipdup-net/go-lib/config"
	"github.com/goccy/go-json"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// NodeRpcCaller - transport over NEAR-style JSON-RPC node API
type NodeRpcCaller struct {
	rpc     jsonRpcClient
	limiter *rate.Limiter
	signer  TxSigner
	timeout time.Duration
}

// NodeRpcOption -
type NodeRpcOption func(*NodeRpcCaller)

// WithSigner - sets signer used by Submit
func WithSigner(signer TxSigner) NodeRpcOption {
	return func(nrc *NodeRpcCaller) {
		nrc.signer = signer
	}
}

// WithHttpClient -
func WithHttpClient(client *http.Client) NodeRpcOption {
	return func(nrc *NodeRpcCaller) {
		if client != nil {
			nrc.rpc.client = client
		}
	}
}

// NewNodeRpcCaller -
func NewNodeRpcCaller(cfg config.DataSource, opts ...NodeRpcOption) *NodeRpcCaller {
	timeout := time.Second * 10
	if cfg.Timeout > 0 {
		timeout = time.Second * time.Duration(cfg.Timeout)
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 100

	nrc := &NodeRpcCaller{
		rpc:     newJsonRpcClient(cfg.URL, &http.Client{Transport: t}),
		timeout: timeout,
	}
	if cfg.RequestsPerSecond > 0 {
		nrc.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)
	}
	for i := range opts {
		opts[i](nrc)
	}
	return nrc
}

type u8Array []byte

// UnmarshalJSON - node returns bytes as array of numbers
func (arr *u8Array) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	values := make([]byte, len(ints))
	for i := range ints {
		if ints[i] < 0 || ints[i] > 255 {
			return errors.Errorf("invalid byte value: %d", ints[i])
		}
		values[i] = byte(ints[i])
	}
	*arr = values
	return nil
}

type callFunctionResult struct {
	Result      u8Array  `json:"result"`
	Logs        []string `json:"logs"`
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash"`
	Error       string   `json:"error,omitempty"`
}

func (nrc *NodeRpcCaller) wait(ctx context.Context) error {
	if nrc.limiter == nil {
		return nil
	}
	return nrc.limiter.Wait(ctx)
}

// Query - calls view function
func (nrc *NodeRpcCaller) Query(ctx context.Context, req contract.QueryRequest) (contract.QueryResult, error) {
	reqCtx, cancelReq := context.WithTimeout(ctx, nrc.timeout)
	defer cancelReq()

	if err := nrc.wait(reqCtx); err != nil {
		return contract.QueryResult{}, err
	}

	finality := req.Finality
	if finality == "" {
		finality = contract.FinalityOptimistic
	}

	var response callFunctionResult
	if err := nrc.rpc.call(reqCtx, "query", map[string]any{
		"request_type": "call_function",
		"account_id":   req.ContractID,
		"method_name":  req.MethodName,
		"args_base64":  req.ArgsBase64,
		"finality":     finality,
	}, &response); err != nil {
		return contract.QueryResult{}, err
	}
	if response.Error != "" {
		return contract.QueryResult{}, errors.Wrapf(ErrExecution, "%s.%s: %s", req.ContractID, req.MethodName, response.Error)
	}

	return contract.QueryResult{
		Result:      response.Result,
		Logs:        response.Logs,
		BlockHeight: response.BlockHeight,
		BlockHash:   response.BlockHash,
	}, nil
}

type executionOutcome struct {
	ID      string `json:"id"`
	Outcome struct {
		Logs []string `json:"logs"`
	} `json:"outcome"`
}

type finalExecutionOutcome struct {
	Status struct {
		SuccessValue *string        `json:"SuccessValue,omitempty"`
		Failure      json.RawMessage `json:"Failure,omitempty"`
	} `json:"status"`
	TransactionOutcome executionOutcome   `json:"transaction_outcome"`
	ReceiptsOutcome    []executionOutcome `json:"receipts_outcome"`
}

// Submit - signs the function call with the configured signer and broadcasts it waiting for execution
func (nrc *NodeRpcCaller) Submit(ctx context.Context, signerID string, call contract.FunctionCall) (any, error) {
	if nrc.signer == nil {
		return nil, ErrNoSigner
	}

	signed, err := nrc.signer.SignFunctionCall(ctx, signerID, call)
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}

	reqCtx, cancelReq := context.WithTimeout(ctx, nrc.timeout)
	defer cancelReq()

	if err := nrc.wait(reqCtx); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := nrc.rpc.call(reqCtx, "broadcast_tx_commit", []string{
		base64.StdEncoding.EncodeToString(signed),
	}, &raw); err != nil {
		return nil, err
	}

	outcome, err := parseOutcome(raw)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func parseOutcome(raw json.RawMessage) (*Outcome, error) {
	var final finalExecutionOutcome
	if err := json.Unmarshal(raw, &final); err != nil {
		return nil, errors.Wrap(err, "decoding execution outcome")
	}

	hash := final.TransactionOutcome.ID
	if decoded, err := base58.Decode(hash); err != nil || len(decoded) != 32 {
		return nil, errors.Errorf("invalid transaction hash: %s", hash)
	}

	outcome := &Outcome{
		TransactionHash: hash,
		Value:           codec.NoValue,
		Logs:            append([]string{}, final.TransactionOutcome.Outcome.Logs...),
		Raw:             raw,
	}
	for i := range final.ReceiptsOutcome {
		outcome.Logs = append(outcome.Logs, final.ReceiptsOutcome[i].Outcome.Logs...)
	}

	if len(final.Status.Failure) > 0 {
		return outcome, errors.Wrapf(ErrTransactionFailed, "%s: %s", hash, final.Status.Failure)
	}

	if final.Status.SuccessValue != nil {
		data, err := base64.StdEncoding.DecodeString(*final.Status.SuccessValue)
		if err != nil {
			return outcome, errors.Wrap(err, "decoding success value")
		}
		value, err := codec.Deserialize(data)
		if err != nil {
			// contracts may return raw non-JSON bytes
			value = string(data)
		}
		outcome.Value = value
	}
	return outcome, nil
}
