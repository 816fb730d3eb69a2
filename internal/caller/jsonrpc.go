package caller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// 20 MB limit for responses
const maxResponseSize = 20971520

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RpcError       `json:"error,omitempty"`
}

// RpcError - error object of JSON-RPC response
type RpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Name    string          `json:"name,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Cause   *struct {
		Name string          `json:"name"`
		Info json.RawMessage `json:"info,omitempty"`
	} `json:"cause,omitempty"`
}

// Error -
func (e *RpcError) Error() string {
	msg := fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
	if e.Cause != nil && e.Cause.Name != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Cause.Name)
	}
	if len(e.Data) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, e.Data)
	}
	return msg
}

type jsonRpcClient struct {
	url    string
	client *http.Client
	id     *atomic.Uint64
}

func newJsonRpcClient(url string, client *http.Client) jsonRpcClient {
	return jsonRpcClient{
		url:    url,
		client: client,
		id:     new(atomic.Uint64),
	}
}

func (c jsonRpcClient) call(ctx context.Context, method string, params any, output any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.id.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("invalid status code: %d", resp.StatusCode)
	}

	var response rpcResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&response); err != nil {
		return errors.Wrap(err, "decoding rpc response")
	}
	if response.Error != nil {
		return response.Error
	}
	if output == nil {
		return nil
	}
	return json.Unmarshal(response.Result, output)
}
