// Package ethrpc queries Ethereum account balances over JSON-RPC.
package ethrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WeiExponent is the decimal exponent of one wei in ether.
const WeiExponent = -18

// Client defines the interface for fetching Ethereum balances.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// RPCClient calls eth_getBalance on a JSON-RPC endpoint.
type RPCClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewRPCClient creates a client for the JSON-RPC endpoint at url.
func NewRPCClient(url string, timeout time.Duration) *RPCClient {
	return &RPCClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   url,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Result  string    `json:"result"`
	Error   *RPCError `json:"error"`
}

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// GetBalance returns the balance of address at the latest block, in ETH.
func (c *RPCClient) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_getBalance",
		Params:  []any{address, "latest"},
		ID:      1,
	})
	if err != nil {
		return decimal.Zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rpc endpoint error: status %d", resp.StatusCode)
	}

	var response rpcResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rpc response: %w", err)
	}
	if response.Error != nil {
		return decimal.Zero, response.Error
	}

	wei, err := ParseHexQuantity(response.Result)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(wei, WeiExponent), nil
}

// ParseHexQuantity parses a 0x-prefixed hexadecimal JSON-RPC quantity.
func ParseHexQuantity(s string) (*big.Int, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok || digits == "" {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return n, nil
}
