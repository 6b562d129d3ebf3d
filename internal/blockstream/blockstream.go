// Package blockstream queries Bitcoin address balances from the Blockstream Esplora API.
package blockstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SatoshisPerBTC is the number of satoshis in one bitcoin.
const SatoshisPerBTC = 100_000_000

// Client defines the interface for fetching Bitcoin address balances.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	AddressBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// APIClient fetches balances from an Esplora-compatible HTTP API.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewAPIClient creates a client for the Esplora API rooted at baseURL
// (for example https://blockstream.info/api).
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// AddressBalance returns the confirmed balance of address in BTC.
// Unconfirmed mempool outputs are not counted.
func (c *APIClient) AddressBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	resp, err := c.QueryAddress(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(resp.ConfirmedSatoshis(), 0).Div(decimal.New(SatoshisPerBTC, 0)), nil
}

// QueryAddress fetches the raw address statistics.
func (c *APIClient) QueryAddress(ctx context.Context, address string) (AddressResponse, error) {
	endpoint := fmt.Sprintf("%s/address/%s", c.baseURL, url.PathEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return AddressResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AddressResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return AddressResponse{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return AddressResponse{}, fmt.Errorf("blockstream error: status %d", resp.StatusCode)
	}

	var response AddressResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return AddressResponse{}, fmt.Errorf("failed to decode blockstream response: %w", err)
	}

	return response, nil
}
