// Package coingecko fetches EUR spot prices and price history from the CoinGecko API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// Coin identifiers used by the balance lookups.
const (
	CoinBitcoin  = "bitcoin"
	CoinEthereum = "ethereum"
)

// Client defines the interface for fetching prices from CoinGecko.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	SimplePrice(ctx context.Context, coinID string) (model.SpotPrice, error)
	MarketChartRange(ctx context.Context, coinID string, from, to int64) (model.PriceHistory, error)
}

// StatusError is returned when CoinGecko answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coingecko error: %s", e.Status)
}

// RateLimited reports whether the request was rejected by the rate limiter.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// APIClient talks to the public API, or to the pro API when an API key is set.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewAPIClient creates a CoinGecko client. With a non-empty apiKey requests go to
// proURL and carry the x-cg-pro-api-key header; otherwise they go to publicURL.
func NewAPIClient(publicURL, proURL, apiKey string, timeout time.Duration) *APIClient {
	baseURL := publicURL
	if apiKey != "" {
		baseURL = proURL
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// SimplePrice returns the EUR price of coinID and its 24h change in percent.
// A missing 24h change is reported as 0.
func (c *APIClient) SimplePrice(ctx context.Context, coinID string) (model.SpotPrice, error) {
	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", "eur")
	query.Set("include_24hr_change", "true")

	var jobj any
	if err := c.get(ctx, "/simple/price", query, &jobj); err != nil {
		return model.SpotPrice{}, err
	}

	price, err := lookupFloat(jobj, fmt.Sprintf("$[%q].eur", coinID))
	if err != nil {
		return model.SpotPrice{}, fmt.Errorf("no EUR price for %s: %w", coinID, err)
	}
	change, err := lookupFloat(jobj, fmt.Sprintf("$[%q].eur_24h_change", coinID))
	if err != nil {
		change = 0
	}

	return model.SpotPrice{EUR: price, Change24hPct: change}, nil
}

// MarketChartRange returns the EUR price history of coinID between two unix
// timestamps (seconds) as [timestampMs, price] pairs.
func (c *APIClient) MarketChartRange(ctx context.Context, coinID string, from, to int64) (model.PriceHistory, error) {
	query := url.Values{}
	query.Set("vs_currency", "eur")
	query.Set("from", strconv.FormatInt(from, 10))
	query.Set("to", strconv.FormatInt(to, 10))
	query.Set("precision", "2")

	var history model.PriceHistory
	if err := c.get(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart/range", query, &history); err != nil {
		return model.PriceHistory{}, err
	}
	if history.Prices == nil {
		history.Prices = [][2]float64{}
	}
	return history, nil
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode coingecko response: %w", err)
	}
	return nil
}

func lookupFloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, err
	}
	// jsonpath may wrap a single match in a list
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%s is not a number: %v", path, jval)
	}
	return val, nil
}
