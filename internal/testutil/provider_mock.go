package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// ErrMockProvider is returned by mocks configured to fail without a specific error.
var ErrMockProvider = errors.New("mock provider unavailable")

// MockBlockstreamClient is a mock implementation of blockstream.Client for testing.
// Balances are returned per address; unknown addresses have a zero balance.
type MockBlockstreamClient struct {
	mu sync.Mutex
	// Balances maps an address to its BTC balance
	Balances map[string]decimal.Decimal
	// MockError is the error to return from every query
	MockError error
	// QueryCount tracks how many times AddressBalance was called
	QueryCount int
}

// NewMockBlockstreamClient creates a mock with no balances.
func NewMockBlockstreamClient() *MockBlockstreamClient {
	return &MockBlockstreamClient{Balances: map[string]decimal.Decimal{}}
}

// AddressBalance returns the configured balance of address.
func (m *MockBlockstreamClient) AddressBalance(_ context.Context, address string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return decimal.Zero, m.MockError
	}
	return m.Balances[address], nil
}

// WithBalance configures the balance of address.
func (m *MockBlockstreamClient) WithBalance(address string, btc float64) *MockBlockstreamClient {
	m.Balances[address] = decimal.NewFromFloat(btc)
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockBlockstreamClient) WithError(err error) *MockBlockstreamClient {
	m.MockError = err
	return m
}

// MockEthClient is a mock implementation of ethrpc.Client for testing.
type MockEthClient struct {
	mu sync.Mutex
	// Balances maps an address to its ETH balance
	Balances map[string]decimal.Decimal
	// MockError is the error to return from every query
	MockError error
	// QueryCount tracks how many times GetBalance was called
	QueryCount int
}

// NewMockEthClient creates a mock with no balances.
func NewMockEthClient() *MockEthClient {
	return &MockEthClient{Balances: map[string]decimal.Decimal{}}
}

// GetBalance returns the configured balance of address.
func (m *MockEthClient) GetBalance(_ context.Context, address string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return decimal.Zero, m.MockError
	}
	return m.Balances[address], nil
}

// WithBalance configures the balance of address.
func (m *MockEthClient) WithBalance(address string, eth float64) *MockEthClient {
	m.Balances[address] = decimal.NewFromFloat(eth)
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockEthClient) WithError(err error) *MockEthClient {
	m.MockError = err
	return m
}

// MockPriceClient is a mock implementation of coingecko.Client for testing.
type MockPriceClient struct {
	mu sync.Mutex
	// Prices maps a coin id to its spot price
	Prices map[string]model.SpotPrice
	// History is returned by MarketChartRange
	History model.PriceHistory
	// MockError is the error to return from every query
	MockError error
	// QueryCount tracks how many times either method was called
	QueryCount int
}

// NewMockPriceClient creates a mock with bitcoin at 60000 EUR (+2.5%) and
// ethereum at 3000 EUR (-1%), and a three point bitcoin history.
func NewMockPriceClient() *MockPriceClient {
	return &MockPriceClient{
		Prices: map[string]model.SpotPrice{
			"bitcoin":  {EUR: 60000, Change24hPct: 2.5},
			"ethereum": {EUR: 3000, Change24hPct: -1},
		},
		History: model.PriceHistory{Prices: [][2]float64{
			{1717200000000, 61000.5},
			{1717286400000, 61500.25},
			{1717372800000, 60900},
		}},
	}
}

// SimplePrice returns the configured spot price of coinID.
func (m *MockPriceClient) SimplePrice(_ context.Context, coinID string) (model.SpotPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return model.SpotPrice{}, m.MockError
	}
	price, ok := m.Prices[coinID]
	if !ok {
		return model.SpotPrice{}, ErrMockProvider
	}
	return price, nil
}

// MarketChartRange returns the configured history.
func (m *MockPriceClient) MarketChartRange(_ context.Context, _ string, _, _ int64) (model.PriceHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return model.PriceHistory{}, m.MockError
	}
	return m.History, nil
}

// WithPrice configures the spot price of coinID.
func (m *MockPriceClient) WithPrice(coinID string, eur, changePct float64) *MockPriceClient {
	m.Prices[coinID] = model.SpotPrice{EUR: eur, Change24hPct: changePct}
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockPriceClient) WithError(err error) *MockPriceClient {
	m.MockError = err
	return m
}

// MockBalanceLookup is a mock implementation of service.BalanceLookup for testing.
// Addresses without a configured quote fail with ErrMockProvider.
type MockBalanceLookup struct {
	mu sync.Mutex
	// Quotes maps an address to the quote returned for it
	Quotes map[string]model.BalanceQuote
	// Errors maps an address to the error returned for it
	Errors map[string]error
	// Fallback is returned by FallbackPrice for every symbol
	Fallback float64
	// Calls records the addresses looked up, in call order
	Calls []string
}

// NewMockBalanceLookup creates a mock with no quotes and a 3200 EUR fallback price.
func NewMockBalanceLookup() *MockBalanceLookup {
	return &MockBalanceLookup{
		Quotes:   map[string]model.BalanceQuote{},
		Errors:   map[string]error{},
		Fallback: TestFallbackETHPrice,
	}
}

// Lookup returns the configured quote of address.
func (m *MockBalanceLookup) Lookup(_ context.Context, _, address string) (model.BalanceQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, address)
	if err, ok := m.Errors[address]; ok {
		return model.BalanceQuote{}, err
	}
	quote, ok := m.Quotes[address]
	if !ok {
		return model.BalanceQuote{}, ErrMockProvider
	}
	return quote, nil
}

// FallbackPrice returns the configured fallback price.
func (m *MockBalanceLookup) FallbackPrice(_ string) float64 {
	return m.Fallback
}

// WithQuote configures a quote for address: balance units at price EUR with the
// given 24h change in percent.
func (m *MockBalanceLookup) WithQuote(address string, balance, price, changePct float64) *MockBalanceLookup {
	m.Quotes[address] = model.BalanceQuote{
		Address:      address,
		Balance:      balance,
		CurrentPrice: price,
		ValueInEur:   balance * price,
		Change24h:    changePct,
		Timestamp:    time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC),
	}
	return m
}

// WithError configures address to fail with err.
func (m *MockBalanceLookup) WithError(address string, err error) *MockBalanceLookup {
	m.Errors[address] = err
	return m
}

// CallCount returns the number of lookups made so far.
func (m *MockBalanceLookup) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
