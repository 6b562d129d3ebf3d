package testutil

import (
	"database/sql"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// Addresses that pass the chain format checks.
const (
	ValidBTCAddress       = "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"
	ValidLegacyBTCAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	ValidETHAddress       = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

// TestAuthSecret is a fixed fernet key so tokens issued in one test stay valid across services.
const TestAuthSecret = "cw_0x689RpI-jtRR7oE8h_eQsKImvJapLeSbXpwF4e4="

// TestFallbackBTCPrice and TestFallbackETHPrice are the fallback prices test services use.
const (
	TestFallbackBTCPrice = 65000
	TestFallbackETHPrice = 3200
)

// NewTestAuthService creates an AuthService with a fixed key and a one hour token TTL.
func NewTestAuthService(t *testing.T, db *sql.DB) *service.AuthService {
	t.Helper()

	svc, err := service.NewAuthService(repository.NewUserRepository(db), TestAuthSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	return svc
}

// NewTestPortfolioStore creates a PortfolioStore on the kv_store table of db.
func NewTestPortfolioStore(t *testing.T, db *sql.DB) *service.PortfolioStore {
	t.Helper()
	return service.NewPortfolioStore(repository.NewKVStoreRepository(db))
}

// NewTestPortfolioService creates a PortfolioService backed by db. A nil balances
// lookup is replaced by a MockBalanceLookup that fails every lookup.
func NewTestPortfolioService(t *testing.T, db *sql.DB, balances service.BalanceLookup) *service.PortfolioService {
	t.Helper()

	if balances == nil {
		balances = NewMockBalanceLookup()
	}
	return service.NewPortfolioService(
		NewTestPortfolioStore(t, db),
		balances,
		NewFixedChartSynthesizer(),
	)
}

// NewTestRefreshService creates a RefreshService sharing the portfolio service's store.
func NewTestRefreshService(t *testing.T, db *sql.DB, portfolios *service.PortfolioService, balances service.BalanceLookup) *service.RefreshService {
	t.Helper()
	return service.NewRefreshService(portfolios, balances, repository.NewKVStoreRepository(db), 2)
}

// NewTestBalanceService creates a BalanceService on mock provider clients.
func NewTestBalanceService(t *testing.T, btc *MockBlockstreamClient, eth *MockEthClient, prices *MockPriceClient) *service.BalanceService {
	t.Helper()
	return service.NewBalanceService(btc, eth, prices, TestFallbackBTCPrice, TestFallbackETHPrice)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// NewFixedChartSynthesizer returns a ChartSynthesizer whose walk never moves
// (every random draw is 0.5) and whose clock is pinned to 15 June 2025 noon UTC.
func NewFixedChartSynthesizer() *service.ChartSynthesizer {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	return service.NewChartSynthesizerWith(
		func() float64 { return 0.5 },
		func() time.Time { return now },
	)
}

// MakeID generates a unique asset ID for testing.
func MakeID() string {
	return "test-" + strings.ToLower(randomAlphanumeric(12))
}

// MakeEmail generates a unique email address for testing.
func MakeEmail(base string) string {
	if base == "" {
		base = "user"
	}
	return strings.ToLower(base+"."+randomAlphanumeric(8)) + "@example.com"
}

// MakeName generates a unique display name for testing.
func MakeName(base string) string {
	if base == "" {
		base = "Test User"
	}
	return base + " " + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
