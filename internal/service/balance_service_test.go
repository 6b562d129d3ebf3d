package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/testutil"
)

func TestBalanceService_Lookup(t *testing.T) {
	t.Run("values a bitcoin balance at the spot price", func(t *testing.T) {
		btc := testutil.NewMockBlockstreamClient().WithBalance(testutil.ValidBTCAddress, 0.5)
		svc := testutil.NewTestBalanceService(t, btc, testutil.NewMockEthClient(), testutil.NewMockPriceClient())

		quote, err := svc.Lookup(context.Background(), "btc", " "+testutil.ValidBTCAddress+" ")
		require.NoError(t, err)

		assert.Equal(t, testutil.ValidBTCAddress, quote.Address)
		assert.Equal(t, 0.5, quote.Balance)
		assert.Equal(t, 60000.0, quote.CurrentPrice)
		assert.Equal(t, 30000.0, quote.ValueInEur)
		assert.Equal(t, 2.5, quote.Change24h)
		assert.False(t, quote.Timestamp.IsZero())
	})

	t.Run("values an ether balance at the spot price", func(t *testing.T) {
		eth := testutil.NewMockEthClient().WithBalance(testutil.ValidETHAddress, 1.25)
		svc := testutil.NewTestBalanceService(t, testutil.NewMockBlockstreamClient(), eth, testutil.NewMockPriceClient())

		quote, err := svc.Lookup(context.Background(), model.SymbolETH, testutil.ValidETHAddress)
		require.NoError(t, err)

		assert.Equal(t, 3750.0, quote.ValueInEur)
		assert.Equal(t, -1.0, quote.Change24h)
	})

	// WHY: a price outage must not hide the balance; only the valuation degrades.
	t.Run("falls back to the static price when the price provider fails", func(t *testing.T) {
		btc := testutil.NewMockBlockstreamClient().WithBalance(testutil.ValidBTCAddress, 2)
		prices := testutil.NewMockPriceClient().WithError(testutil.ErrMockProvider)
		svc := testutil.NewTestBalanceService(t, btc, testutil.NewMockEthClient(), prices)

		quote, err := svc.Lookup(context.Background(), model.SymbolBTC, testutil.ValidBTCAddress)
		require.NoError(t, err)

		assert.Equal(t, float64(testutil.TestFallbackBTCPrice), quote.CurrentPrice)
		assert.Equal(t, 2*float64(testutil.TestFallbackBTCPrice), quote.ValueInEur)
		assert.Zero(t, quote.Change24h)
	})

	t.Run("a failed balance query is an upstream error", func(t *testing.T) {
		eth := testutil.NewMockEthClient().WithError(testutil.ErrMockProvider)
		svc := testutil.NewTestBalanceService(t, testutil.NewMockBlockstreamClient(), eth, testutil.NewMockPriceClient())

		_, err := svc.Lookup(context.Background(), model.SymbolETH, testutil.ValidETHAddress)

		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		assert.ErrorIs(t, err, testutil.ErrMockProvider)
	})

	t.Run("validates the address before querying", func(t *testing.T) {
		btc := testutil.NewMockBlockstreamClient()
		svc := testutil.NewTestBalanceService(t, btc, testutil.NewMockEthClient(), testutil.NewMockPriceClient())

		_, err := svc.Lookup(context.Background(), model.SymbolBTC, testutil.ValidETHAddress)

		assert.ErrorIs(t, err, apperrors.ErrInvalidAddress)
		assert.Zero(t, btc.QueryCount)
	})

	t.Run("rejects coins without a lookup", func(t *testing.T) {
		svc := testutil.NewTestBalanceService(t, testutil.NewMockBlockstreamClient(), testutil.NewMockEthClient(), testutil.NewMockPriceClient())

		_, err := svc.Lookup(context.Background(), "DOGE", "DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L")

		assert.ErrorIs(t, err, apperrors.ErrUnsupportedSymbol)
	})
}

func TestBalanceService_FallbackPrice(t *testing.T) {
	svc := testutil.NewTestBalanceService(t, testutil.NewMockBlockstreamClient(), testutil.NewMockEthClient(), testutil.NewMockPriceClient())

	assert.Equal(t, float64(testutil.TestFallbackBTCPrice), svc.FallbackPrice("btc"))
	assert.Equal(t, float64(testutil.TestFallbackETHPrice), svc.FallbackPrice("ETH"))
	assert.Equal(t, float64(testutil.TestFallbackETHPrice), svc.FallbackPrice("SOL"))
}

// blockingPriceClient holds every SimplePrice call until release is closed.
type blockingPriceClient struct {
	*testutil.MockPriceClient
	calls   atomic.Int32
	release chan struct{}
}

func (c *blockingPriceClient) SimplePrice(ctx context.Context, coinID string) (model.SpotPrice, error) {
	c.calls.Add(1)
	<-c.release
	return c.MockPriceClient.SimplePrice(ctx, coinID)
}

func TestBalanceService_SpotPrice(t *testing.T) {
	t.Run("coins without a price id use the fallback without a query", func(t *testing.T) {
		prices := testutil.NewMockPriceClient()
		svc := testutil.NewTestBalanceService(t, testutil.NewMockBlockstreamClient(), testutil.NewMockEthClient(), prices)

		spot := svc.SpotPrice(context.Background(), "SOL")

		assert.Equal(t, float64(testutil.TestFallbackETHPrice), spot.EUR)
		assert.Zero(t, prices.QueryCount)
	})

	// WHY: a dashboard refresh looks up many addresses of the same coin at once;
	// they must share one price request to stay under the provider's rate limit.
	t.Run("concurrent requests for one coin share a query", func(t *testing.T) {
		prices := &blockingPriceClient{MockPriceClient: testutil.NewMockPriceClient(), release: make(chan struct{})}
		svc := service.NewBalanceService(testutil.NewMockBlockstreamClient(), testutil.NewMockEthClient(), prices, testutil.TestFallbackBTCPrice, testutil.TestFallbackETHPrice)

		const n = 8
		results := make([]model.SpotPrice, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = svc.SpotPrice(context.Background(), model.SymbolBTC)
			}()
		}

		require.Eventually(t, func() bool { return prices.calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		close(prices.release)
		wg.Wait()

		assert.Equal(t, int32(1), prices.calls.Load())
		for _, r := range results {
			assert.Equal(t, 60000.0, r.EUR)
		}
	})

	t.Run("a provider failure is not returned", func(t *testing.T) {
		prices := testutil.NewMockPriceClient().WithError(errors.New("boom"))
		svc := testutil.NewTestBalanceService(t, testutil.NewMockBlockstreamClient(), testutil.NewMockEthClient(), prices)

		spot := svc.SpotPrice(context.Background(), model.SymbolETH)

		assert.Equal(t, model.SpotPrice{EUR: testutil.TestFallbackETHPrice}, spot)
	})
}
