package service_test

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/testutil"
)

func TestAggregate(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		p := service.Aggregate(nil)

		assert.Zero(t, p.TotalValue)
		assert.NotNil(t, p.Assets)
		assert.Empty(t, p.Assets)
		assert.Empty(t, p.Breakdown)
	})

	t.Run("sums totals and counts per category", func(t *testing.T) {
		assets := []model.Asset{
			testutil.NewCryptoAsset("BTC", 0.5, 60000).Build(),
			testutil.NewCryptoAsset("ETH", 2, 3000).Build(),
			testutil.NewSavingsAsset("Livret A", 10000).Build(),
			testutil.NewBankAccountAsset("Courant", 0).Build(),
		}

		p := service.Aggregate(assets)

		assert.InDelta(t, 46000, p.TotalValue, 1e-9)
		assert.Equal(t, 2, p.Breakdown[model.CategoryCrypto].Count)
		assert.InDelta(t, 36000, p.Breakdown[model.CategoryCrypto].TotalValue, 1e-9)
		assert.Equal(t, 1, p.Breakdown[model.CategoryBankAccounts].Count)
		assert.NotContains(t, p.Breakdown, model.CategoryStocks)
		assert.Len(t, p.Assets, 4)
	})

	// WHY: the category percentage is measured against yesterday's value, i.e.
	// today's total minus today's change, not against today's total.
	t.Run("category change percent uses the 24h-ago baseline", func(t *testing.T) {
		assets := []model.Asset{
			testutil.NewStockAsset("AIR", 10, 110).WithPerformance(100, 10).Build(),
			testutil.NewStockAsset("SAN", 10, 100).WithPerformance(0, 0).Build(),
			testutil.NewStockAsset("MC", 1, 0).Build(),
		}

		p := service.Aggregate(assets)

		stocks := p.Breakdown[model.CategoryStocks]
		assert.InDelta(t, 100, stocks.Performance.Change24h, 1e-9)
		assert.InDelta(t, 100.0/2000*100, stocks.Performance.ChangePercent24h, 1e-9)
	})

	t.Run("zero-valued category keeps a zero percentage", func(t *testing.T) {
		p := service.Aggregate([]model.Asset{
			testutil.NewBankAccountAsset("Courant", 0).WithPerformance(5, 1).Build(),
		})

		assert.Zero(t, p.Breakdown[model.CategoryBankAccounts].Performance.ChangePercent24h)
	})

	// WHY: a category whose whole value is today's change has no 24h-ago value;
	// the division would give Inf, which cannot be stored as JSON.
	t.Run("zero baseline keeps a zero percentage", func(t *testing.T) {
		p := service.Aggregate([]model.Asset{
			testutil.NewSavingsAsset("Livret A", 100).WithPerformance(100, 0).Build(),
			testutil.NewStockAsset("AIR", 1, 50).WithPerformance(-50, 0).Build(),
			testutil.NewStockAsset("SAN", 1, 50).WithPerformance(150, 0).Build(),
		})

		savings := p.Breakdown[model.CategorySavings]
		assert.InDelta(t, 100, savings.Performance.Change24h, 1e-9)
		assert.Zero(t, savings.Performance.ChangePercent24h)
		assert.Zero(t, p.Breakdown[model.CategoryStocks].Performance.ChangePercent24h)

		_, err := json.Marshal(p)
		require.NoError(t, err)
	})

	t.Run("is idempotent", func(t *testing.T) {
		assets := []model.Asset{
			testutil.NewCryptoAsset("BTC", 0.5, 60000).WithPerformance(750, 2.5).Build(),
			testutil.NewStockAsset("AIR", 10, 110).WithPerformance(-20, -1.8).Build(),
			testutil.NewSavingsAsset("Livret A", 10000).Build(),
			testutil.NewPreciousMetalAsset("Lingot", 100, 60).WithPerformance(30, 0.5).Build(),
		}

		first := service.Aggregate(assets)
		second := service.Aggregate(assets)

		assert.Equal(t, first, second)
		assert.Equal(t, first.Breakdown, second.Breakdown)
	})

	t.Run("does not share assets with the input", func(t *testing.T) {
		assets := []model.Asset{
			testutil.NewStockAsset("AIR", 10, 110).WithPerformance(100, 10).Build(),
		}

		p := service.Aggregate(assets)
		assets[0].Name = "changed"
		assets[0].Performance.Change24h = 1
		assets[0].Details.(*model.StockDetails).Quantity = 99

		assert.Equal(t, "AIR", p.Assets[0].Name)
		assert.InDelta(t, 100, p.Assets[0].Performance.Change24h, 1e-9)
		assert.InDelta(t, 10, p.Assets[0].Details.(*model.StockDetails).Quantity, 1e-9)
	})
}

func TestAllocation(t *testing.T) {
	p := service.Aggregate([]model.Asset{
		testutil.NewSavingsAsset("Livret A", 1000).Build(),
		testutil.NewCryptoAsset("BTC", 1, 2000).Build(),
		testutil.NewBankAccountAsset("Courant", 0).Build(),
	})

	allocation := service.Allocation(p)

	require.Len(t, allocation, 2)
	assert.Equal(t, model.CategorySavings, allocation[0].Category)
	assert.Equal(t, 33.33, allocation[0].Percentage)
	assert.Equal(t, "#FF4F00", allocation[0].Color)
	assert.Equal(t, service.CategoryLabel(model.CategorySavings), allocation[0].Label)
	assert.Equal(t, model.CategoryCrypto, allocation[1].Category)
	assert.Equal(t, 66.67, allocation[1].Percentage)
	assert.Equal(t, "#FF6B35", allocation[1].Color)

	assert.Equal(t,
		[]model.AssetCategory{model.CategorySavings, model.CategoryCrypto, model.CategoryBankAccounts},
		service.CategoriesWithAssets(p),
	)
}

// WHY: categories follow the order their first asset was added, and palette
// colours are assigned by that position.
func TestAllocation_FirstSeenOrder(t *testing.T) {
	p := service.Aggregate([]model.Asset{
		testutil.NewBankAccountAsset("Courant", 0).Build(),
		testutil.NewCryptoAsset("BTC", 1, 2000).Build(),
		testutil.NewSavingsAsset("Livret A", 1000).Build(),
		testutil.NewCryptoAsset("ETH", 1, 1000).Build(),
	})

	allocation := service.Allocation(p)

	require.Len(t, allocation, 2)
	assert.Equal(t, model.CategoryCrypto, allocation[0].Category)
	assert.Equal(t, "#FF4F00", allocation[0].Color)
	assert.Equal(t, 75.0, allocation[0].Percentage)
	assert.Equal(t, model.CategorySavings, allocation[1].Category)
	assert.Equal(t, "#FF6B35", allocation[1].Color)

	assert.Equal(t,
		[]model.AssetCategory{model.CategoryBankAccounts, model.CategoryCrypto, model.CategorySavings},
		service.CategoriesWithAssets(p),
	)
}

func TestDeduplicateAssets(t *testing.T) {
	t.Run("crypto assets match on symbol and address", func(t *testing.T) {
		a := testutil.NewSyncedCryptoAsset("BTC", testutil.ValidBTCAddress, 1, 1).Build()
		sameAddress := testutil.NewSyncedCryptoAsset("BTC", testutil.ValidBTCAddress, 2, 1).WithID("x").Build()
		otherSymbol := testutil.NewSyncedCryptoAsset("BCH", testutil.ValidBTCAddress, 2, 1).Build()

		unique, removed := service.DeduplicateAssets([]model.Asset{a, sameAddress, otherSymbol})

		assert.True(t, removed)
		require.Len(t, unique, 2)
		assert.Equal(t, a.ID, unique[0].ID)
		assert.Equal(t, otherSymbol.ID, unique[1].ID)
	})

	t.Run("other assets match on id", func(t *testing.T) {
		a := testutil.NewSavingsAsset("A", 1).WithID("same").Build()
		b := testutil.NewSavingsAsset("B", 2).WithID("same").Build()
		c := testutil.NewSavingsAsset("A", 1).WithID("other").Build()

		unique, removed := service.DeduplicateAssets([]model.Asset{a, b, c})

		assert.True(t, removed)
		assert.Equal(t, []string{"same", "other"}, []string{unique[0].ID, unique[1].ID})
		assert.Equal(t, "A", unique[0].Name)
	})

	t.Run("reports nothing removed for a clean list", func(t *testing.T) {
		unique, removed := service.DeduplicateAssets([]model.Asset{
			testutil.NewSavingsAsset("A", 1).Build(),
			testutil.NewSavingsAsset("B", 1).Build(),
		})

		assert.False(t, removed)
		assert.Len(t, unique, 2)
	})
}

// WHY: amounts are rounded to whole cents before formatting, so display never
// shows sub-cent noise from float arithmetic.
func TestFormatEUR(t *testing.T) {
	digits := func(s string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, s)
	}

	tests := []struct {
		amount float64
		want   string
	}{
		{0, "000"},
		{1234.5, "123450"},
		{0.005, "001"},
		{99.999, "10000"},
	}
	for _, tt := range tests {
		out := service.FormatEUR(tt.amount)
		assert.Contains(t, out, "€")
		assert.Equal(t, tt.want, digits(out), "FormatEUR(%v) = %q", tt.amount, out)
	}
}
