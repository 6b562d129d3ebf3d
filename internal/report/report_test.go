package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

var generatedAt = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func samplePortfolio() model.Portfolio {
	return service.Aggregate([]model.Asset{
		{
			ID: "btc", Category: model.CategoryCrypto, Name: "Cold wallet", Value: 30000,
			Performance: &model.Performance{Change24h: 731.71, ChangePercent24h: 2.5},
			Details: &model.CryptoDetails{
				Symbol: "BTC", Address: "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
				Amount: 0.5, CurrentPrice: 60000,
			},
		},
		{
			ID: "courant", Category: model.CategoryBankAccounts, Name: "Compte | joint", Value: 10000,
			Details: &model.BankAccountDetails{Type: "compte-courant", Bank: "Banque", AccountNumber: "FR7612345678"},
		},
	})
}

func TestPortfolioMarkdown(t *testing.T) {
	md := PortfolioMarkdown("Alice", samplePortfolio(), generatedAt)

	assert.Contains(t, md, "# Portfolio of Alice")
	assert.Contains(t, md, "across 2 assets")
	assert.Contains(t, md, "## Cryptomonnaies")
	assert.Contains(t, md, "## Comptes bancaires")
	assert.Contains(t, md, "75.00%")
	assert.Contains(t, md, "0.5 BTC")
	assert.Contains(t, md, "bc1qar…5mdq")
	assert.Contains(t, md, "(+2.50%)")
	assert.Contains(t, md, `Compte \| joint`, "pipes in names must not break the table")
	assert.Contains(t, md, "•••• 5678")
	assert.NotContains(t, md, "FR7612345678")
	assert.NotContains(t, md, "## Actions & Fonds", "categories without assets are skipped")
}

func TestPortfolioMarkdown_Empty(t *testing.T) {
	md := PortfolioMarkdown("Bob", service.EmptyPortfolio(), generatedAt)

	assert.Contains(t, md, "_No assets yet._")
	assert.NotContains(t, md, "## Allocation")
}

func TestChartMarkdown(t *testing.T) {
	points := []model.ChartDataPoint{
		{Date: "13/06", Value: 1000},
		{Date: "14/06", Value: 1050},
		{Date: "15/06", Value: 1100},
	}

	md := ChartMarkdown(model.Range7D, points)

	assert.Contains(t, md, "# Portfolio value, 7D")
	assert.Contains(t, md, "(+10.00%)")
	assert.Contains(t, md, "| 14/06 |")
}

func TestRender(t *testing.T) {
	out, err := Render("# Portfolio of Alice\n\nTotal value: **€10.00**\n", true, 80)
	require.NoError(t, err)

	assert.Contains(t, out, "Portfolio of Alice")
	assert.Contains(t, out, "Total value")
}
