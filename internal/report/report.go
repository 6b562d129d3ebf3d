// Package report renders portfolios as markdown for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// PortfolioMarkdown renders a portfolio as a markdown document: the total, the
// allocation table and one table per category holding assets.
func PortfolioMarkdown(owner string, p model.Portfolio, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio of %s\n\n", escape(owner))
	fmt.Fprintf(&b, "Total value: **%s** across %d assets, %s\n\n",
		service.FormatEUR(p.TotalValue), len(p.Assets), generatedAt.UTC().Format("2006-01-02 15:04 MST"))

	if len(p.Assets) == 0 {
		b.WriteString("_No assets yet._\n")
		return b.String()
	}

	b.WriteString("## Allocation\n\n")
	b.WriteString("| Category | Value | Share | 24h |\n|---|---:|---:|---:|\n")
	for _, slice := range service.Allocation(p) {
		cat := p.Breakdown[slice.Category]
		fmt.Fprintf(&b, "| %s | %s | %.2f%% | %s |\n",
			slice.Label, service.FormatEUR(slice.Value), slice.Percentage, formatChange(cat.Performance))
	}

	for _, category := range service.CategoriesWithAssets(p) {
		fmt.Fprintf(&b, "\n## %s\n\n", service.CategoryLabel(category))
		b.WriteString("| Name | Details | Value | 24h |\n|---|---|---:|---:|\n")
		for _, asset := range p.Assets {
			if asset.Category != category {
				continue
			}
			perf := model.Performance{}
			if asset.Performance != nil {
				perf = *asset.Performance
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				escape(asset.Name), escape(details(asset.Details)), service.FormatEUR(asset.Value), formatChange(perf))
		}
	}

	return b.String()
}

// ChartMarkdown renders one chart series as a date/value table with its overall change.
func ChartMarkdown(r model.TimeRange, points []model.ChartDataPoint) string {
	var b strings.Builder

	perf := service.SeriesPerformance(points)
	fmt.Fprintf(&b, "# Portfolio value, %s\n\n", r)
	fmt.Fprintf(&b, "Change over the range: **%s** (%+.2f%%)\n\n", signedEUR(perf.Value), perf.Percentage)

	b.WriteString("| Date | Value |\n|---|---:|\n")
	for _, point := range points {
		fmt.Fprintf(&b, "| %s | %s |\n", point.Date, service.FormatEUR(point.Value))
	}
	return b.String()
}

// Render renders markdown for the terminal, wrapped at width columns. plain selects
// the style without colours, for output that is piped or redirected.
func Render(markdown string, plain bool, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if plain {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

func details(d model.AssetDetails) string {
	switch d := d.(type) {
	case *model.CryptoDetails:
		s := fmt.Sprintf("%s %s @ %s", trimFloat(d.Amount), d.Symbol, service.FormatEUR(d.CurrentPrice))
		if d.Address != "" {
			s += " · " + shorten(d.Address)
		}
		if d.AddedManually {
			s += " (manual)"
		}
		return s
	case *model.SavingsDetails:
		s := fmt.Sprintf("%s at %s%%", d.Type, trimFloat(d.InterestRate))
		if d.Bank != "" {
			s += ", " + d.Bank
		}
		return s
	case *model.StockDetails:
		return fmt.Sprintf("%s %s @ %s on %s", trimFloat(d.Quantity), d.Ticker, service.FormatEUR(d.CurrentPrice), d.Market)
	case *model.BankAccountDetails:
		s := d.Type + ", " + d.Bank
		if d.AccountNumber != "" {
			s += " " + maskAccount(d.AccountNumber)
		}
		return s
	case *model.PreciousMetalDetails:
		return fmt.Sprintf("%s g of %s @ %s/g", trimFloat(d.Weight), d.Type, service.FormatEUR(d.CurrentPricePerGram))
	}
	return ""
}

func formatChange(p model.Performance) string {
	if p.Change24h == 0 && p.ChangePercent24h == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (%+.2f%%)", signedEUR(p.Change24h), p.ChangePercent24h)
}

func signedEUR(v float64) string {
	if v > 0 {
		return "+" + service.FormatEUR(v)
	}
	return service.FormatEUR(v)
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.8f", f), "0"), ".")
}

// shorten keeps the first six and last four characters of an address.
func shorten(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}

// maskAccount keeps the last four characters of an account number.
func maskAccount(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("•", 4) + " " + number[len(number)-4:]
}

var escaper = strings.NewReplacer("|", `\|`, "\n", " ")

func escape(s string) string {
	return escaper.Replace(s)
}
