package service

import (
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// categoryLabels are the dashboard display names of each category.
var categoryLabels = map[model.AssetCategory]string{
	model.CategoryCrypto:         "Cryptomonnaies",
	model.CategorySavings:        "Livrets & Épargne",
	model.CategoryStocks:         "Actions & Fonds",
	model.CategoryBankAccounts:   "Comptes bancaires",
	model.CategoryPreciousMetals: "Métaux précieux",
}

// categoryColors is the allocation chart palette, assigned in slice order.
var categoryColors = []string{"#FF4F00", "#FF6B35", "#FF8C42", "#FFA559", "#FFBE6F"}

// CategoryLabel returns the display name of a category.
func CategoryLabel(c model.AssetCategory) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// EmptyPortfolio returns the portfolio of an empty asset list.
func EmptyPortfolio() model.Portfolio {
	return model.Portfolio{
		TotalValue: 0,
		Assets:     []model.Asset{},
		Breakdown:  map[model.AssetCategory]model.CategoryBreakdown{},
	}
}

// Aggregate derives a Portfolio snapshot from an ordered asset list.
//
// The first pass accumulates per-category totals, counts and summed 24h changes.
// The second pass turns each category's summed change into a percentage against
// the approximate 24h-ago baseline (total minus today's change). Categories whose
// total is not positive, or whose baseline is zero, keep a 0% change. Assets
// without performance contribute 0.
//
// Aggregate is pure: the returned assets are deep copies, so the input is neither
// modified nor shared.
func Aggregate(assets []model.Asset) model.Portfolio {
	p := EmptyPortfolio()
	if len(assets) == 0 {
		return p
	}

	p.Assets = make([]model.Asset, len(assets))
	for i, asset := range assets {
		p.Assets[i] = asset.Clone()
	}

	for _, asset := range assets {
		cat := p.Breakdown[asset.Category]
		cat.TotalValue += asset.Value
		cat.Count++
		if asset.Performance != nil {
			cat.Performance.Change24h += asset.Performance.Change24h
		}
		p.Breakdown[asset.Category] = cat

		p.TotalValue += asset.Value
	}

	for category, cat := range p.Breakdown {
		baseline := cat.TotalValue - cat.Performance.Change24h
		if cat.TotalValue > 0 && baseline != 0 {
			cat.Performance.ChangePercent24h = cat.Performance.Change24h / baseline * 100
			p.Breakdown[category] = cat
		}
	}

	return p
}

// categoryOrder returns the categories of p in the order their first asset
// appears in the asset list.
func categoryOrder(p model.Portfolio) []model.AssetCategory {
	seen := make(map[model.AssetCategory]bool, len(p.Breakdown))
	order := make([]model.AssetCategory, 0, len(p.Breakdown))
	for _, asset := range p.Assets {
		if seen[asset.Category] {
			continue
		}
		seen[asset.Category] = true
		if _, ok := p.Breakdown[asset.Category]; ok {
			order = append(order, asset.Category)
		}
	}
	return order
}

// Allocation returns the share of each category with a positive value for the
// allocation chart. Categories come in first-seen order and take palette colours
// by position, so the same assets in another order may be coloured differently.
func Allocation(p model.Portfolio) []model.AllocationSlice {
	allocation := []model.AllocationSlice{}
	for _, category := range categoryOrder(p) {
		cat := p.Breakdown[category]
		if cat.TotalValue <= 0 {
			continue
		}
		var pct float64
		if p.TotalValue > 0 {
			pct = round(cat.TotalValue / p.TotalValue * 100)
		}
		allocation = append(allocation, model.AllocationSlice{
			Category:   category,
			Label:      CategoryLabel(category),
			Value:      cat.TotalValue,
			Percentage: pct,
			Color:      categoryColors[len(allocation)%len(categoryColors)],
		})
	}
	return allocation
}

// CategoriesWithAssets returns every category holding at least one asset,
// including zero-valued ones, in first-seen order.
func CategoriesWithAssets(p model.Portfolio) []model.AssetCategory {
	categories := []model.AssetCategory{}
	for _, category := range categoryOrder(p) {
		if p.Breakdown[category].Count > 0 {
			categories = append(categories, category)
		}
	}
	return categories
}

// IsDuplicateAsset reports whether candidate is already present in assets.
// Crypto assets are duplicates when both address and symbol match; any other
// asset is a duplicate when its id matches.
func IsDuplicateAsset(assets []model.Asset, candidate model.Asset) bool {
	for _, existing := range assets {
		if sameAsset(existing, candidate) {
			return true
		}
	}
	return false
}

// DeduplicateAssets removes duplicates (see IsDuplicateAsset), keeping the
// first occurrence in list order. The boolean reports whether anything was removed.
func DeduplicateAssets(assets []model.Asset) ([]model.Asset, bool) {
	unique := make([]model.Asset, 0, len(assets))
	for _, asset := range assets {
		if IsDuplicateAsset(unique, asset) {
			continue
		}
		unique = append(unique, asset)
	}
	return unique, len(unique) != len(assets)
}

func sameAsset(a, b model.Asset) bool {
	if b.Category == model.CategoryCrypto {
		ac, aok := a.Crypto()
		bc, bok := b.Crypto()
		if !aok || !bok {
			return false
		}
		return ac.Address == bc.Address && ac.Symbol == bc.Symbol
	}
	return a.ID == b.ID
}
