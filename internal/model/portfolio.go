package model

import "time"

// Portfolio is the aggregate snapshot derived from an ordered asset list.
// It is always recomputed from Assets and never mutated in place.
type Portfolio struct {
	TotalValue float64                             `json:"totalValue"`
	Assets     []Asset                             `json:"assets"`
	Breakdown  map[AssetCategory]CategoryBreakdown `json:"breakdown"`
}

// CategoryBreakdown is the per-category subtotal within a Portfolio.
type CategoryBreakdown struct {
	TotalValue  float64     `json:"totalValue"`
	Count       int         `json:"count"`
	Performance Performance `json:"performance"`
}

// AllocationSlice is one category's share of the total portfolio value,
// used to draw the allocation chart on the dashboard.
type AllocationSlice struct {
	Category   AssetCategory `json:"category"`
	Label      string        `json:"label"`
	Value      float64       `json:"value"`
	Percentage float64       `json:"percentage"`
	Color      string        `json:"color"`
}

// AssetPatch describes an edit to an existing asset. Nil fields are left unchanged.
type AssetPatch struct {
	Name         *string
	Value        *float64
	Amount       *float64
	CurrentPrice *float64
	Performance  *Performance
}

// Dashboard is the read model served to the dashboard screen.
type Dashboard struct {
	Portfolio            Portfolio         `json:"portfolio"`
	FormattedTotalValue  string            `json:"formattedTotalValue"`
	Allocation           []AllocationSlice `json:"allocation"`
	CategoriesWithAssets []AssetCategory   `json:"categoriesWithAssets"`
	Range                TimeRange         `json:"range"`
	Chart                []ChartDataPoint  `json:"chart"`
	ChartPerformance     SeriesPerformance `json:"chartPerformance"`
	GeneratedAt          time.Time         `json:"generatedAt"`
}
