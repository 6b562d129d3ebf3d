package model

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
)

// TimeRange identifies one of the dashboard chart windows.
type TimeRange string

// Supported chart ranges.
const (
	Range1D  TimeRange = "1D"
	Range7D  TimeRange = "7D"
	Range1M  TimeRange = "1M"
	RangeYTD TimeRange = "YTD"
	Range1Y  TimeRange = "1Y"
)

// TimeRanges lists every chart range in display order.
var TimeRanges = []TimeRange{Range1D, Range7D, Range1M, RangeYTD, Range1Y}

// ParseTimeRange parses a range selector. The French labels used by the
// dashboard (1J, 7J, 1A) are accepted as aliases.
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1D", "1J":
		return Range1D, nil
	case "7D", "7J":
		return Range7D, nil
	case "1M":
		return Range1M, nil
	case "YTD":
		return RangeYTD, nil
	case "1Y", "1A":
		return Range1Y, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeRange, s)
}

// ChartDataPoint is one point of a chart series. Date is a DD/MM label.
type ChartDataPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SeriesPerformance is the change between the first and last point of a series.
type SeriesPerformance struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PriceHistory is the response of the price-history collaborator. Error is set
// when the upstream failed softly and Prices is empty.
type PriceHistory struct {
	Prices [][2]float64 `json:"prices"`
	Error  string       `json:"error,omitempty"`
}
