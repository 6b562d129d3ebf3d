package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// ParsePriceHistoryRange extracts the from/to bounds of a price-history query.
// Each bound is either a unix timestamp in seconds or a date (YYYY-MM-DD or RFC3339).
//
// Validation rules:
//   - from and to: both required
//   - from must not be after to
func ParsePriceHistoryRange(fromParam, toParam string) (from, to int64, err error) {
	if strings.TrimSpace(fromParam) == "" || strings.TrimSpace(toParam) == "" {
		return 0, 0, apperrors.ErrMissingRange
	}

	from, err = parseBound(fromParam)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid from: %w", err)
	}
	to, err = parseBound(toParam)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid to: %w", err)
	}
	if from > to {
		return 0, 0, fmt.Errorf("invalid range: from is after to")
	}
	return from, to, nil
}

// ParseDashboardRange parses the chart range selector, defaulting to one year.
func ParseDashboardRange(rangeParam string) (model.TimeRange, error) {
	if strings.TrimSpace(rangeParam) == "" {
		return model.Range1Y, nil
	}
	return model.ParseTimeRange(rangeParam)
}

// parseBound accepts unix seconds, YYYY-MM-DD, and RFC3339 with or without milliseconds.
func parseBound(str string) (int64, error) {
	str = strings.TrimSpace(str)
	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("timestamp must not be negative")
		}
		return n, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("cannot parse %q as a timestamp or date", str)
}
