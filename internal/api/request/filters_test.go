package request

import (
	"errors"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

func TestParsePriceHistoryRange(t *testing.T) {
	t.Run("unix seconds", func(t *testing.T) {
		from, to, err := ParsePriceHistoryRange("1700000000", "1700086400")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if from != 1700000000 || to != 1700086400 {
			t.Errorf("Expected 1700000000..1700086400, got %d..%d", from, to)
		}
	})

	t.Run("dates", func(t *testing.T) {
		from, to, err := ParsePriceHistoryRange("2024-01-01", "2024-01-02T00:00:00Z")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if from != 1704067200 {
			t.Errorf("Expected from 1704067200, got %d", from)
		}
		if to != 1704153600 {
			t.Errorf("Expected to 1704153600, got %d", to)
		}
	})

	t.Run("missing bound", func(t *testing.T) {
		_, _, err := ParsePriceHistoryRange("1700000000", "")
		if !errors.Is(err, apperrors.ErrMissingRange) {
			t.Errorf("Expected ErrMissingRange, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, _, err := ParsePriceHistoryRange("yesterday", "1700000000"); err == nil {
			t.Error("Expected error for unparseable from")
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		if _, _, err := ParsePriceHistoryRange("1700086400", "1700000000"); err == nil {
			t.Error("Expected error when from is after to")
		}
	})
}

func TestParseDashboardRange(t *testing.T) {
	t.Run("defaults to one year", func(t *testing.T) {
		r, err := ParseDashboardRange("")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if r != model.Range1Y {
			t.Errorf("Expected 1Y, got %s", r)
		}
	})

	t.Run("accepts french alias", func(t *testing.T) {
		r, err := ParseDashboardRange("7J")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if r != model.Range7D {
			t.Errorf("Expected 7D, got %s", r)
		}
	})

	t.Run("rejects unknown range", func(t *testing.T) {
		_, err := ParseDashboardRange("5Y")
		if !errors.Is(err, apperrors.ErrInvalidTimeRange) {
			t.Errorf("Expected ErrInvalidTimeRange, got %v", err)
		}
	})
}
