package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// Soft-failure messages returned alongside an empty price list.
const (
	msgRateLimited  = "Rate limited - using cached data"
	msgNetworkError = "Network error - using fallback data"
)

// MarketService serves bitcoin price history for the dashboard chart.
type MarketService struct {
	prices coingecko.Client
}

// NewMarketService creates a new MarketService.
func NewMarketService(prices coingecko.Client) *MarketService {
	return &MarketService{prices: prices}
}

// PriceHistory returns EUR bitcoin prices between two unix timestamps (seconds).
//
// A rate-limited or unreachable provider is not an error: the result then has an
// empty price list and a message in Error, and the caller falls back to the
// synthetic chart. Any other non-200 answer wraps apperrors.ErrUpstream.
func (s *MarketService) PriceHistory(ctx context.Context, from, to int64) (model.PriceHistory, error) {
	history, err := s.prices.MarketChartRange(ctx, coingecko.CoinBitcoin, from, to)
	if err == nil {
		return history, nil
	}

	var statusErr *coingecko.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.RateLimited() {
			log.Printf("CoinGecko rate limit hit for range %d-%d", from, to)
			return model.PriceHistory{Prices: [][2]float64{}, Error: msgRateLimited}, nil
		}
		return model.PriceHistory{}, fmt.Errorf("%w: %w", apperrors.ErrUpstream, err)
	}

	log.Printf("Failed to fetch price history: %v", err)
	return model.PriceHistory{Prices: [][2]float64{}, Error: msgNetworkError}, nil
}
