package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/blockstream"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/ethrpc"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/validation"
)

// BalanceLookup resolves the balance of an address and values it in EUR.
// PortfolioService and RefreshService depend on this rather than on BalanceService
// so tests can substitute canned quotes.
type BalanceLookup interface {
	Lookup(ctx context.Context, symbol, address string) (model.BalanceQuote, error)
	FallbackPrice(symbol string) float64
}

// BalanceService looks up on-chain balances and values them with the CoinGecko spot price.
type BalanceService struct {
	btc    blockstream.Client
	eth    ethrpc.Client
	prices coingecko.Client

	fallbackPrices map[string]float64
	defaultPrice   float64

	group singleflight.Group
	now   func() time.Time
}

// NewBalanceService creates a new BalanceService. fallbackBTC and fallbackETH are used
// when the price provider is unavailable; symbols without a lookup fall back to the ETH price.
func NewBalanceService(
	btc blockstream.Client,
	eth ethrpc.Client,
	prices coingecko.Client,
	fallbackBTC, fallbackETH float64,
) *BalanceService {
	return &BalanceService{
		btc:    btc,
		eth:    eth,
		prices: prices,
		fallbackPrices: map[string]float64{
			model.SymbolBTC: fallbackBTC,
			model.SymbolETH: fallbackETH,
		},
		defaultPrice: fallbackETH,
		now:          time.Now,
	}
}

// coinIDs maps chain symbols to CoinGecko coin identifiers.
var coinIDs = map[string]string{
	model.SymbolBTC: coingecko.CoinBitcoin,
	model.SymbolETH: coingecko.CoinEthereum,
}

// FallbackPrice returns the static EUR price used when no live price is available.
func (s *BalanceService) FallbackPrice(symbol string) float64 {
	if price, ok := s.fallbackPrices[strings.ToUpper(symbol)]; ok {
		return price
	}
	return s.defaultPrice
}

// Lookup returns the balance held at address, its EUR value and the 24h price change.
//
// The address is validated against the chain format first. A failed balance query
// is an error wrapping apperrors.ErrUpstream; a failed price query is not, the
// fallback price and a 0% change are used instead.
func (s *BalanceService) Lookup(ctx context.Context, symbol, address string) (model.BalanceQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	address = strings.TrimSpace(address)

	if err := validation.ValidateAddress(symbol, address); err != nil {
		return model.BalanceQuote{}, err
	}

	balance, err := s.balance(ctx, symbol, address)
	if err != nil {
		return model.BalanceQuote{}, fmt.Errorf("%w: failed to fetch %s balance: %w", apperrors.ErrUpstream, symbol, err)
	}

	spot := s.SpotPrice(ctx, symbol)
	value := balance.Mul(decimal.NewFromFloat(spot.EUR))

	return model.BalanceQuote{
		Address:      address,
		Balance:      balance.InexactFloat64(),
		CurrentPrice: spot.EUR,
		ValueInEur:   value.InexactFloat64(),
		Change24h:    spot.Change24hPct,
		Timestamp:    s.now().UTC(),
	}, nil
}

// SpotPrice returns the live EUR price of symbol, or the fallback price with a 0%
// change when the provider fails. Concurrent requests for the same coin share one call.
func (s *BalanceService) SpotPrice(ctx context.Context, symbol string) model.SpotPrice {
	symbol = strings.ToUpper(symbol)
	fallback := model.SpotPrice{EUR: s.FallbackPrice(symbol)}

	coinID, ok := coinIDs[symbol]
	if !ok {
		return fallback
	}

	v, err, _ := s.group.Do(coinID, func() (any, error) {
		return s.prices.SimplePrice(ctx, coinID)
	})
	if err != nil {
		log.Printf("Failed to fetch %s price, using fallback %.2f: %v", symbol, fallback.EUR, err)
		return fallback
	}
	return v.(model.SpotPrice)
}

func (s *BalanceService) balance(ctx context.Context, symbol, address string) (decimal.Decimal, error) {
	switch symbol {
	case model.SymbolBTC:
		return s.btc.AddressBalance(ctx, address)
	case model.SymbolETH:
		return s.eth.GetBalance(ctx, address)
	}
	return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedSymbol, symbol)
}
