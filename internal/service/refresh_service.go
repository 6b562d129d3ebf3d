package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// KeyLister lists store keys by prefix. repository.KVStoreRepository implements it.
type KeyLister interface {
	KeysWithPrefix(prefix string) ([]string, error)
}

// RefreshResult reports the outcome of refreshing one portfolio.
type RefreshResult struct {
	Portfolio model.Portfolio `json:"portfolio"`
	Refreshed int             `json:"refreshed"`
	Failed    int             `json:"failed"`
}

// RefreshService re-queries the balances of address-synced crypto assets.
type RefreshService struct {
	portfolios  *PortfolioService
	balances    BalanceLookup
	keys        KeyLister
	concurrency int
	now         func() time.Time
}

// NewRefreshService creates a new RefreshService. concurrency bounds the number
// of balance lookups in flight per portfolio.
func NewRefreshService(portfolios *PortfolioService, balances BalanceLookup, keys KeyLister, concurrency int) *RefreshService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RefreshService{
		portfolios:  portfolios,
		balances:    balances,
		keys:        keys,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// RefreshUser updates every synced crypto asset of the user (addedManually false,
// address set) with a fresh balance and price. Lookups that fail leave their asset
// untouched. Assets deleted while the lookups ran are not re-added.
func (s *RefreshService) RefreshUser(ctx context.Context, userID string) (RefreshResult, error) {
	current := s.portfolios.GetPortfolio(userID)

	type target struct {
		id, symbol, address string
	}
	var targets []target
	for _, asset := range current.Assets {
		crypto, ok := asset.Crypto()
		if !ok || crypto.AddedManually || crypto.Address == "" {
			continue
		}
		targets = append(targets, target{id: asset.ID, symbol: crypto.Symbol, address: crypto.Address})
	}
	if len(targets) == 0 {
		return RefreshResult{Portfolio: current}, nil
	}

	var mu sync.Mutex
	quotes := make(map[string]model.BalanceQuote, len(targets))
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, t := range targets {
		g.Go(func() error {
			quote, err := s.balances.Lookup(gctx, t.symbol, t.address)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Failed to refresh %s for user %s: %v", t.id, userID, err)
				failed++
				return nil
			}
			quotes[t.id] = quote
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RefreshResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return RefreshResult{}, fmt.Errorf("refresh of user %s interrupted: %w", userID, err)
	}

	refreshed := 0
	now := s.now().UTC()
	p := s.portfolios.ReplaceAssets(userID, func(assets []model.Asset) []model.Asset {
		out := make([]model.Asset, len(assets))
		for i, asset := range assets {
			quote, ok := quotes[asset.ID]
			if !ok {
				out[i] = asset
				continue
			}
			updated := asset.Clone()
			crypto, ok := updated.Crypto()
			if !ok {
				out[i] = asset
				continue
			}
			crypto.Amount = quote.Balance
			crypto.CurrentPrice = quote.CurrentPrice
			updated.Value = quote.ValueInEur
			updated.Performance = quotePerformance(quote)
			updated.LastUpdated = now
			out[i] = updated
			refreshed++
		}
		return out
	})

	return RefreshResult{Portfolio: p, Refreshed: refreshed, Failed: failed}, nil
}

// RefreshAll refreshes every stored portfolio in turn. A failure for one user is
// logged and does not stop the others; only a failure to list portfolios is returned.
func (s *RefreshService) RefreshAll(ctx context.Context) error {
	keys, err := s.keys.KeysWithPrefix(PortfolioStorageKey + ":")
	if err != nil {
		return fmt.Errorf("failed to list portfolios: %w", err)
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		userID, ok := UserIDFromStorageKey(key)
		if !ok {
			continue
		}
		result, err := s.RefreshUser(ctx, userID)
		if err != nil {
			log.Printf("Failed to refresh portfolio of user %s: %v", userID, err)
			continue
		}
		if result.Refreshed > 0 || result.Failed > 0 {
			log.Printf("Refreshed portfolio of user %s: %d updated, %d failed", userID, result.Refreshed, result.Failed)
		}
	}
	return nil
}
