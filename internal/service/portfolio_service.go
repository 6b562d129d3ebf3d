package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/validation"
)

// PortfolioService handles portfolio-related business logic operations.
// It owns each user's asset list: every mutation loads the stored list, changes it,
// recomputes the Portfolio with Aggregate and only then writes it back.
//
// Mutations of one user's portfolio are serialised; different users never block each other.
type PortfolioService struct {
	store    *PortfolioStore
	balances BalanceLookup
	charts   ChartSource

	locks sync.Map // userID -> *sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(store *PortfolioStore, balances BalanceLookup, charts ChartSource) *PortfolioService {
	return &PortfolioService{
		store:    store,
		balances: balances,
		charts:   charts,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *PortfolioService) lock(userID string) func() {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// GetPortfolio returns the user's portfolio. Duplicates found in the stored list
// are dropped (first occurrence wins) and the cleaned portfolio is saved back.
func (s *PortfolioService) GetPortfolio(userID string) model.Portfolio {
	unlock := s.lock(userID)
	defer unlock()
	return s.load(userID)
}

func (s *PortfolioService) load(userID string) model.Portfolio {
	p := s.store.Load(userID)

	cleaned, removed := DeduplicateAssets(p.Assets)
	if removed {
		log.Printf("Removed %d duplicate assets from portfolio of user %s", len(p.Assets)-len(cleaned), userID)
		p = s.commit(userID, cleaned)
	}
	return p
}

func (s *PortfolioService) commit(userID string, assets []model.Asset) model.Portfolio {
	p := Aggregate(assets)
	s.store.Save(userID, p)
	return p
}

// AddAsset adds a manually entered asset.
//
// A missing id is generated (SYMBOL-address for crypto with an address, a UUID
// otherwise) and lastUpdated is set to now. Returns apperrors.ErrDuplicateAsset when
// the asset or its id is already present.
func (s *PortfolioService) AddAsset(userID string, asset model.Asset) (model.Asset, error) {
	if err := validation.ValidateCreateAsset(asset); err != nil {
		return model.Asset{}, err
	}

	asset = asset.Clone()
	if crypto, ok := asset.Crypto(); ok {
		crypto.Symbol = strings.ToUpper(strings.TrimSpace(crypto.Symbol))
		crypto.Address = strings.TrimSpace(crypto.Address)
	}
	if asset.ID == "" {
		asset.ID = s.assetID(asset)
	}
	asset.LastUpdated = s.now().UTC()

	unlock := s.lock(userID)
	defer unlock()

	p := s.load(userID)
	if IsDuplicateAsset(p.Assets, asset) || indexOfAsset(p.Assets, asset.ID) >= 0 {
		return model.Asset{}, fmt.Errorf("%w: %s", apperrors.ErrDuplicateAsset, asset.ID)
	}

	s.commit(userID, append(p.Assets, asset))
	return asset, nil
}

// AddCryptoAddress adds a crypto holding identified by its address.
//
// For BTC and ETH the address is validated and its balance looked up. When the
// lookup fails, or the coin has no lookup, a manual placeholder is inserted instead:
// amount and value 0, the fallback price, addedManually set and a zero performance.
// Returns apperrors.ErrDuplicateAsset when the same address is already tracked for symbol.
func (s *PortfolioService) AddCryptoAddress(ctx context.Context, userID, symbol, address string) (model.Asset, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	address = strings.TrimSpace(address)

	if symbol == "" {
		return model.Asset{}, &validation.Error{Fields: map[string]string{"symbol": "symbol is required"}}
	}
	if address == "" {
		return model.Asset{}, apperrors.ErrMissingAddress
	}
	lookup := validation.SupportsAddressLookup(symbol)
	if lookup {
		if err := validation.ValidateAddress(symbol, address); err != nil {
			return model.Asset{}, err
		}
	}

	asset := s.manualCryptoAsset(symbol, address)

	unlock := s.lock(userID)
	defer unlock()

	p := s.load(userID)
	if IsDuplicateAsset(p.Assets, asset) {
		return model.Asset{}, fmt.Errorf("%w: %s address %s", apperrors.ErrDuplicateAsset, symbol, address)
	}

	if lookup {
		quote, err := s.balances.Lookup(ctx, symbol, address)
		if err != nil {
			log.Printf("Could not fetch %s balance for %s, adding manual asset: %v", symbol, address, err)
		} else {
			asset = s.syncedCryptoAsset(symbol, quote)
		}
	}

	s.commit(userID, append(p.Assets, asset))
	return asset, nil
}

func (s *PortfolioService) manualCryptoAsset(symbol, address string) model.Asset {
	return model.Asset{
		ID:          cryptoAssetID(symbol, address),
		Category:    model.CategoryCrypto,
		Name:        symbol,
		Value:       0,
		LastUpdated: s.now().UTC(),
		Performance: &model.Performance{},
		Details: &model.CryptoDetails{
			Symbol:        symbol,
			Address:       address,
			Amount:        0,
			CurrentPrice:  s.balances.FallbackPrice(symbol),
			AddedManually: true,
		},
	}
}

func (s *PortfolioService) syncedCryptoAsset(symbol string, quote model.BalanceQuote) model.Asset {
	return model.Asset{
		ID:          cryptoAssetID(symbol, quote.Address),
		Category:    model.CategoryCrypto,
		Name:        symbol,
		Value:       quote.ValueInEur,
		LastUpdated: s.now().UTC(),
		Performance: quotePerformance(quote),
		Details: &model.CryptoDetails{
			Symbol:        symbol,
			Address:       quote.Address,
			Amount:        quote.Balance,
			CurrentPrice:  quote.CurrentPrice,
			AddedManually: false,
		},
	}
}

// quotePerformance converts the coin's 24h price change into the holding's
// performance. The EUR change is the one implied by the percentage on today's value.
func quotePerformance(quote model.BalanceQuote) *model.Performance {
	perf := &model.Performance{ChangePercent24h: quote.Change24h}
	if quote.Change24h > -100 {
		perf.Change24h = quote.ValueInEur - quote.ValueInEur/(1+quote.Change24h/100)
	}
	return perf
}

// UpdateAsset applies patch to the asset with the given id.
//
// Amount and CurrentPrice map to the unit quantity and unit price of crypto, stock
// and precious metal assets; when either changes and no Value is given, the value
// is recomputed as quantity × price. Returns apperrors.ErrAssetNotFound for an unknown id.
func (s *PortfolioService) UpdateAsset(userID, assetID string, patch model.AssetPatch) (model.Asset, error) {
	unlock := s.lock(userID)
	defer unlock()

	p := s.load(userID)
	idx := indexOfAsset(p.Assets, assetID)
	if idx < 0 {
		return model.Asset{}, fmt.Errorf("%w: %s", apperrors.ErrAssetNotFound, assetID)
	}

	asset := p.Assets[idx].Clone()
	if err := applyPatch(&asset, patch); err != nil {
		return model.Asset{}, err
	}
	asset.LastUpdated = s.now().UTC()

	assets := make([]model.Asset, len(p.Assets))
	copy(assets, p.Assets)
	assets[idx] = asset

	s.commit(userID, assets)
	return asset, nil
}

func applyPatch(asset *model.Asset, patch model.AssetPatch) error {
	if patch.Name != nil {
		asset.Name = strings.TrimSpace(*patch.Name)
	}

	if patch.Amount != nil || patch.CurrentPrice != nil {
		quantity, price, ok := unitFields(asset.Details)
		if !ok {
			return &validation.Error{Fields: map[string]string{
				"amount": fmt.Sprintf("not applicable to %s assets", asset.Category),
			}}
		}
		if patch.Amount != nil {
			*quantity = *patch.Amount
		}
		if patch.CurrentPrice != nil {
			*price = *patch.CurrentPrice
		}
		if patch.Value == nil {
			asset.Value = decimal.NewFromFloat(*quantity).Mul(decimal.NewFromFloat(*price)).InexactFloat64()
		}
	}

	if patch.Value != nil {
		asset.Value = *patch.Value
	}
	if patch.Performance != nil {
		perf := *patch.Performance
		asset.Performance = &perf
	}
	return nil
}

// unitFields returns pointers to the quantity and unit price of a payload.
func unitFields(details model.AssetDetails) (quantity, price *float64, ok bool) {
	switch d := details.(type) {
	case *model.CryptoDetails:
		return &d.Amount, &d.CurrentPrice, true
	case *model.StockDetails:
		return &d.Quantity, &d.CurrentPrice, true
	case *model.PreciousMetalDetails:
		return &d.Weight, &d.CurrentPricePerGram, true
	}
	return nil, nil, false
}

// DeleteAsset removes the asset with the given id.
// Returns apperrors.ErrAssetNotFound for an unknown id.
func (s *PortfolioService) DeleteAsset(userID, assetID string) error {
	unlock := s.lock(userID)
	defer unlock()

	p := s.load(userID)
	idx := indexOfAsset(p.Assets, assetID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAssetNotFound, assetID)
	}

	assets := make([]model.Asset, 0, len(p.Assets)-1)
	assets = append(assets, p.Assets[:idx]...)
	assets = append(assets, p.Assets[idx+1:]...)

	s.commit(userID, assets)
	return nil
}

// ClearPortfolio deletes the user's stored portfolio.
func (s *PortfolioService) ClearPortfolio(userID string) error {
	unlock := s.lock(userID)
	defer unlock()
	return s.store.Clear(userID)
}

// ReplaceAssets recomputes and stores a new asset list built from the current one.
// update receives the current assets and returns the new list; it runs under the
// user's lock.
func (s *PortfolioService) ReplaceAssets(userID string, update func([]model.Asset) []model.Asset) model.Portfolio {
	unlock := s.lock(userID)
	defer unlock()

	p := s.load(userID)
	return s.commit(userID, update(p.Assets))
}

// Dashboard builds the dashboard read model for one chart range.
func (s *PortfolioService) Dashboard(userID string, r model.TimeRange) (model.Dashboard, error) {
	p := s.GetPortfolio(userID)

	series := s.charts.Synthesize(p.TotalValue)
	chart, ok := series[r]
	if !ok {
		return model.Dashboard{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeRange, r)
	}

	return model.Dashboard{
		Portfolio:            p,
		FormattedTotalValue:  FormatEUR(p.TotalValue),
		Allocation:           Allocation(p),
		CategoriesWithAssets: CategoriesWithAssets(p),
		Range:                r,
		Chart:                chart,
		ChartPerformance:     SeriesPerformance(chart),
		GeneratedAt:          s.now().UTC(),
	}, nil
}

// ChartSeries returns the chart series of every range for the user's current total.
func (s *PortfolioService) ChartSeries(userID string) map[model.TimeRange][]model.ChartDataPoint {
	p := s.GetPortfolio(userID)
	return s.charts.Synthesize(p.TotalValue)
}

func (s *PortfolioService) assetID(asset model.Asset) string {
	if crypto, ok := asset.Crypto(); ok && crypto.Address != "" {
		return cryptoAssetID(crypto.Symbol, crypto.Address)
	}
	return s.newID()
}

func cryptoAssetID(symbol, address string) string {
	return symbol + "-" + address
}

func indexOfAsset(assets []model.Asset, id string) int {
	for i, a := range assets {
		if a.ID == id {
			return i
		}
	}
	return -1
}
