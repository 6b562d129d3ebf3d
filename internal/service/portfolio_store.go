package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// PortfolioStorageKey is the store key under which a portfolio is persisted.
// Each user gets their own entry, "crypto-tracker-portfolio:<userID>".
const PortfolioStorageKey = "crypto-tracker-portfolio"

// KeyValueStore is the string-keyed storage the portfolio is persisted in.
// repository.KVStoreRepository implements it on SQLite.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// PortfolioStore persists portfolios as JSON in a KeyValueStore.
//
// The stored asset list is the source of truth: totals and breakdown are
// written for convenience but are always recomputed on load.
type PortfolioStore struct {
	kv KeyValueStore
}

// NewPortfolioStore creates a new PortfolioStore on top of kv.
func NewPortfolioStore(kv KeyValueStore) *PortfolioStore {
	return &PortfolioStore{kv: kv}
}

// StorageKey returns the store key of a user's portfolio.
func StorageKey(userID string) string {
	return PortfolioStorageKey + ":" + userID
}

// UserIDFromStorageKey extracts the user ID from a portfolio store key.
func UserIDFromStorageKey(key string) (string, bool) {
	userID, ok := strings.CutPrefix(key, PortfolioStorageKey+":")
	return userID, ok && userID != ""
}

var errCorruptPortfolio = errors.New("corrupt portfolio payload")

// storedPortfolio is the persisted layout. Assets is a pointer so that a
// payload without an assets list can be told apart from an empty one.
type storedPortfolio struct {
	TotalValue float64                                         `json:"totalValue"`
	Assets     *[]model.Asset                                  `json:"assets"`
	Breakdown  map[model.AssetCategory]model.CategoryBreakdown `json:"breakdown"`
}

// Save writes the portfolio for userID. Write failures are logged and
// swallowed: the in-memory portfolio stays authoritative for the request.
func (s *PortfolioStore) Save(userID string, p model.Portfolio) {
	assets := p.Assets
	if assets == nil {
		assets = []model.Asset{}
	}
	payload, err := json.Marshal(storedPortfolio{
		TotalValue: p.TotalValue,
		Assets:     &assets,
		Breakdown:  p.Breakdown,
	})
	if err != nil {
		log.Printf("Failed to encode portfolio for user %s: %v", userID, err)
		return
	}
	if err := s.kv.Set(StorageKey(userID), string(payload)); err != nil {
		log.Printf("Failed to save portfolio for user %s: %v", userID, err)
	}
}

// Load reads the portfolio for userID and rebuilds it from the stored asset list.
// A missing entry yields an empty portfolio. A payload that cannot be decoded is
// deleted and an empty portfolio is returned.
func (s *PortfolioStore) Load(userID string) model.Portfolio {
	key := StorageKey(userID)

	raw, ok, err := s.kv.Get(key)
	if err != nil {
		log.Printf("Failed to load portfolio for user %s: %v", userID, err)
		return EmptyPortfolio()
	}
	if !ok {
		return EmptyPortfolio()
	}

	assets, err := decodeStoredAssets(raw)
	if err != nil {
		log.Printf("Failed to load portfolio for user %s: %v", userID, err)
		if err := s.kv.Delete(key); err != nil {
			log.Printf("Failed to clear corrupted portfolio for user %s: %v", userID, err)
		}
		return EmptyPortfolio()
	}

	return Aggregate(assets)
}

// Clear deletes the stored portfolio of userID.
func (s *PortfolioStore) Clear(userID string) error {
	if err := s.kv.Delete(StorageKey(userID)); err != nil {
		return fmt.Errorf("failed to clear portfolio: %w", err)
	}
	return nil
}

func decodeStoredAssets(raw string) ([]model.Asset, error) {
	var stored storedPortfolio
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptPortfolio, err)
	}
	if stored.Assets == nil {
		return nil, fmt.Errorf("%w: missing assets list", errCorruptPortfolio)
	}
	return *stored.Assets, nil
}
