package service_test

import (
	"errors"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/testutil"
)

// failingKV is a KeyValueStore whose every operation fails.
type failingKV struct{}

var errKVDown = errors.New("store unavailable")

func (failingKV) Get(string) (string, bool, error) { return "", false, errKVDown }
func (failingKV) Set(string, string) error         { return errKVDown }
func (failingKV) Delete(string) error              { return errKVDown }

func TestPortfolioStore(t *testing.T) {
	t.Run("round trips the asset list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := testutil.NewTestPortfolioStore(t, db)

		saved := service.Aggregate([]model.Asset{
			testutil.NewSyncedCryptoAsset("BTC", testutil.ValidBTCAddress, 0.5, 60000).WithPerformance(100, 0.3).Build(),
			testutil.NewStockAsset("AIR", 10, 150).Build(),
			testutil.NewPreciousMetalAsset("Lingot", 100, 60).Build(),
		})
		store.Save("user-1", saved)

		loaded := store.Load("user-1")

		if len(loaded.Assets) != 3 {
			t.Fatalf("Expected 3 assets, got %d", len(loaded.Assets))
		}
		if loaded.TotalValue != saved.TotalValue {
			t.Errorf("Expected total %v, got %v", saved.TotalValue, loaded.TotalValue)
		}
		crypto, ok := loaded.Assets[0].Crypto()
		if !ok || crypto.Address != testutil.ValidBTCAddress {
			t.Errorf("Expected crypto details to survive, got %+v", loaded.Assets[0].Details)
		}
		if loaded.Assets[0].Performance == nil || loaded.Assets[0].Performance.Change24h != 100 {
			t.Errorf("Expected performance to survive, got %+v", loaded.Assets[0].Performance)
		}
		if !loaded.Assets[0].LastUpdated.Equal(saved.Assets[0].LastUpdated) {
			t.Errorf("Expected lastUpdated %v, got %v", saved.Assets[0].LastUpdated, loaded.Assets[0].LastUpdated)
		}
	})

	// WHY: the stored totals are only a convenience; a tampered total must not
	// leak into the dashboard.
	t.Run("recomputes totals from the stored assets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		kv := repository.NewKVStoreRepository(db)
		store := service.NewPortfolioStore(kv)

		p := service.Aggregate([]model.Asset{testutil.NewSavingsAsset("A", 100).Build()})
		p.TotalValue = 999999
		store.Save("user-1", p)

		if loaded := store.Load("user-1"); loaded.TotalValue != 100 {
			t.Errorf("Expected recomputed total 100, got %v", loaded.TotalValue)
		}
	})

	t.Run("keeps users apart", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := testutil.NewTestPortfolioStore(t, db)

		store.Save("user-1", service.Aggregate([]model.Asset{testutil.NewSavingsAsset("A", 1).Build()}))

		if loaded := store.Load("user-2"); len(loaded.Assets) != 0 {
			t.Errorf("Expected user-2 to have no assets, got %d", len(loaded.Assets))
		}
	})

	t.Run("discards a corrupt payload", func(t *testing.T) {
		tests := []struct {
			name    string
			payload string
		}{
			{name: "invalid JSON", payload: "{not json"},
			{name: "missing assets list", payload: `{"totalValue":10}`},
			{name: "unknown category", payload: `{"assets":[{"id":"x","category":"art","name":"Vase","value":1,"lastUpdated":"2025-06-01T08:00:00Z"}]}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				db := testutil.SetupTestDB(t)
				kv := repository.NewKVStoreRepository(db)
				if err := kv.Set(service.StorageKey("user-1"), tt.payload); err != nil {
					t.Fatalf("Failed to seed payload: %v", err)
				}

				loaded := service.NewPortfolioStore(kv).Load("user-1")

				if len(loaded.Assets) != 0 || loaded.TotalValue != 0 {
					t.Errorf("Expected an empty portfolio, got %+v", loaded)
				}
				if _, ok, _ := kv.Get(service.StorageKey("user-1")); ok {
					t.Error("Expected the corrupt entry to be deleted")
				}
			})
		}
	})

	t.Run("swallows store failures", func(t *testing.T) {
		store := service.NewPortfolioStore(failingKV{})

		store.Save("user-1", service.Aggregate([]model.Asset{testutil.NewSavingsAsset("A", 1).Build()}))
		loaded := store.Load("user-1")

		if len(loaded.Assets) != 0 {
			t.Errorf("Expected an empty portfolio, got %d assets", len(loaded.Assets))
		}
		if err := store.Clear("user-1"); !errors.Is(err, errKVDown) {
			t.Errorf("Expected Clear to report the failure, got %v", err)
		}
	})
}

func TestUserIDFromStorageKey(t *testing.T) {
	tests := []struct {
		key    string
		wantID string
		wantOK bool
	}{
		{key: service.StorageKey("abc"), wantID: "abc", wantOK: true},
		{key: service.PortfolioStorageKey + ":", wantOK: false},
		{key: "other:abc", wantOK: false},
	}

	for _, tt := range tests {
		id, ok := service.UserIDFromStorageKey(tt.key)
		if ok != tt.wantOK || id != tt.wantID && tt.wantOK {
			t.Errorf("UserIDFromStorageKey(%q) = %q, %v; want %q, %v", tt.key, id, ok, tt.wantID, tt.wantOK)
		}
	}
}
