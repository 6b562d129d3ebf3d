package testutil

import (
	"database/sql"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// TestPassword is the password of every user created by UserBuilder.
const TestPassword = "correct-horse-battery"

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithEmail("alice@example.com").
//	    WithName("Alice").
//	    Build(t, db)
type UserBuilder struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:        MakeID(),
		Email:     MakeEmail("user"),
		Name:      MakeName("Test User"),
		CreatedAt: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithEmail sets a custom email. It is stored as given.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithName sets a custom name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.Name = name
	return b
}

// Build creates the user in the database and returns it. The password is TestPassword,
// hashed at the minimum bcrypt cost to keep tests fast.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := model.User{
		ID:           b.ID,
		Email:        b.Email,
		Name:         b.Name,
		PasswordHash: string(hash),
		CreatedAt:    b.CreatedAt,
	}
	if err := repository.NewUserRepository(db).CreateUser(user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateUser creates a user with default values.
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// AssetBuilder provides a fluent interface for creating test assets.
// Assets are plain values; store them with SeedPortfolio.
//
// Example usage:
//
//	btc := testutil.NewCryptoAsset("BTC", 0.5, 60000).Build()
//	livret := testutil.NewSavingsAsset("Livret A", 12000).WithID("livret-a").Build()
type AssetBuilder struct {
	asset model.Asset
}

func newAsset(category model.AssetCategory, name string, value float64, details model.AssetDetails) *AssetBuilder {
	return &AssetBuilder{asset: model.Asset{
		ID:          MakeID(),
		Category:    category,
		Name:        name,
		Value:       value,
		LastUpdated: time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC),
		Details:     details,
	}}
}

// NewCryptoAsset creates a manually added crypto asset valued at amount × price.
func NewCryptoAsset(symbol string, amount, price float64) *AssetBuilder {
	return newAsset(model.CategoryCrypto, symbol, amount*price, &model.CryptoDetails{
		Symbol:        symbol,
		Amount:        amount,
		CurrentPrice:  price,
		AddedManually: true,
	})
}

// NewSyncedCryptoAsset creates an address-synced crypto asset with the id the
// portfolio service would give it.
func NewSyncedCryptoAsset(symbol, address string, amount, price float64) *AssetBuilder {
	b := newAsset(model.CategoryCrypto, symbol, amount*price, &model.CryptoDetails{
		Symbol:       symbol,
		Address:      address,
		Amount:       amount,
		CurrentPrice: price,
	})
	b.asset.ID = symbol + "-" + address
	return b
}

// NewSavingsAsset creates a Livret A savings account.
func NewSavingsAsset(name string, value float64) *AssetBuilder {
	return newAsset(model.CategorySavings, name, value, &model.SavingsDetails{
		Type:         "livret-a",
		InterestRate: 3,
		Bank:         "Banque Test",
	})
}

// NewStockAsset creates a stock position valued at quantity × price.
func NewStockAsset(ticker string, quantity, price float64) *AssetBuilder {
	return newAsset(model.CategoryStocks, ticker, quantity*price, &model.StockDetails{
		Ticker:       ticker,
		Quantity:     quantity,
		CurrentPrice: price,
		Market:       "EURONEXT",
	})
}

// NewBankAccountAsset creates a current account.
func NewBankAccountAsset(name string, value float64) *AssetBuilder {
	return newAsset(model.CategoryBankAccounts, name, value, &model.BankAccountDetails{
		Type: "compte-courant",
		Bank: "Banque Test",
	})
}

// NewPreciousMetalAsset creates a gold holding valued at weight × price per gram.
func NewPreciousMetalAsset(name string, weight, pricePerGram float64) *AssetBuilder {
	return newAsset(model.CategoryPreciousMetals, name, weight*pricePerGram, &model.PreciousMetalDetails{
		Type:                "or",
		Weight:              weight,
		CurrentPricePerGram: pricePerGram,
	})
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.asset.ID = id
	return b
}

// WithValue overrides the computed value.
func (b *AssetBuilder) WithValue(value float64) *AssetBuilder {
	b.asset.Value = value
	return b
}

// WithPerformance sets the 24h performance.
func (b *AssetBuilder) WithPerformance(change, changePercent float64) *AssetBuilder {
	b.asset.Performance = &model.Performance{Change24h: change, ChangePercent24h: changePercent}
	return b
}

// Build returns the asset.
func (b *AssetBuilder) Build() model.Asset {
	return b.asset.Clone()
}

// SeedPortfolio stores assets as the portfolio of userID, replacing any previous one.
func SeedPortfolio(t *testing.T, db *sql.DB, userID string, assets ...model.Asset) model.Portfolio {
	t.Helper()

	store := NewTestPortfolioStore(t, db)
	p := service.Aggregate(assets)
	store.Save(userID, p)
	return p
}
