package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
)

// AssetCategory discriminates the Asset sum type.
type AssetCategory string

// Supported asset categories. The tag values are part of the persisted format.
const (
	CategoryCrypto         AssetCategory = "crypto"
	CategorySavings        AssetCategory = "livrets"
	CategoryStocks         AssetCategory = "actions"
	CategoryBankAccounts   AssetCategory = "comptes-bancaires"
	CategoryPreciousMetals AssetCategory = "metaux-precieux"
)

// AssetCategories lists every known category.
var AssetCategories = []AssetCategory{
	CategoryCrypto,
	CategorySavings,
	CategoryStocks,
	CategoryBankAccounts,
	CategoryPreciousMetals,
}

// Valid reports whether c is one of the five known categories.
func (c AssetCategory) Valid() bool {
	return slices.Contains(AssetCategories, c)
}

// Performance holds the optional 24h movement of an asset or category.
type Performance struct {
	Change24h        float64 `json:"change24h"`
	ChangePercent24h float64 `json:"changePercent24h"`
}

// Asset represents one tracked holding. The common fields are shared by every
// category; Details carries the category-specific payload and must match Category.
type Asset struct {
	ID          string        `json:"id"`
	Category    AssetCategory `json:"category"`
	Name        string        `json:"name"`
	Value       float64       `json:"value"` // EUR
	LastUpdated time.Time     `json:"lastUpdated"`
	Icon        string        `json:"icon,omitempty"`
	Performance *Performance  `json:"performance,omitempty"`

	Details AssetDetails `json:"-"`
}

// AssetDetails is implemented by every category payload.
type AssetDetails interface {
	AssetCategory() AssetCategory
}

// CryptoDetails is the payload of a crypto asset.
type CryptoDetails struct {
	Symbol        string  `json:"symbol"`
	Address       string  `json:"address,omitempty"`
	Amount        float64 `json:"amount"`
	CurrentPrice  float64 `json:"currentPrice"` // EUR per unit
	AddedManually bool    `json:"addedManually"`
}

// SavingsDetails is the payload of a savings account (livret).
type SavingsDetails struct {
	Type         string  `json:"type"`
	InterestRate float64 `json:"interestRate"`
	Bank         string  `json:"bank,omitempty"`
}

// StockDetails is the payload of a stock or fund position.
type StockDetails struct {
	Ticker       string  `json:"ticker"`
	Quantity     float64 `json:"quantity"`
	CurrentPrice float64 `json:"currentPrice"`
	Market       string  `json:"market"`
}

// BankAccountDetails is the payload of a bank account.
type BankAccountDetails struct {
	Type          string `json:"type"`
	Bank          string `json:"bank"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// PreciousMetalDetails is the payload of a precious metal holding.
type PreciousMetalDetails struct {
	Type                string   `json:"type"`
	Weight              float64  `json:"weight"` // grams
	Purity              *float64 `json:"purity,omitempty"`
	CurrentPricePerGram float64  `json:"currentPricePerGram"`
}

func (*CryptoDetails) AssetCategory() AssetCategory        { return CategoryCrypto }
func (*SavingsDetails) AssetCategory() AssetCategory       { return CategorySavings }
func (*StockDetails) AssetCategory() AssetCategory         { return CategoryStocks }
func (*BankAccountDetails) AssetCategory() AssetCategory   { return CategoryBankAccounts }
func (*PreciousMetalDetails) AssetCategory() AssetCategory { return CategoryPreciousMetals }

// Crypto returns the crypto payload when the asset is a crypto holding.
func (a Asset) Crypto() (*CryptoDetails, bool) {
	if a.Category != CategoryCrypto {
		return nil, false
	}
	d, ok := a.Details.(*CryptoDetails)
	return d, ok && d != nil
}

// Clone returns a copy of the asset that shares no pointers with the original.
func (a Asset) Clone() Asset {
	out := a
	if a.Performance != nil {
		p := *a.Performance
		out.Performance = &p
	}
	switch d := a.Details.(type) {
	case *CryptoDetails:
		c := *d
		out.Details = &c
	case *SavingsDetails:
		c := *d
		out.Details = &c
	case *StockDetails:
		c := *d
		out.Details = &c
	case *BankAccountDetails:
		c := *d
		out.Details = &c
	case *PreciousMetalDetails:
		c := *d
		if d.Purity != nil {
			p := *d.Purity
			c.Purity = &p
		}
		out.Details = &c
	}
	return out
}

// NewAssetDetails returns an empty payload for the given category.
func NewAssetDetails(c AssetCategory) (AssetDetails, error) {
	switch c {
	case CategoryCrypto:
		return &CryptoDetails{}, nil
	case CategorySavings:
		return &SavingsDetails{}, nil
	case CategoryStocks:
		return &StockDetails{}, nil
	case CategoryBankAccounts:
		return &BankAccountDetails{}, nil
	case CategoryPreciousMetals:
		return &PreciousMetalDetails{}, nil
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidCategory, c)
}

// assetCommon avoids recursion into Asset's own JSON methods.
type assetCommon struct {
	ID          string        `json:"id"`
	Category    AssetCategory `json:"category"`
	Name        string        `json:"name"`
	Value       float64       `json:"value"`
	LastUpdated *time.Time    `json:"lastUpdated,omitempty"`
	Icon        string        `json:"icon,omitempty"`
	Performance *Performance  `json:"performance,omitempty"`
}

// MarshalJSON writes the common fields and the payload fields side by side,
// producing the flat layout used on the wire and in the portfolio store.
func (a Asset) MarshalJSON() ([]byte, error) {
	lastUpdated := a.LastUpdated.UTC()
	common := assetCommon{
		ID:          a.ID,
		Category:    a.Category,
		Name:        a.Name,
		Value:       a.Value,
		LastUpdated: &lastUpdated,
		Icon:        a.Icon,
		Performance: a.Performance,
	}

	fields := make(map[string]json.RawMessage)
	if a.Details != nil {
		if a.Details.AssetCategory() != a.Category {
			return nil, fmt.Errorf("asset %s: details of category %q do not match %q", a.ID, a.Details.AssetCategory(), a.Category)
		}
		if err := mergeFields(fields, a.Details); err != nil {
			return nil, fmt.Errorf("failed to encode asset details: %w", err)
		}
	}
	if err := mergeFields(fields, common); err != nil {
		return nil, fmt.Errorf("failed to encode asset: %w", err)
	}

	return json.Marshal(fields)
}

// UnmarshalJSON decodes the flat layout and selects the payload type from the
// category tag. Unknown categories are an error.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var common assetCommon
	if err := json.Unmarshal(data, &common); err != nil {
		return err
	}
	if !common.Category.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCategory, common.Category)
	}

	details, err := NewAssetDetails(common.Category)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, details); err != nil {
		return fmt.Errorf("failed to decode %s details: %w", common.Category, err)
	}

	*a = Asset{
		ID:          common.ID,
		Category:    common.Category,
		Name:        common.Name,
		Value:       common.Value,
		Icon:        common.Icon,
		Performance: common.Performance,
		Details:     details,
	}
	if common.LastUpdated != nil {
		a.LastUpdated = *common.LastUpdated
	}
	return nil
}

func mergeFields(dst map[string]json.RawMessage, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		dst[k] = v
	}
	return nil
}
