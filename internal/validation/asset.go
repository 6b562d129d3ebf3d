package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// Allowed sub-types per category.
var (
	ValidSavingsType = map[string]bool{
		"livret-a": true, "ldds": true, "pel": true, "cel": true,
		"livret-populaire": true, "livret-jeune": true, "autre": true,
	}
	ValidBankAccountType = map[string]bool{
		"compte-courant": true, "compte-epargne": true, "pel": true,
		"pea": true, "assurance-vie": true, "autre": true,
	}
	ValidPreciousMetalType = map[string]bool{
		"or": true, "argent": true, "platine": true, "palladium": true,
	}
)

// ValidateCreateAsset validates a manually entered asset.
// The id is optional; when given it must be URL-safe. Value is not required to be
// positive but must be a finite number.
func ValidateCreateAsset(asset model.Asset) error {
	errors := make(map[string]string)

	if asset.ID != "" {
		if err := ValidateAssetID(asset.ID); err != nil {
			errors["id"] = err.Error()
		}
	}

	if !asset.Category.Valid() {
		errors["category"] = fmt.Sprintf("invalid category: %s", asset.Category)
	}

	if strings.TrimSpace(asset.Name) == "" {
		errors["name"] = "name is required"
	} else if len(asset.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if !finite(asset.Value) {
		errors["value"] = "value must be a number"
	}

	switch d := asset.Details.(type) {
	case *model.CryptoDetails:
		if strings.TrimSpace(d.Symbol) == "" {
			errors["symbol"] = "symbol is required"
		}
		if d.Address != "" && SupportsAddressLookup(d.Symbol) {
			if err := ValidateAddress(d.Symbol, d.Address); err != nil {
				errors["address"] = err.Error()
			}
		}
		if d.Amount < 0 {
			errors["amount"] = "amount cannot be negative"
		}
	case *model.SavingsDetails:
		if !ValidSavingsType[d.Type] {
			errors["type"] = fmt.Sprintf("invalid type: %s", d.Type)
		}
	case *model.StockDetails:
		if strings.TrimSpace(d.Ticker) == "" {
			errors["ticker"] = "ticker is required"
		}
		if d.Quantity < 0 {
			errors["quantity"] = "quantity cannot be negative"
		}
	case *model.BankAccountDetails:
		if !ValidBankAccountType[d.Type] {
			errors["type"] = fmt.Sprintf("invalid type: %s", d.Type)
		}
	case *model.PreciousMetalDetails:
		if !ValidPreciousMetalType[d.Type] {
			errors["type"] = fmt.Sprintf("invalid type: %s", d.Type)
		}
		if d.Weight < 0 {
			errors["weight"] = "weight cannot be negative"
		}
	case nil:
		errors["details"] = "category details are required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateAddCrypto validates an add-address request. Symbols without an
// address lookup are accepted; their address is only required to be present.
func ValidateAddCrypto(req request.AddCryptoRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}
	if strings.TrimSpace(req.Address) == "" {
		errors["address"] = "address is required"
	} else if SupportsAddressLookup(req.Symbol) {
		if err := ValidateAddress(req.Symbol, strings.TrimSpace(req.Address)); err != nil {
			errors["address"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateAsset validates an asset edit. Only provided fields are checked.
func ValidateUpdateAsset(req request.UpdateAssetRequest) error {
	errors := make(map[string]string)

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}
	if req.Value != nil && !finite(*req.Value) {
		errors["value"] = "value must be a number"
	}
	if req.Amount != nil && *req.Amount < 0 {
		errors["amount"] = "amount cannot be negative"
	}
	if req.CurrentPrice != nil && *req.CurrentPrice < 0 {
		errors["currentPrice"] = "currentPrice cannot be negative"
	}
	if req.Name == nil && req.Value == nil && req.Amount == nil && req.CurrentPrice == nil && req.Performance == nil {
		errors["body"] = "at least one field must be provided"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
