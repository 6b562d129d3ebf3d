package request

import "github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"

// AddCryptoRequest represents the request body for adding a crypto address.
type AddCryptoRequest struct {
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
}

// UpdateAssetRequest represents the request body for editing an asset.
// Only provided fields are changed.
type UpdateAssetRequest struct {
	Name         *string            `json:"name,omitempty"`
	Value        *float64           `json:"value,omitempty"`
	Amount       *float64           `json:"amount,omitempty"`
	CurrentPrice *float64           `json:"currentPrice,omitempty"`
	Performance  *model.Performance `json:"performance,omitempty"`
}

// Patch converts the request into the service-level patch.
func (r UpdateAssetRequest) Patch() model.AssetPatch {
	return model.AssetPatch{
		Name:         r.Name,
		Value:        r.Value,
		Amount:       r.Amount,
		CurrentPrice: r.CurrentPrice,
		Performance:  r.Performance,
	}
}
