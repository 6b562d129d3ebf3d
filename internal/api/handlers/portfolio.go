package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
// It serves as the HTTP layer adapter, translating HTTP requests to service calls
// and formatting responses. Every route acts on the signed-in user's portfolio.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	refreshService   *service.RefreshService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependencies.
func NewPortfolioHandler(portfolioService *service.PortfolioService, refreshService *service.RefreshService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		refreshService:   refreshService,
	}
}

// GetPortfolio handles GET requests to retrieve the user's portfolio.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with model.Portfolio
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	response.RespondJSON(w, http.StatusOK, h.portfolioService.GetPortfolio(userID))
}

// ClearPortfolio removes every asset of the user.
//
// Endpoint: DELETE /api/portfolio
// Response: 204 No Content
// Error: 500 Internal Server Error if the store cannot be cleared
func (h *PortfolioHandler) ClearPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.portfolioService.ClearPortfolio(userID); err != nil {
		response.RespondServiceError(w, "failed to clear portfolio", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddAsset handles POST requests to add a manually entered asset.
// The body is an asset with its category payload; id and lastUpdated are optional.
//
// Endpoint: POST /api/portfolio/assets
// Response: 201 Created with the stored model.Asset
// Error: 400 Bad Request if the body is malformed or validation fails
// Error: 409 Conflict if the asset is already in the portfolio
func (h *PortfolioHandler) AddAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	asset, err := parseJSON[model.Asset](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	created, err := h.portfolioService.AddAsset(userID, asset)
	if err != nil {
		response.RespondServiceError(w, "failed to add asset", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, created)
}

// AddCrypto handles POST requests to track a crypto address.
// BTC and ETH balances are looked up; when the lookup fails, or for other coins,
// a manual asset with a zero amount is added instead.
//
// Endpoint: POST /api/portfolio/crypto
// Request Body: AddCryptoRequest (symbol, address)
// Response: 201 Created with the stored model.Asset
// Error: 400 Bad Request if the address is missing or malformed
// Error: 409 Conflict if the address is already tracked
func (h *PortfolioHandler) AddCrypto(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.AddCryptoRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddCrypto(req); err != nil {
		response.RespondServiceError(w, "failed to add crypto asset", err)
		return
	}

	asset, err := h.portfolioService.AddCryptoAddress(r.Context(), userID, req.Symbol, req.Address)
	if err != nil {
		response.RespondServiceError(w, "failed to add crypto asset", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, asset)
}

// UpdateAsset handles PUT requests to change an asset.
//
// Endpoint: PUT /api/portfolio/assets/{assetId}
// Request Body: UpdateAssetRequest (all fields optional, at least one required)
// Response: 200 OK with the updated model.Asset
// Error: 400 Bad Request if the body is malformed or validation fails
// Error: 404 Not Found if the asset does not exist
func (h *PortfolioHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "assetId")

	req, err := parseJSON[request.UpdateAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateAsset(req); err != nil {
		response.RespondServiceError(w, "failed to update asset", err)
		return
	}

	asset, err := h.portfolioService.UpdateAsset(userID, assetID, req.Patch())
	if err != nil {
		response.RespondServiceError(w, "failed to update asset", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, asset)
}

// DeleteAsset handles DELETE requests to remove an asset.
//
// Endpoint: DELETE /api/portfolio/assets/{assetId}
// Response: 204 No Content
// Error: 404 Not Found if the asset does not exist
func (h *PortfolioHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "assetId")

	if err := h.portfolioService.DeleteAsset(userID, assetID); err != nil {
		response.RespondServiceError(w, "failed to delete asset", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh re-queries the balances of every address-synced crypto asset.
//
// Endpoint: POST /api/portfolio/refresh
// Response: 200 OK with service.RefreshResult
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	result, err := h.refreshService.RefreshUser(r.Context(), userID)
	if err != nil {
		response.RespondServiceError(w, "failed to refresh portfolio", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
