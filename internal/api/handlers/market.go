package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// MarketHandler serves bitcoin price history.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler with the provided service dependency.
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// PriceHistory handles GET requests for EUR bitcoin prices in a time window.
// A rate-limited or unreachable provider still answers 200 with an empty price
// list and an error message, so the dashboard can fall back to its synthetic chart.
//
// Endpoint: GET /api/coingecko?from=&to=
// Response: 200 OK with model.PriceHistory
// Error: 400 Bad Request if from or to is missing or malformed
// Error: 502 Bad Gateway if the provider rejects the request
func (h *MarketHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	from, to, err := request.ParsePriceHistoryRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid time window", err.Error())
		return
	}

	history, err := h.marketService.PriceHistory(r.Context(), from, to)
	if err != nil {
		response.RespondServiceError(w, "failed to fetch price history", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}
