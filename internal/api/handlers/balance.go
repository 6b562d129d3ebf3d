package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// BalanceHandler serves address balance lookups valued in EUR.
type BalanceHandler struct {
	balanceService *service.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler with the provided service dependency.
func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

// BitcoinBalance handles GET requests for the balance of a Bitcoin address.
//
// Endpoint: GET /api/bitcoin/balance?address=
// Response: 200 OK with model.BalanceQuote
// Error: 400 Bad Request if the address is missing or malformed
// Error: 502 Bad Gateway if the balance provider fails
func (h *BalanceHandler) BitcoinBalance(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, model.SymbolBTC)
}

// EthereumBalance handles GET requests for the balance of an Ethereum address.
//
// Endpoint: GET /api/ethereum/balance?address=
// Response: 200 OK with model.BalanceQuote
// Error: 400 Bad Request if the address is missing or malformed
// Error: 502 Bad Gateway if the balance provider fails
func (h *BalanceHandler) EthereumBalance(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, model.SymbolETH)
}

func (h *BalanceHandler) lookup(w http.ResponseWriter, r *http.Request, symbol string) {
	address := r.URL.Query().Get("address")
	if address == "" {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrMissingAddress.Error(), "")
		return
	}

	quote, err := h.balanceService.Lookup(r.Context(), symbol, address)
	if err != nil {
		response.RespondServiceError(w, "failed to fetch balance", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}
