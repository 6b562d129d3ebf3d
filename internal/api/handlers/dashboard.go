package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// DashboardHandler serves the dashboard read model.
type DashboardHandler struct {
	portfolioService *service.PortfolioService
}

// NewDashboardHandler creates a new DashboardHandler with the provided service dependency.
func NewDashboardHandler(portfolioService *service.PortfolioService) *DashboardHandler {
	return &DashboardHandler{
		portfolioService: portfolioService,
	}
}

// Dashboard returns the portfolio together with its allocation and the chart of one range.
//
// Endpoint: GET /api/dashboard?range=1D|7D|1M|YTD|1Y (default 1Y)
// Response: 200 OK with model.Dashboard
// Error: 400 Bad Request if the range is unknown
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	tr, err := request.ParseDashboardRange(r.URL.Query().Get("range"))
	if err != nil {
		response.RespondServiceError(w, "invalid range", err)
		return
	}

	dashboard, err := h.portfolioService.Dashboard(userID, tr)
	if err != nil {
		response.RespondServiceError(w, "failed to build dashboard", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, dashboard)
}

// Charts returns the chart series of every range for the current portfolio value.
//
// Endpoint: GET /api/dashboard/charts
// Response: 200 OK with a map of range to data points
func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	response.RespondJSON(w, http.StatusOK, h.portfolioService.ChartSeries(userID))
}
