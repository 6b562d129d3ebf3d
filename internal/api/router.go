package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System    *service.SystemService
	Auth      *service.AuthService
	Balance   *service.BalanceService
	Market    *service.MarketService
	Portfolio *service.PortfolioService
	Refresh   *service.RefreshService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireAuth := custommiddleware.RequireAuth(svc.Auth)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Auth)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		// Balance and price lookups are public, like the provider proxies they replace.
		balanceHandler := handlers.NewBalanceHandler(svc.Balance)
		r.Get("/bitcoin/balance", balanceHandler.BitcoinBalance)
		r.Get("/ethereum/balance", balanceHandler.EthereumBalance)

		marketHandler := handlers.NewMarketHandler(svc.Market)
		r.Get("/coingecko", marketHandler.PriceHistory)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio, svc.Refresh)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Delete("/", portfolioHandler.ClearPortfolio)
				r.Post("/assets", portfolioHandler.AddAsset)
				r.Post("/crypto", portfolioHandler.AddCrypto)
				r.Post("/refresh", portfolioHandler.Refresh)

				r.Route("/assets/{assetId}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateAssetIDMiddleware)
					r.Put("/", portfolioHandler.UpdateAsset)
					r.Delete("/", portfolioHandler.DeleteAsset)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				dashboardHandler := handlers.NewDashboardHandler(svc.Portfolio)
				r.Get("/", dashboardHandler.Dashboard)
				r.Get("/charts", dashboardHandler.Charts)
			})
		})
	})

	return r
}
