package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/blockstream"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/ethrpc"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/scheduler"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	kvRepo := repository.NewKVStoreRepository(db)

	// Create provider clients
	btcClient := blockstream.NewAPIClient(cfg.Providers.BlockstreamURL, cfg.Providers.HTTPTimeout)
	ethClient := ethrpc.NewRPCClient(cfg.Providers.EthereumRPCURL, cfg.Providers.HTTPTimeout)
	priceClient := coingecko.NewAPIClient(
		cfg.Providers.CoinGeckoURL,
		cfg.Providers.CoinGeckoProURL,
		cfg.Providers.CoinGeckoAPIKey,
		cfg.Providers.HTTPTimeout,
	)

	// Create services
	systemService := service.NewSystemService(db)
	authService, err := service.NewAuthService(userRepo, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to configure authentication: %v", err)
	}
	balanceService := service.NewBalanceService(
		btcClient,
		ethClient,
		priceClient,
		cfg.Providers.FallbackBTCPrice,
		cfg.Providers.FallbackETHPrice,
	)
	marketService := service.NewMarketService(priceClient)
	portfolioService := service.NewPortfolioService(
		service.NewPortfolioStore(kvRepo),
		balanceService,
		service.NewChartSynthesizer(),
	)
	refreshService := service.NewRefreshService(
		portfolioService,
		balanceService,
		kvRepo,
		cfg.Scheduler.Concurrency,
	)

	// Schedule the balance refresh
	sched := scheduler.New(10 * time.Minute)
	if cfg.Scheduler.RefreshSchedule != "" {
		if err := sched.Add("balance-refresh", cfg.Scheduler.RefreshSchedule, refreshService.RefreshAll); err != nil {
			log.Fatalf("Failed to schedule balance refresh: %v", err)
		}
		sched.Start()
		log.Printf("Balance refresh scheduled: %s", cfg.Scheduler.RefreshSchedule)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Auth:      authService,
		Balance:   balanceService,
		Market:    marketService,
		Portfolio: portfolioService,
		Refresh:   refreshService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server %s on %s", version.Version, cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
