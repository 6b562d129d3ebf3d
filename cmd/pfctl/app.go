package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/blockstream"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/ethrpc"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/report"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// app holds what every subcommand needs: the configuration and an open database.
type app struct {
	cfg *config.Config
	db  *sql.DB
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, db: db}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) users() *repository.UserRepository {
	return repository.NewUserRepository(a.db)
}

func (a *app) balances() *service.BalanceService {
	p := a.cfg.Providers
	return service.NewBalanceService(
		blockstream.NewAPIClient(p.BlockstreamURL, p.HTTPTimeout),
		ethrpc.NewRPCClient(p.EthereumRPCURL, p.HTTPTimeout),
		coingecko.NewAPIClient(p.CoinGeckoURL, p.CoinGeckoProURL, p.CoinGeckoAPIKey, p.HTTPTimeout),
		p.FallbackBTCPrice,
		p.FallbackETHPrice,
	)
}

func (a *app) portfolios(balances service.BalanceLookup) *service.PortfolioService {
	return service.NewPortfolioService(
		service.NewPortfolioStore(repository.NewKVStoreRepository(a.db)),
		balances,
		service.NewChartSynthesizer(),
	)
}

// userByEmail resolves the -email flag of the portfolio commands.
func (a *app) userByEmail(email string) (model.User, error) {
	if email == "" {
		return model.User{}, fmt.Errorf("-email is required")
	}
	user, err := a.users().GetUserByEmail(email)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to find user %s: %w", email, err)
	}
	return user, nil
}

// printMarkdown renders md for the terminal and prints it, falling back to the
// raw markdown when rendering fails.
func printMarkdown(md string, plain bool) {
	out, err := report.Render(md, plain, 100)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
