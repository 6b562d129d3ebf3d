package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/report"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// portfolioCmd groups the portfolio subcommands.
type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "inspect or clear a user's portfolio" }
func (*portfolioCmd) Usage() string {
	return `pfctl portfolio <command> [flags]

Commands:
  show  - Print the portfolio as a report.
  clear - Delete every asset of the portfolio.
`
}

func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "portfolio")
	commander.Register(&portfolioShowCmd{}, "")
	commander.Register(&portfolioClearCmd{}, "")
	return commander.Execute(ctx, args...)
}

type portfolioShowCmd struct {
	email string
	plain bool
	raw   bool
}

func (*portfolioShowCmd) Name() string     { return "show" }
func (*portfolioShowCmd) Synopsis() string { return "print the portfolio as a report" }
func (*portfolioShowCmd) Usage() string {
	return `pfctl portfolio show -email <email> [-plain] [-raw]
`
}

func (c *portfolioShowCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email of the portfolio owner")
	f.BoolVar(&c.plain, "plain", false, "Render without colours")
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it")
}

func (c *portfolioShowCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	user, err := a.userByEmail(c.email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p := a.portfolios(a.balances()).GetPortfolio(user.ID)
	md := report.PortfolioMarkdown(user.Name, p, time.Now())
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md, c.plain)
	return subcommands.ExitSuccess
}

type portfolioClearCmd struct {
	email string
	yes   bool
}

func (*portfolioClearCmd) Name() string     { return "clear" }
func (*portfolioClearCmd) Synopsis() string { return "delete every asset of the portfolio" }
func (*portfolioClearCmd) Usage() string {
	return `pfctl portfolio clear -email <email> -yes
`
}

func (c *portfolioClearCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email of the portfolio owner")
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion")
}

func (c *portfolioClearCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Refusing to clear the portfolio without -yes")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	user, err := a.userByEmail(c.email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := a.portfolios(a.balances()).ClearPortfolio(user.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Cleared the portfolio of %s\n", user.Email)
	return subcommands.ExitSuccess
}

// chartCmd prints the synthetic chart of one range.
type chartCmd struct {
	email     string
	timeRange string
	plain     bool
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "print the dashboard chart of a portfolio" }
func (*chartCmd) Usage() string {
	return `pfctl chart -email <email> [-range 1D|7D|1M|YTD|1Y] [-plain]
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email of the portfolio owner")
	f.StringVar(&c.timeRange, "range", string(model.Range7D), "Chart range")
	f.BoolVar(&c.plain, "plain", false, "Render without colours")
}

func (c *chartCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := model.ParseTimeRange(c.timeRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	user, err := a.userByEmail(c.email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	dashboard, err := a.portfolios(a.balances()).Dashboard(user.ID, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building chart: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(report.ChartMarkdown(dashboard.Range, dashboard.Chart), c.plain)
	return subcommands.ExitSuccess
}

// refreshCmd runs the balance refresh once, for every portfolio.
type refreshCmd struct {
	timeout time.Duration
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "refresh synced crypto balances of every portfolio" }
func (*refreshCmd) Usage() string {
	return `pfctl refresh [-timeout 5m]

  Runs the scheduled balance refresh once and exits.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.timeout, "timeout", 5*time.Minute, "Give up after this long")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	balances := a.balances()
	refresh := service.NewRefreshService(
		a.portfolios(balances),
		balances,
		repository.NewKVStoreRepository(a.db),
		a.cfg.Scheduler.Concurrency,
	)
	if err := refresh.RefreshAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing portfolios: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
