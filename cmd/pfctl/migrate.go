package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// migrateCmd applies pending schema migrations.
type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `pfctl [-db <path>] migrate

  Applies every migration shipped with the binary that the database has not seen yet.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := database.Migrate(a.db); err != nil {
		fmt.Fprintf(os.Stderr, "Error migrating database: %v\n", err)
		return subcommands.ExitFailure
	}

	info, err := service.NewSystemService(a.db).CheckVersion()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading schema version: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Database %s is at schema version %d\n", a.cfg.Database.Path, info.DbVersion)
	return subcommands.ExitSuccess
}

// versionCmd prints the application and schema versions.
type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print application and schema versions" }
func (*versionCmd) Usage() string {
	return `pfctl [-db <path>] version
`
}

func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	info, err := service.NewSystemService(a.db).CheckVersion()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading schema version: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("app %s, schema %d of %d\n", info.AppVersion, info.DbVersion, info.LatestDbVersion)
	if info.MigrationMessage != nil {
		fmt.Println(*info.MigrationMessage)
	}
	return subcommands.ExitSuccess
}
