// Command pfctl administers the dashboard backend from the terminal: schema
// migrations, accounts, and portfolio inspection.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var dbPath = flag.String("db", "", "Path to the SQLite database (defaults to DB_PATH)")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&migrateCmd{}, "database")
	commander.Register(&versionCmd{}, "database")
	commander.Register(&userCmd{}, "accounts")
	commander.Register(&portfolioCmd{}, "portfolios")
	commander.Register(&chartCmd{}, "portfolios")
	commander.Register(&refreshCmd{}, "portfolios")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
