package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
)

// userCmd groups the account subcommands.
type userCmd struct{}

func (*userCmd) Name() string     { return "user" }
func (*userCmd) Synopsis() string { return "manage accounts" }
func (*userCmd) Usage() string {
	return `pfctl user <command> [flags]

Commands:
  add  - Create an account.
  list - List every account.
`
}

func (*userCmd) SetFlags(*flag.FlagSet) {}

func (*userCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "user")
	commander.Register(&userAddCmd{}, "")
	commander.Register(&userListCmd{}, "")
	return commander.Execute(ctx, args...)
}

type userAddCmd struct {
	email    string
	name     string
	password string
}

func (*userAddCmd) Name() string     { return "add" }
func (*userAddCmd) Synopsis() string { return "create an account" }
func (*userAddCmd) Usage() string {
	return `pfctl user add -email <email> -name <name> -password <password>
`
}

func (c *userAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email used to sign in")
	f.StringVar(&c.name, "name", "", "Display name")
	f.StringVar(&c.password, "password", "", "Password, at least 8 characters")
}

func (c *userAddCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	auth, err := service.NewAuthService(a.users(), a.cfg.Auth.Secret, a.cfg.Auth.TokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring authentication: %v\n", err)
		return subcommands.ExitFailure
	}

	user, err := auth.Register(request.RegisterRequest{
		Name:            c.name,
		Email:           c.email,
		Password:        c.password,
		ConfirmPassword: c.password,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
		return subcommands.ExitUsageError
	}

	fmt.Printf("Created %s <%s> with id %s\n", user.Name, user.Email, user.ID)
	return subcommands.ExitSuccess
}

type userListCmd struct{}

func (*userListCmd) Name() string     { return "list" }
func (*userListCmd) Synopsis() string { return "list every account" }
func (*userListCmd) Usage() string {
	return `pfctl user list
`
}

func (*userListCmd) SetFlags(*flag.FlagSet) {}

func (*userListCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	users, err := a.users().GetUsers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing accounts: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
