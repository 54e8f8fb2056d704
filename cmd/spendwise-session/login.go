package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "exchange credentials for a session token" }
func (*loginCmd) Usage() string {
	return `spendwise-session login -u <username> [-p <password>]

  Authenticates against the backend and stores the bearer token in the
  token file. The password is read from stdin when -p is omitted.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username to authenticate as.")
	f.StringVar(&c.password, "p", "", "Password. Read from stdin when omitted.")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" {
		fmt.Fprintln(os.Stderr, "Error: -u <username> is required.")
		return subcommands.ExitUsageError
	}

	password := c.password
	if password == "" {
		var err error
		if password, err = readPassword("Password: "); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	m, err := newManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	state, err := m.Login(ctx, c.username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: login failed: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Logged in as %s, session expires %s\n",
		state.Profile.DisplayName(), state.ExpiresAt.Local().Format(time.RFC1123))
	return subcommands.ExitSuccess
}
