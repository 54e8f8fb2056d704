package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session and clear the stored token" }
func (*logoutCmd) Usage() string {
	return `spendwise-session logout

  Clears the stored token. Succeeds even when no session is active.
`
}

func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := newManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	state := m.Restore(ctx)
	wasActive := state.IsAuthenticated()

	m.Logout(ctx)

	if wasActive {
		fmt.Printf("Logged out %s.\n", state.Username())
	} else {
		fmt.Println("No active session.")
	}
	return subcommands.ExitSuccess
}
