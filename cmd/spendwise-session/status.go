package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "report whether a session is active" }
func (*statusCmd) Usage() string {
	return `spendwise-session status

  Restores the stored token and reports the resulting session state. The
  exit status is zero only while a session is active, so scripts can gate
  on it.
`
}

func (*statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := newManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	state := m.Restore(ctx)
	if !state.IsAuthenticated() {
		fmt.Println("anonymous, no active session")
		return subcommands.ExitFailure
	}

	fmt.Printf("authenticated as %s, session expires %s\n",
		state.Username(), state.ExpiresAt.Local().Format(time.RFC1123))
	return subcommands.ExitSuccess
}
