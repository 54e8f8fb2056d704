package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goliatone/go-print"
	"github.com/google/subcommands"
)

type whoamiCmd struct {
	asJSON bool
}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "print the profile of the active session" }
func (*whoamiCmd) Usage() string {
	return `spendwise-session whoami [-json]

  Prints the profile the session was restored with. A degraded profile,
  restored while the backend was unreachable, carries only the username.
`
}

func (c *whoamiCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "Print the profile as JSON.")
}

func (c *whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := newManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	state := m.Restore(ctx)
	if !state.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "not logged in")
		return subcommands.ExitFailure
	}

	profile := state.Profile
	if c.asJSON {
		fmt.Println(print.MaybePrettyJSON(profile))
		return subcommands.ExitSuccess
	}

	fmt.Printf("id:        %d\n", profile.ID)
	fmt.Printf("username:  %s\n", profile.Username)
	fmt.Printf("email:     %s\n", profile.Email)
	fmt.Printf("full name: %s\n", profile.FullName)
	fmt.Printf("active:    %t\n", profile.IsActive)
	return subcommands.ExitSuccess
}
