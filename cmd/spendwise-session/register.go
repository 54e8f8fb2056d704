package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	session "github.com/spendwise/go-session"
)

type registerCmd struct {
	email    string
	username string
	fullName string
	phone    string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a SpendWise account" }
func (*registerCmd) Usage() string {
	return `spendwise-session register -email <email> -u <username> -name <full name> [-phone <number>] [-p <password>]

  Creates an account. Registration does not start a session; run login
  afterwards. The password is read from stdin when -p is omitted.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email address for the account.")
	f.StringVar(&c.username, "u", "", "Username for the account.")
	f.StringVar(&c.fullName, "name", "", "Full name for the account.")
	f.StringVar(&c.phone, "phone", "", "Phone number in international format. Optional.")
	f.StringVar(&c.password, "p", "", "Password. Read from stdin when omitted.")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	profile, err := m.Register(ctx, session.Registration{
		Email:    c.email,
		Username: c.username,
		FullName: c.fullName,
		Phone:    c.phone,
		Password: password,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: registration failed: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Registered %s (id %d). Run 'spendwise-session login -u %s' to start a session.\n",
		profile.Username, profile.ID, profile.Username)
	return subcommands.ExitSuccess
}
