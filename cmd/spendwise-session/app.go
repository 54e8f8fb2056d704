// Command spendwise-session manages a SpendWise login from the terminal.
// The bearer token lives in a file under the user config directory, so a
// session survives across invocations until it expires or is logged out.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	session "github.com/spendwise/go-session"
	"github.com/spendwise/go-session/activitymap"
	"github.com/spendwise/go-session/gateway"
)

var baseURL = flag.String("base-url", "http://localhost:8000", "Base URL of the SpendWise backend")
var tokenFile = flag.String("token-file", "", "Path to the token file (default: <user config dir>/spendwise/token.json)")
var debug = flag.Bool("debug", false, "Dump backend response payloads")

func tokenPath() (string, error) {
	if *tokenFile != "" {
		return *tokenFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve the user config directory, pass -token-file: %w", err)
	}
	return filepath.Join(dir, "spendwise", "token.json"), nil
}

// newManager wires the file store and the HTTP gateway into a session
// manager. Restore has not run yet; commands decide whether they need it.
func newManager() (*session.Manager, error) {
	path, err := tokenPath()
	if err != nil {
		return nil, err
	}

	store, err := session.NewFileTokenStore(path)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(gateway.Config{
		BaseURL: *baseURL,
		Debug:   *debug,
	})
	if err != nil {
		return nil, err
	}

	var opts []session.ManagerOption
	if *debug {
		opts = append(opts, session.WithActivitySink(session.ActivitySinkFunc(
			func(_ context.Context, event session.ActivityEvent) error {
				entry := activitymap.Normalize(event)
				fmt.Fprintf(os.Stderr, "activity %s actor=%s\n", entry.Verb, entry.ActorID)
				return nil
			})))
	}

	return session.NewManager(store, nil, gw, opts...), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
