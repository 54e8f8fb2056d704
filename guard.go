package session

// Decision is a route guard verdict. RedirectTo is set only when the
// navigation is denied.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard decides navigation from the broadcast session state alone. It holds
// no reference to the manager so collaborators can evaluate any state they
// observed, current or replayed.
type Guard struct {
	loginPath string
}

// GuardOption customizes guard construction.
type GuardOption func(*Guard)

// WithLoginPath overrides the surface anonymous users are routed to.
func WithLoginPath(path string) GuardOption {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// NewGuard returns a guard routing denied navigation to /login.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{loginPath: "/login"}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Allowed reports whether navigation may proceed: only an authenticated
// state passes. Uninitialized is treated as not yet allowed so callers
// gate rendering until the first restore completes.
func (g *Guard) Allowed(state State) bool {
	return state.IsAuthenticated()
}

// Decide resolves a state into an allow/redirect verdict.
func (g *Guard) Decide(state State) Decision {
	if state.IsAuthenticated() {
		return Decision{Allow: true}
	}
	return Decision{Allow: false, RedirectTo: g.loginPath}
}

// LoginPath returns the configured login surface.
func (g *Guard) LoginPath() string {
	return g.loginPath
}
