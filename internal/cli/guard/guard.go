// Package guard decides whether a route may be shown for the current
// session, and records where the client navigates instead.
package guard

import (
	"errors"
	"strings"
)

// Access is the minimum session a route requires
type Access int

const (
	Public Access = iota
	Authenticated
	AdminOnly
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	default:
		return "public"
	}
}

// Route paths
const (
	RouteLanding   = "/"
	RouteCatalog   = "/foods"
	RouteLogin     = "/login"
	RouteSignup    = "/signup"
	RouteDiagnose  = "/test-api"
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"
	RouteAdmin     = "/admin"
	RouteNotFound  = "/404"
)

// Route is one entry of the routing surface
type Route struct {
	Path   string
	Name   string
	Access Access
}

var routes = []Route{
	{Path: RouteLanding, Name: "home", Access: Public},
	{Path: RouteCatalog, Name: "catalog", Access: Public},
	{Path: RouteLogin, Name: "login", Access: Public},
	{Path: RouteSignup, Name: "signup", Access: Public},
	{Path: RouteDiagnose, Name: "diagnostics", Access: Public},
	{Path: RouteDashboard, Name: "dashboard", Access: Authenticated},
	{Path: RouteProfile, Name: "profile", Access: Authenticated},
	{Path: RouteAdmin, Name: "admin", Access: AdminOnly},
}

// Routes returns the routing table
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Resolve maps a path to its route. Unmatched paths resolve to the
// not-found route, which is public.
func Resolve(path string) (Route, bool) {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{Path: RouteNotFound, Name: "not-found", Access: Public}, false
}

// Session is what the gate needs to know about the current session
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Outcome of a guard evaluation
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectDashboard
)

// Decision is the result of evaluating a route for a session. It is
// derived per navigation and never stored.
type Decision struct {
	Outcome Outcome
	// Target is the path to navigate to when redirecting
	Target string
	// Replace means the redirect replaces the guarded entry in history
	Replace bool
}

// Allowed reports whether the requested content may render
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Evaluate decides, synchronously and without I/O, whether a route with the
// given access can render for the session:
//  1. not authenticated → login, replacing history
//  2. admin required but not admin → dashboard, replacing history
//  3. otherwise allow
func Evaluate(s Session, access Access) Decision {
	if access == Public {
		return Decision{Outcome: Allow}
	}
	if s == nil || !s.IsAuthenticated() {
		return Decision{Outcome: RedirectLogin, Target: RouteLogin, Replace: true}
	}
	if access == AdminOnly && !s.IsAdmin() {
		return Decision{Outcome: RedirectDashboard, Target: RouteDashboard, Replace: true}
	}
	return Decision{Outcome: Allow}
}

// ErrLoginRequired is returned when a protected route redirects to login
var ErrLoginRequired = errors.New("not authenticated. Please run 'nutribattle login' first")

// Gate evaluates routes against a session and performs the redirects
type Gate struct {
	session Session
	nav     Navigator
}

// NewGate creates a gate
func NewGate(session Session, nav Navigator) *Gate {
	return &Gate{session: session, nav: nav}
}

// Enter navigates to path if the session may see it, or to the redirect
// target otherwise. The returned decision tells the caller what to render.
func (g *Gate) Enter(path string) Decision {
	route, _ := Resolve(path)
	decision := Evaluate(g.session, route.Access)
	g.nav.Navigate(route.Path, false)
	if !decision.Allowed() {
		// The guarded entry is replaced, so going back skips it
		g.nav.Navigate(decision.Target, decision.Replace)
	}
	return decision
}
