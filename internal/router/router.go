// Package router maps a URL fragment and the session state to a view.
package router

import "regexp"

// Kind identifies which view to render.
type Kind string

const (
	Loading       Kind = "loading"
	PublicProfile Kind = "public_profile"
	Auth          Kind = "auth"
	Dashboard     Kind = "dashboard"
)

// AuthState is the caller's view of the current session.
type AuthState struct {
	Loading  bool
	SignedIn bool
}

// Route is the selected view. Username is set for PublicProfile only.
type Route struct {
	Kind     Kind
	Username string
}

var publicProfile = regexp.MustCompile(`^#/u/([^/]+)$`)

// Match picks the route. Public profiles are reachable with or without a
// session; every other fragment falls through to auth or the dashboard.
func Match(fragment string, state AuthState) Route {
	if state.Loading {
		return Route{Kind: Loading}
	}
	if m := publicProfile.FindStringSubmatch(fragment); m != nil {
		return Route{Kind: PublicProfile, Username: m[1]}
	}
	if !state.SignedIn {
		return Route{Kind: Auth}
	}
	return Route{Kind: Dashboard}
}
