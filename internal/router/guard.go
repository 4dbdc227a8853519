package router

import "github.com/tecsupnav/placesadmin/internal/session"

// Decision is the guard's verdict for a protected route.
type Decision int

const (
	// DecisionLoading means the session is not settled yet; show a
	// placeholder.
	DecisionLoading Decision = iota
	// DecisionUnauthorized means the viewer must log in first.
	DecisionUnauthorized
	// DecisionAllow renders the route.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionUnauthorized:
		return "unauthorized"
	default:
		return "allow"
	}
}

// Decide is the route guard. It never navigates; callers act on the
// decision.
func Decide(s session.Session) Decision {
	if s.State == session.Uninitialized || s.Loading {
		return DecisionLoading
	}
	if !s.IsAuthenticated() {
		return DecisionUnauthorized
	}
	return DecisionAllow
}

// Resolution is what a screen host should do for a path.
type Resolution struct {
	Route    Route
	Params   Params
	Decision Decision
	// Redirect is set when the host must navigate elsewhere instead of
	// rendering Route.
	Redirect string
}

// Resolve matches path and applies the guard and the redirect rules: the
// root goes to the dashboard or to login, login goes to the dashboard for
// an authenticated viewer, and protected routes go to login for an
// anonymous one.
func Resolve(path string, s session.Session) Resolution {
	route, params := Match(path)
	res := Resolution{Route: route, Params: params, Decision: DecisionAllow}

	switch {
	case route.Name == RouteRoot:
		res.Decision = Decide(s)
		switch res.Decision {
		case DecisionAllow:
			res.Redirect = Path(RouteDashboard, nil)
		case DecisionUnauthorized:
			res.Redirect = Path(RouteLogin, nil)
		}
	case route.Name == RouteLogin:
		if s.IsAuthenticated() && !s.Loading {
			res.Redirect = Path(RouteDashboard, nil)
		}
	case route.Protected:
		res.Decision = Decide(s)
		if res.Decision == DecisionUnauthorized {
			res.Redirect = Path(RouteLogin, nil)
		}
	}
	return res
}
