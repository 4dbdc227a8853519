package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/session"
)

var (
	uninitialized = session.Session{}
	anonymous     = session.Session{State: session.Anonymous}
	loggingIn     = session.Session{State: session.Anonymous, Loading: true}
	authenticated = session.Session{
		State: session.Authenticated,
		Token: "tok",
		User:  &platform.User{ID: "u-1", Email: "admin@tecsup.edu.pe", LastName: "Quispe", Role: "ADMIN"},
	}
)

func TestMatch(t *testing.T) {
	tests := []struct {
		path       string
		wantName   Name
		wantParams Params
	}{
		{"/", RouteRoot, Params{}},
		{"", RouteRoot, Params{}},
		{"/login", RouteLogin, Params{}},
		{"/dashboard/", RouteDashboard, Params{}},
		{"/users?page=2", RouteUsers, Params{}},
		{"/place-types", RoutePlaceTypes, Params{}},
		{"/place-types/new", RoutePlaceTypeNew, Params{}},
		{"/place-types/pt-1/edit", RoutePlaceTypeEdit, Params{"id": "pt-1"}},
		{"/places", RoutePlaces, Params{}},
		{"/places/new", RoutePlaceNew, Params{}},
		{"/places/p-9", RoutePlaceDetail, Params{"id": "p-9"}},
		{"/places/p%2F9", RoutePlaceDetail, Params{"id": "p/9"}},
		{"/places/p-9/edit", RoutePlaceEdit, Params{"id": "p-9"}},
		{"/places/p-9/photos", RouteNotFound, Params{}},
		{"/place-types/pt-1", RouteNotFound, Params{}},
		{"/nowhere", RouteNotFound, Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, params := Match(tt.path)
			assert.Equal(t, tt.wantName, route.Name)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestRoutes_Protection(t *testing.T) {
	for _, r := range Routes() {
		public := r.Name == RouteLogin || r.Name == RouteRoot
		assert.Equal(t, !public, r.Protected, r.Pattern)
	}
	nf, ok := Lookup(RouteNotFound)
	assert.True(t, ok)
	assert.False(t, nf.Protected)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/places/p-1/edit", Path(RoutePlaceEdit, Params{"id": "p-1"}))
	assert.Equal(t, "/place-types/a%2Fb/edit", Path(RoutePlaceTypeEdit, Params{"id": "a/b"}))
	assert.Equal(t, "/dashboard", Path(RouteDashboard, nil))
	assert.Equal(t, "/", Path(RouteRoot, nil))
	assert.Equal(t, "/", Path("bogus", nil))

	for _, r := range Routes() {
		got, _ := Match(Path(r.Name, Params{"id": "x"}))
		assert.Equal(t, r.Name, got.Name)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		s    session.Session
		want Decision
	}{
		{"uninitialized", uninitialized, DecisionLoading},
		{"login in flight", loggingIn, DecisionLoading},
		{"anonymous", anonymous, DecisionUnauthorized},
		{"authenticated", authenticated, DecisionAllow},
		{"authenticated state without token", session.Session{State: session.Authenticated, User: authenticated.User}, DecisionUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.s))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		s            session.Session
		wantRedirect string
		wantDecision Decision
	}{
		{"root anonymous", "/", anonymous, "/login", DecisionUnauthorized},
		{"root authenticated", "/", authenticated, "/dashboard", DecisionAllow},
		{"root loading", "/", uninitialized, "", DecisionLoading},
		{"login anonymous", "/login", anonymous, "", DecisionAllow},
		{"login authenticated", "/login", authenticated, "/dashboard", DecisionAllow},
		{"protected anonymous", "/places/p-1", anonymous, "/login", DecisionUnauthorized},
		{"protected loading", "/places", loggingIn, "", DecisionLoading},
		{"protected authenticated", "/places", authenticated, "", DecisionAllow},
		{"not found anonymous", "/nope", anonymous, "", DecisionAllow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.path, tt.s)
			assert.Equal(t, tt.wantRedirect, res.Redirect)
			assert.Equal(t, tt.wantDecision, res.Decision)
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "loading", DecisionLoading.String())
	assert.Equal(t, "unauthorized", DecisionUnauthorized.String())
	assert.Equal(t, "allow", DecisionAllow.String())
}

func TestHistory(t *testing.T) {
	h := NewHistory("/dashboard")
	var seen []string
	h.OnChange(func(p string) { seen = append(seen, p) })

	h.Navigate("/places")
	h.Navigate("/places")
	h.Navigate("/places/p-1")
	assert.Equal(t, "/places/p-1", h.Current())
	assert.Equal(t, 2, h.Depth())

	h.Replace("/places/p-1/edit")
	assert.Equal(t, 2, h.Depth())

	assert.True(t, h.Back())
	assert.Equal(t, "/places", h.Current())
	assert.True(t, h.Back())
	assert.Equal(t, "/dashboard", h.Current())
	assert.False(t, h.Back())

	assert.Equal(t, []string{"/places", "/places/p-1", "/places/p-1/edit", "/places", "/dashboard"}, seen)
}

func TestHistory_IsSessionNavigator(t *testing.T) {
	var _ session.Navigator = NewHistory("/")
}
