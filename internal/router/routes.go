// Package router maps dashboard paths to screens and decides whether the
// current session may see them.
package router

import (
	"net/url"
	"strings"
)

// Name identifies a screen.
type Name string

const (
	RouteRoot          Name = "root"
	RouteLogin         Name = "login"
	RouteDashboard     Name = "dashboard"
	RouteUsers         Name = "users"
	RoutePlaceTypes    Name = "place-types"
	RoutePlaceTypeNew  Name = "place-types.new"
	RoutePlaceTypeEdit Name = "place-types.edit"
	RoutePlaces        Name = "places"
	RoutePlaceNew      Name = "places.new"
	RoutePlaceDetail   Name = "places.detail"
	RoutePlaceEdit     Name = "places.edit"
	RouteNotFound      Name = "not-found"
)

// Route is one entry of the route table.
type Route struct {
	Name      Name
	Pattern   string
	Title     string
	Protected bool
}

// Params holds the values of a matched pattern's ":name" segments.
type Params map[string]string

// Order matters: static segments are listed before parameters.
var table = []Route{
	{Name: RouteRoot, Pattern: "/", Title: "Inicio"},
	{Name: RouteLogin, Pattern: "/login", Title: "Iniciar sesión"},
	{Name: RouteDashboard, Pattern: "/dashboard", Title: "Dashboard", Protected: true},
	{Name: RouteUsers, Pattern: "/users", Title: "Usuarios", Protected: true},
	{Name: RoutePlaceTypes, Pattern: "/place-types", Title: "Tipos de lugar", Protected: true},
	{Name: RoutePlaceTypeNew, Pattern: "/place-types/new", Title: "Nuevo tipo de lugar", Protected: true},
	{Name: RoutePlaceTypeEdit, Pattern: "/place-types/:id/edit", Title: "Editar tipo de lugar", Protected: true},
	{Name: RoutePlaces, Pattern: "/places", Title: "Lugares", Protected: true},
	{Name: RoutePlaceNew, Pattern: "/places/new", Title: "Nuevo lugar", Protected: true},
	{Name: RoutePlaceDetail, Pattern: "/places/:id", Title: "Detalle de lugar", Protected: true},
	{Name: RoutePlaceEdit, Pattern: "/places/:id/edit", Title: "Editar lugar", Protected: true},
}

var notFound = Route{Name: RouteNotFound, Pattern: "*", Title: "Página no encontrada"}

// Routes returns the route table.
func Routes() []Route {
	return append([]Route(nil), table...)
}

// Lookup returns the route registered under name.
func Lookup(name Name) (Route, bool) {
	for _, r := range table {
		if r.Name == name {
			return r, true
		}
	}
	if name == RouteNotFound {
		return notFound, true
	}
	return Route{}, false
}

// Match resolves path to a route. The query string and a trailing slash are
// ignored. Unknown paths match the not-found route.
func Match(path string) (Route, Params) {
	segs := split(path)
	for _, r := range table {
		if params, ok := matchPattern(split(r.Pattern), segs); ok {
			return r, params
		}
	}
	return notFound, Params{}
}

// Path renders the route's pattern with params. Missing params render
// empty.
func Path(name Name, params Params) string {
	r, ok := Lookup(name)
	if !ok || r.Name == RouteNotFound {
		return "/"
	}
	segs := split(r.Pattern)
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = url.PathEscape(params[s[1:]])
		}
	}
	return "/" + strings.Join(segs, "/")
}

func matchPattern(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := Params{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			v, err := url.PathUnescape(segs[i])
			if err != nil {
				return nil, false
			}
			params[p[1:]] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
