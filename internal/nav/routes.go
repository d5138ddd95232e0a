// Package nav holds the route table and the navigation abstraction shared by
// the TUI shell and the session's 401 handler.
package nav

import "strings"

type Route string

const (
	Dashboard   Route = "/"
	Chat        Route = "/chat"
	Login       Route = "/login"
	SuperAdmin  Route = "/super-admin"
	Leaderboard Route = "/leaderboard"
)

type routeSpec struct {
	title     string
	protected bool
}

var table = map[Route]routeSpec{
	Dashboard:   {title: "Dashboard", protected: true},
	Chat:        {title: "Chat", protected: true},
	Login:       {title: "Login"},
	SuperAdmin:  {title: "Super Admin", protected: true},
	Leaderboard: {title: "Leaderboard", protected: true},
}

// Navigator moves the shell to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Resolve maps a requested path to the route that should be shown.
// Unknown paths fall back to the dashboard; protected routes require a session.
func Resolve(path string, authenticated bool) Route {
	r := normalize(path)
	def, ok := table[r]
	if !ok {
		r = Dashboard
		def = table[Dashboard]
	}
	if def.protected && !authenticated {
		return Login
	}
	return r
}

func normalize(path string) Route {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return Dashboard
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return Route(strings.ToLower(path))
}

func (r Route) Title() string {
	if def, ok := table[r]; ok {
		return def.title
	}
	return string(r)
}

func (r Route) Protected() bool {
	return table[r].protected
}

// Menu lists the routes reachable from the navigation bar, in display order.
func Menu(superAdmin bool) []Route {
	routes := []Route{Dashboard, Chat, Leaderboard}
	if superAdmin {
		routes = append(routes, SuperAdmin)
	}
	return routes
}
