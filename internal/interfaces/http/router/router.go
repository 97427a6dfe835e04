// Package router assembles the gin engine: middleware stack and API routes.
package router

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// Route binds one method and path to its handlers
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// GET declares a GET route
func GET(path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: http.MethodGet, Path: path, Handlers: handlers}
}

// POST declares a POST route
func POST(path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: http.MethodPost, Path: path, Handlers: handlers}
}

// Group is a set of routes sharing a prefix and middleware
type Group struct {
	Prefix     string
	Middleware []gin.HandlerFunc
	Routes     []Route
}

// NewGroup declares a group
func NewGroup(prefix string, routes ...Route) Group {
	return Group{Prefix: prefix, Routes: routes}
}

// With returns a copy of the group that runs mw before its handlers
func (g Group) With(mw ...gin.HandlerFunc) Group {
	g.Middleware = append(append([]gin.HandlerFunc(nil), g.Middleware...), mw...)
	return g
}

// API mounts route groups under a versioned prefix and keeps an inventory
// of what it registered
type API struct {
	base   *gin.RouterGroup
	routes []string
}

// NewAPI opens the prefix on the engine; mw applies to every mounted group
func NewAPI(engine *gin.Engine, prefix string, mw ...gin.HandlerFunc) *API {
	base := engine.Group(prefix)
	if len(mw) > 0 {
		base.Use(mw...)
	}
	return &API{base: base}
}

// Mount registers the groups
func (a *API) Mount(groups ...Group) *API {
	for _, g := range groups {
		rg := a.base.Group(g.Prefix)
		if len(g.Middleware) > 0 {
			rg.Use(g.Middleware...)
		}
		for _, r := range g.Routes {
			rg.Handle(r.Method, r.Path, r.Handlers...)
			a.routes = append(a.routes, r.Method+" "+joinPath(rg.BasePath(), r.Path))
		}
	}
	return a
}

// Routes lists "METHOD /path" for every mounted route, sorted
func (a *API) Routes() []string {
	out := append([]string(nil), a.routes...)
	sort.Strings(out)
	return out
}

func joinPath(base, path string) string {
	if path == "" {
		return base
	}
	return base + path
}
