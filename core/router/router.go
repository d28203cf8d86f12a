// Package router maps (method, path) pairs to endpoints with
// deterministic precedence: method-specific match, then method-agnostic
// fallback, then a HEAD request retries as GET, then 405 when some other
// method matches the path, then 404.
package router

import (
	"fmt"

	"github.com/hotwell/breeze/core/http"
	"github.com/hotwell/breeze/core/middleware"
)

type route struct {
	pattern  *pattern
	endpoint middleware.Endpoint
}

// table holds the routes registered for one method (or the
// method-agnostic fallback set).
type table struct {
	routes []*route
}

func (t *table) add(path string, ep middleware.Endpoint) {
	p, err := parsePattern(path)
	if err != nil {
		panic(err)
	}
	for _, r := range t.routes {
		if r.pattern.raw == p.raw {
			panic(fmt.Sprintf("route %q registered twice", path))
		}
	}
	t.routes = append(t.routes, &route{pattern: p, endpoint: ep})
}

// bestMatch returns the most specific route matching path.
func (t *table) bestMatch(path string) (*route, *http.Captures, bool) {
	var (
		best     *route
		bestCaps *http.Captures
		bestRank []uint8
	)
	for _, r := range t.routes {
		caps, ok := r.pattern.match(path)
		if !ok {
			continue
		}
		rank := r.pattern.rank()
		if best == nil || compareRank(rank, bestRank) < 0 {
			best, bestCaps, bestRank = r, caps, rank
		}
	}
	if best == nil {
		return nil, nil, false
	}
	return best, bestCaps, true
}

// Router is indexed by method, with a separate method-agnostic
// fallback table. It is mutated only before the server starts
// accepting and is read-only afterwards.
type Router struct {
	methods map[string]*table
	all     *table
}

// New creates an empty router.
func New() *Router {
	return &Router{
		methods: make(map[string]*table),
		all:     &table{},
	}
}

// Add registers one endpoint for (method, path). Registering the same
// pair twice panics.
func (r *Router) Add(method, path string, ep middleware.Endpoint) {
	if !http.ValidMethod(method) {
		panic(fmt.Sprintf("unknown HTTP method %q", method))
	}
	t := r.methods[method]
	if t == nil {
		t = &table{}
		r.methods[method] = t
	}
	t.add(path, ep)
}

// AddAll registers a method-agnostic fallback endpoint for path.
func (r *Router) AddAll(path string, ep middleware.Endpoint) {
	r.all.add(path, ep)
}

// Selection is the result of routing one request.
type Selection struct {
	Endpoint middleware.Endpoint
	Params   *http.Captures
}

// Route resolves path and method to exactly one endpoint.
func (r *Router) Route(path, method string) Selection {
	if t := r.methods[method]; t != nil {
		if m, caps, ok := t.bestMatch(path); ok {
			return Selection{Endpoint: m.endpoint, Params: caps}
		}
	}

	if m, caps, ok := r.all.bestMatch(path); ok {
		return Selection{Endpoint: m.endpoint, Params: caps}
	}

	if method == http.MethodHead {
		// HEAD falls back to the GET registration.
		return r.Route(path, http.MethodGet)
	}

	for m, t := range r.methods {
		if m == method {
			continue
		}
		if _, _, ok := t.bestMatch(path); ok {
			return Selection{Endpoint: methodNotAllowed, Params: &http.Captures{}}
		}
	}

	return Selection{Endpoint: notFound, Params: &http.Captures{}}
}

var notFound middleware.Endpoint = middleware.EndpointFunc(
	func(*http.Request) (*http.Response, error) {
		return http.NewResponse(http.StatusNotFound), nil
	})

var methodNotAllowed middleware.Endpoint = middleware.EndpointFunc(
	func(*http.Request) (*http.Response, error) {
		return http.NewResponse(http.StatusMethodNotAllowed), nil
	})
