package core

import (
	"strings"

	"github.com/hotwell/breeze/core/http"
	"github.com/hotwell/breeze/core/middleware"
)

// Route is a handle to one path, created with Server.At. It registers
// endpoints for individual HTTP methods and carries per-route
// middleware applied in front of the server-wide chain.
type Route struct {
	server     *Server
	path       string
	middleware []middleware.Middleware

	// prefix makes registrations mount under a trailing wildcard
	// with the matched prefix stripped; used by Nest.
	prefix bool
}

// Path returns the route's current path.
func (r *Route) Path() string { return r.path }

// At extends the route's path with a sub-path, inheriting its
// middleware.
func (r *Route) At(path string) *Route {
	p := r.path
	if !strings.HasSuffix(p, "/") && !strings.HasPrefix(path, "/") {
		p += "/"
	}
	if path != "/" {
		p += path
	}
	return &Route{
		server:     r.server,
		path:       p,
		middleware: append([]middleware.Middleware(nil), r.middleware...),
	}
}

// With appends a middleware that runs for every endpoint registered
// through this route.
func (r *Route) With(m middleware.Middleware) *Route {
	r.middleware = append(r.middleware, m)
	return r
}

// Method registers an endpoint for one HTTP method at this path.
func (r *Route) Method(method string, ep middleware.Endpoint) *Route {
	if r.prefix {
		wildcard := r.At("*")
		r.server.Add(method, wildcard.path,
			middleware.Wrap(stripPrefix(ep), wildcard.middleware))
	} else {
		r.server.Add(method, r.path, middleware.Wrap(ep, r.middleware))
	}
	return r
}

// All registers a method-agnostic fallback endpoint at this path.
// Method-specific registrations always win over it.
func (r *Route) All(ep middleware.Endpoint) *Route {
	if r.prefix {
		wildcard := r.At("*")
		r.server.AddAll(wildcard.path,
			middleware.Wrap(stripPrefix(ep), wildcard.middleware))
	} else {
		r.server.AddAll(r.path, middleware.Wrap(ep, r.middleware))
	}
	return r
}

// Nest mounts a sub-server under this path. The sub-server sees paths
// with the prefix stripped and pushes its own capture set.
func (r *Route) Nest(sub *Server) *Route {
	sub.started.Store(true)
	prefix := r.prefix
	r.prefix = true
	r.All(sub)
	r.prefix = prefix
	return r
}

// Get registers ep for GET requests.
func (r *Route) Get(ep middleware.Endpoint) *Route { return r.Method(http.MethodGet, ep) }

// Head registers ep for HEAD requests.
func (r *Route) Head(ep middleware.Endpoint) *Route { return r.Method(http.MethodHead, ep) }

// Post registers ep for POST requests.
func (r *Route) Post(ep middleware.Endpoint) *Route { return r.Method(http.MethodPost, ep) }

// Put registers ep for PUT requests.
func (r *Route) Put(ep middleware.Endpoint) *Route { return r.Method(http.MethodPut, ep) }

// Delete registers ep for DELETE requests.
func (r *Route) Delete(ep middleware.Endpoint) *Route { return r.Method(http.MethodDelete, ep) }

// Options registers ep for OPTIONS requests.
func (r *Route) Options(ep middleware.Endpoint) *Route { return r.Method(http.MethodOptions, ep) }

// Connect registers ep for CONNECT requests.
func (r *Route) Connect(ep middleware.Endpoint) *Route { return r.Method(http.MethodConnect, ep) }

// Patch registers ep for PATCH requests.
func (r *Route) Patch(ep middleware.Endpoint) *Route { return r.Method(http.MethodPatch, ep) }

// Trace registers ep for TRACE requests.
func (r *Route) Trace(ep middleware.Endpoint) *Route { return r.Method(http.MethodTrace, ep) }

// stripPrefix rewrites the request path to the innermost wildcard
// remainder before calling ep, so nested servers route on their own
// sub-tree.
func stripPrefix(ep middleware.Endpoint) middleware.Endpoint {
	return middleware.EndpointFunc(func(req *http.Request) (*http.Response, error) {
		req.URL.Path = "/" + req.Wildcard()
		return ep.Call(req)
	})
}
