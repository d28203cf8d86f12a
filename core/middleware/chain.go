package middleware

import (
	"github.com/hotwell/breeze/core/http"
)

// Endpoint handles one HTTP request.
type Endpoint interface {
	Call(req *http.Request) (*http.Response, error)
}

// EndpointFunc adapts a function to the Endpoint interface.
type EndpointFunc func(req *http.Request) (*http.Response, error)

func (f EndpointFunc) Call(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware intercepts a request on its way to an endpoint. It must
// either invoke next exactly once or short-circuit by returning a
// response of its own.
type Middleware interface {
	Handle(req *http.Request, next Next) (*http.Response, error)

	// Name identifies the middleware in logs.
	Name() string
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(req *http.Request, next Next) (*http.Response, error)

func (f MiddlewareFunc) Handle(req *http.Request, next Next) (*http.Response, error) {
	return f(req, next)
}

func (f MiddlewareFunc) Name() string { return "middleware.func" }

// Next is the remainder of the dispatch chain: the middlewares not yet
// run, terminated by the endpoint. It is a cursor over a shared slice,
// copied by value per request, so chain length never translates into
// call-stack depth beyond one frame per middleware invocation.
type Next struct {
	endpoint Endpoint
	rest     []Middleware
}

// NewNext builds the chain head for one request.
func NewNext(endpoint Endpoint, middleware []Middleware) Next {
	return Next{endpoint: endpoint, rest: middleware}
}

// Run executes the rest of the chain. Errors from middleware or the
// endpoint are converted into a response carrying the error, never
// propagated, so one failing handler cannot take down the connection
// loop.
func (n Next) Run(req *http.Request) *http.Response {
	if len(n.rest) > 0 {
		current := n.rest[0]
		n.rest = n.rest[1:]
		res, err := current.Handle(req, n)
		if err != nil {
			return errorResponse(err)
		}
		return res
	}

	res, err := n.endpoint.Call(req)
	if err != nil {
		return errorResponse(err)
	}
	return res
}

func errorResponse(err error) *http.Response {
	res := http.NewResponse(http.StatusOf(err))
	res.SetError(err)
	return res
}

// Wrap folds per-route middleware into an endpoint. With no middleware
// the endpoint is returned unchanged.
func Wrap(ep Endpoint, middleware []Middleware) Endpoint {
	if len(middleware) == 0 {
		return ep
	}
	mws := append([]Middleware(nil), middleware...)
	return EndpointFunc(func(req *http.Request) (*http.Response, error) {
		return NewNext(ep, mws).Run(req), nil
	})
}
