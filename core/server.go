// Package core ties the engine together: route registration, the
// middleware chain, and the listen/accept entry points.
package core

import (
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/hotwell/breeze/core/http"
	"github.com/hotwell/breeze/core/http1"
	"github.com/hotwell/breeze/core/listener"
	"github.com/hotwell/breeze/core/middleware"
	"github.com/hotwell/breeze/core/router"
)

// Handler is a convenience alias for function endpoints.
type Handler = middleware.EndpointFunc

// Server routes requests to endpoints through a middleware chain.
// Routes and middleware are registered single-threaded before the
// server starts listening; the router and chain are then shared
// read-only across all connection goroutines.
type Server struct {
	router     *router.Router
	middleware []middleware.Middleware
	state      any
	logger     *slog.Logger

	headersTimeout time.Duration
	started        atomic.Bool
}

// New creates a server without application state.
func New() *Server {
	return WithState(nil)
}

// WithState creates a server whose state is shared with every handler
// via Request.State.
func WithState(state any) *Server {
	return &Server{
		router:         router.New(),
		state:          state,
		logger:         slog.Default(),
		headersTimeout: http1.DefaultServeOptions().HeadersTimeout,
	}
}

// SetLogger injects the logger used by the server and its listeners.
func (s *Server) SetLogger(logger *slog.Logger) { s.logger = logger }

// SetHeadersTimeout overrides the per-request head read timeout.
func (s *Server) SetHeadersTimeout(d time.Duration) { s.headersTimeout = d }

// State returns the application-scoped state.
func (s *Server) State() any { return s.state }

// At creates a route builder for path.
func (s *Server) At(path string) *Route {
	return &Route{server: s, path: path}
}

// Add registers an endpoint for (method, path). Registration after the
// server has started accepting is a programming error.
func (s *Server) Add(method, path string, ep middleware.Endpoint) {
	s.mustBeMutable("register routes")
	s.router.Add(method, path, ep)
}

// AddAll registers a method-agnostic fallback endpoint for path.
func (s *Server) AddAll(path string, ep middleware.Endpoint) {
	s.mustBeMutable("register routes")
	s.router.AddAll(path, ep)
}

// With appends a middleware to the server-wide chain, in application
// order.
func (s *Server) With(m middleware.Middleware) *Server {
	s.mustBeMutable("register middleware")
	s.logger.Debug("adding middleware", "name", m.Name())
	s.middleware = append(s.middleware, m)
	return s
}

func (s *Server) mustBeMutable(what string) {
	if s.started.Load() {
		panic("breeze: cannot " + what + " after the server has started")
	}
}

// Respond routes req and runs the middleware chain. It is the direct
// dispatch path, useful for tests and custom transports.
func (s *Server) Respond(req *http.Request) *http.Response {
	sel := s.router.Route(req.URL.Path, req.Method)
	req.PushCaptures(sel.Params)
	req.SetState(s.state)
	return middleware.NewNext(sel.Endpoint, s.middleware).Run(req)
}

// Call makes a Server usable as an endpoint, so servers nest: the
// inner server routes on the prefix-stripped path and pushes its own
// capture set on top of the outer one.
func (s *Server) Call(req *http.Request) (*http.Response, error) {
	sel := s.router.Route(req.URL.Path, req.Method)
	req.PushCaptures(sel.Params)
	req.SetState(s.state)
	return middleware.NewNext(sel.Endpoint, s.middleware).Run(req), nil
}

// HandleConn runs the HTTP/1.1 loop on one accepted connection.
// Listener goroutines call this once per accepted stream.
func (s *Server) HandleConn(conn net.Conn) {
	opts := http1.ServeOptions{
		HeadersTimeout: s.headersTimeout,
		Logger:         s.logger,
	}
	err := http1.Serve(conn, func(req *http.Request) (*http.Response, error) {
		return s.Respond(req), nil
	}, opts)
	if err != nil {
		s.logger.Error("connection terminated", "error", err)
	}
}

// Listen binds addr over TCP and blocks running the accept loop.
func (s *Server) Listen(addr string) error {
	return s.ListenTo(listener.TCP(addr, listener.WithLogger(s.logger)))
}

// ListenTo serves the application on the provided listener: seal
// registration, bind, log the listen info, then accept until the
// listener closes.
func (s *Server) ListenTo(l listener.Listener) error {
	s.started.Store(true)
	if err := l.Bind(s); err != nil {
		return err
	}
	for _, info := range l.Info() {
		s.logger.Info("server listening", "conn", info.Connection(),
			"transport", info.Transport(), "tls", info.IsEncrypted())
	}
	return l.Accept()
}

// Bind seals registration and binds the listener without accepting.
// The caller runs l.Accept itself; tests use this to tear down
// deterministically.
func (s *Server) Bind(l listener.Listener) error {
	s.started.Store(true)
	return l.Bind(s)
}
