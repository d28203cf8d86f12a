// Package app wires configuration, logging, and the server into a
// runnable application.
package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hotwell/breeze/config"
	"github.com/hotwell/breeze/core"
	"github.com/hotwell/breeze/core/listener"
	"github.com/hotwell/breeze/logging"
)

// App is the application instance.
type App struct {
	cfg    *config.Config
	server *core.Server
}

// New creates an application from cfg.
func New(cfg *config.Config) *App {
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	server := core.New()
	server.SetLogger(logger)
	server.SetHeadersTimeout(time.Duration(cfg.HeadersTimeout) * time.Second)

	return &App{cfg: cfg, server: server}
}

// Server returns the underlying server for route registration.
func (a *App) Server() *core.Server {
	return a.server
}

// Run starts the application and blocks in the accept loop.
func (a *App) Run() error {
	go a.awaitSignal()

	logger := logging.Logger()
	logger.Info("starting server", "addr", a.cfg.Addr, "env", a.cfg.Env)

	opts := []listener.Option{listener.WithLogger(logger)}
	if a.cfg.MaxConns > 0 {
		opts = append(opts, listener.WithMaxConns(a.cfg.MaxConns))
	}
	return a.server.ListenTo(listener.TCP(a.cfg.Addr, opts...))
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logging.Logger().Info("signal received, shutting down", "signal", sig.String())
	os.Exit(0)
}
