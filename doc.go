/*
Package breeze provides a small HTTP/1.1 server engine for Go.

Breeze implements the wire protocol itself: a streaming request decoder
and response encoder with chunked transfer framing, keep-alive and
protocol-upgrade handling, 100-continue support, a method-indexed path
router with deterministic precedence, and an onion-style middleware
chain.

# Quick Start

Basic usage example:

	package main

	import (
	    "github.com/hotwell/breeze/app"
	    "github.com/hotwell/breeze/config"
	    "github.com/hotwell/breeze/core"
	    "github.com/hotwell/breeze/core/http"
	)

	func main() {
	    cfg := config.New()
	    application := app.New(cfg)

	    server := application.Server()
	    server.At("/hello").Get(core.Handler(func(req *http.Request) (*http.Response, error) {
	        return http.Text(200, "Hello, World!"), nil
	    }))

	    application.Run()
	}

# Modules

The engine is organized into several packages:

  - app: Application lifecycle management
  - config: Configuration loading (flags, environment, .env)
  - logging: Process-wide structured logging setup
  - core: Server, route registration, dispatch
  - core/http: Request, Response, ordered headers
  - core/http1: HTTP/1.1 wire codec and connection loop
  - core/router: Method-indexed path routing
  - core/middleware: Dispatch chain and built-in middlewares
  - core/listener: TCP, concurrent, and failover listeners
  - core/pools: Byte buffer pooling

For more information, see https://github.com/hotwell/breeze
*/
package breeze
