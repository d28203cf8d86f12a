// Package config loads application configuration from flags and the
// environment. A .env file in the working directory is honored when
// present.
package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Addr           string
	HeadersTimeout int // seconds
	MaxConns       int
	Env            string
	LogLevel       string
	LogFormat      string
}

// New loads configuration from flags, with environment variables as
// defaults. Flag values win over the environment.
func New() *Config {
	// Best effort; a missing .env file is not an error.
	godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "addr", envOr("ADDR", ":8080"), "listen address")
	flag.IntVar(&cfg.HeadersTimeout, "headers-timeout", envOrInt("HEADERS_TIMEOUT", 60), "request head read timeout (seconds)")
	flag.IntVar(&cfg.MaxConns, "max-conns", envOrInt("MAX_CONNS", 0), "max concurrent connections (0 = unlimited)")
	flag.StringVar(&cfg.Env, "env", envOr("ENV", "development"), "environment (development/production)")
	flag.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level (debug/info/warn/error)")
	flag.StringVar(&cfg.LogFormat, "log-format", envOr("LOG_FORMAT", "text"), "log format (text/json)")

	flag.Parse()

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
