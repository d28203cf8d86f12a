// Package logging configures the process-wide logger and provides
// helpers for logging request data safely.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/hotwell/breeze/core/http"
)

var (
	setupOnce sync.Once
	root      *slog.Logger
)

// Setup configures the process-wide logger exactly once and returns
// it. Later calls return the logger from the first call unchanged.
// Format is "json" or "text"; level one of debug/info/warn/error.
func Setup(level, format string) *slog.Logger {
	setupOnce.Do(func() {
		opts := &slog.HandlerOptions{Level: parseLevel(level)}
		var handler slog.Handler
		if strings.EqualFold(format, "json") {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			handler = slog.NewTextHandler(os.Stderr, opts)
		}
		root = slog.New(handler)
		slog.SetDefault(root)
	})
	return root
}

// Logger returns the configured logger, falling back to slog.Default
// when Setup has not run.
func Logger() *slog.Logger {
	if root == nil {
		return slog.Default()
	}
	return root
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var sensitive = map[string]struct{}{
	"authorization":       {},
	"cookie":              {},
	"proxy-authorization": {},
	"x-api-key":           {},
}

// SafeHeaders returns a map of header values suitable for logging,
// with sensitive values redacted. Only the first value per key is
// returned, for brevity.
func SafeHeaders(h *http.Header) map[string]string {
	out := make(map[string]string, h.Len())
	h.Each(func(k, v string) {
		if _, seen := out[k]; seen {
			return
		}
		if _, ok := sensitive[strings.ToLower(k)]; ok {
			v = "<redacted>"
		}
		out[k] = v
	})
	return out
}
