package middleware

import (
	"log/slog"
	"time"

	"github.com/hotwell/breeze/core/http"
)

// accessLog logs one line per request, including the captured handler
// error when the response carries one.
type accessLog struct {
	logger *slog.Logger
}

// AccessLog creates a request-logging middleware.
func AccessLog(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &accessLog{logger: logger}
}

func (a *accessLog) Name() string { return "access-log" }

func (a *accessLog) Handle(req *http.Request, next Next) (*http.Response, error) {
	start := time.Now()
	res := next.Run(req)
	elapsed := time.Since(start)

	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"status", res.Status,
		"duration", elapsed,
		"remote", req.RemoteAddr(),
	}
	if err := res.Err(); err != nil {
		a.logger.Error("request failed", append(attrs, "error", err)...)
	} else {
		a.logger.Info("request", attrs...)
	}
	return res, nil
}
