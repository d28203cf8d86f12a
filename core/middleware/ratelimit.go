package middleware

import (
	"golang.org/x/time/rate"

	"github.com/hotwell/breeze/core/http"
)

// rateLimit rejects requests beyond the configured rate with 429,
// without running the rest of the chain.
type rateLimit struct {
	limiter *rate.Limiter
}

// RateLimit creates a token-bucket rate-limiting middleware.
func RateLimit(limiter *rate.Limiter) Middleware {
	return &rateLimit{limiter: limiter}
}

func (r *rateLimit) Name() string { return "rate-limit" }

func (r *rateLimit) Handle(req *http.Request, next Next) (*http.Response, error) {
	if !r.limiter.Allow() {
		res := http.NewResponse(http.StatusTooManyRequests)
		res.Header.Set(http.HeaderRetryAfter, "1")
		return res, nil
	}
	return next.Run(req), nil
}
