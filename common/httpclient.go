package common

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every outgoing request of a run
const DefaultTimeout = 60 * time.Second

func WrapHTTPClient(client *http.Client, wrap func(req *http.Request, next http.RoundTripper) (*http.Response, error)) {
	if client == nil {
		return
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	client.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return wrap(req, base)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewHTTPClient returns a client with a sane timeout. Every wrapper is applied in order,
// the first wrapper sees the request first.
func NewHTTPClient(wrappers ...func(req *http.Request, next http.RoundTripper) (*http.Response, error)) *http.Client {
	client := &http.Client{Timeout: DefaultTimeout}
	for i := len(wrappers) - 1; i >= 0; i-- {
		WrapHTTPClient(client, wrappers[i])
	}
	return client
}

type RateLimitTransport struct {
	limiter *rate.Limiter
}

// NewRateLimitTransport allows requestsPerSecond requests with a burst of 5.
// A non positive value disables the limit.
func NewRateLimitTransport(requestsPerSecond float64) *RateLimitTransport {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &RateLimitTransport{
		limiter: rate.NewLimiter(limit, 5),
	}
}

func (r *RateLimitTransport) Handler() func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
	return func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		if err := r.limiter.Wait(req.Context()); err != nil {
			slog.Debug("rate limiter wait aborted", "url", req.URL.String(), "err", err)
			return nil, err
		}
		return next.RoundTrip(req)
	}
}

func UserAgent(userAgent string) func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
	return func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		if req.Header.Get("User-Agent") == "" {
			// RoundTrippers must not modify the original request
			req = req.Clone(req.Context())
			req.Header.Set("User-Agent", userAgent)
		}
		return next.RoundTrip(req)
	}
}
