// Package netx builds the outbound HTTP client shared by API calls.
package netx

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient returns an http.Client whose transport records an
// OpenTelemetry client span per request. base defaults to
// http.DefaultTransport when nil. timeout <= 0 means no client timeout.
func NewHTTPClient(base http.RoundTripper, timeout time.Duration) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		),
		Timeout: timeout,
	}
}
