// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"time"
)

// userAgentTransport stamps a fixed User-Agent header on every request
// that does not already carry one.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

// RoundTrip clones the request before modifying headers, per the
// http.RoundTripper contract.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(req)
}

// NewClient builds an HTTP client with the given timeout. When userAgent is
// non-empty, requests without an explicit User-Agent header are stamped
// with it.
func NewClient(timeout time.Duration, userAgent string) *http.Client {
	client := &http.Client{Timeout: timeout}
	if userAgent != "" {
		client.Transport = &userAgentTransport{agent: userAgent, base: http.DefaultTransport}
	}
	return client
}
