// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the search adapters and
// the model dispatch layer.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

const defaultMaxRetries = 3

// DoWithRetry executes an HTTP request, retrying transient failures with
// exponential backoff: transport errors (timeouts, connection resets),
// HTTP 429, and HTTP 5xx. The delay doubles each attempt starting from
// RetryBaseDelay.
//
// When maxRetries is 0 the default (3) is used. Non-transient responses are
// returned immediately. After exhausting retries the last response (or
// transport error) is returned so the caller can inspect it. If the context
// is cancelled during a backoff wait the function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		clone := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			clone.Body = body
		}

		resp, err := client.Do(clone)
		if err == nil && !isTransient(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = nil
		}

		// Exhausted retries; surface the last outcome as-is.
		if attempt >= maxRetries {
			if lastErr != nil {
				return nil, lastErr
			}
			return resp, nil
		}

		if resp != nil {
			drain(resp)
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// isTransient reports whether a status code warrants a retry.
func isTransient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// drain consumes and closes a response body so the underlying connection
// can be reused before a retry.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
