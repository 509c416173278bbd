// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across components.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 5

	// maxBackoffShift caps the exponent so unbounded retry runs do not
	// overflow time.Duration.
	maxBackoffShift = 8
)

// RetryUnlimited makes DoWithRetry repeat failed requests indefinitely.
const RetryUnlimited = -1

// retryable reports whether the response status warrants another attempt:
// HTTP 429 or any 5xx.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 and 5xx with
// exponential backoff. The delay starts at RetryBaseDelay and doubles each
// attempt up to a cap.
//
// maxRetries bounds the number of repeated attempts; RetryUnlimited (-1)
// retries indefinitely and 0 uses the default (5). Request bodies are
// re-materialized via GetBody on each attempt, so requests built with
// http.NewRequestWithContext from a bytes.Reader retry safely. On each
// retryable response the body is drained and closed before sleeping. If the
// context is cancelled during a backoff wait the function returns ctx.Err().
// After exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		clone := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			clone.Body = body
		}

		resp, err := client.Do(clone)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries — return the failing response as-is.
		if maxRetries != RetryUnlimited && attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		shift := attempt
		if shift > maxBackoffShift {
			shift = maxBackoffShift
		}
		backoff := time.Duration(math.Pow(2, float64(shift))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
