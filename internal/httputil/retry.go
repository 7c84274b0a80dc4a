// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by components that talk
// to the metadata provider.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryPolicy bounds the retry behavior around one HTTP request: at most
// MaxAttempts calls, sleeping BaseDelay after the first failure and
// multiplying the delay by Multiplier after each subsequent one. Only
// transient conditions are retried: transport errors and HTTP 429/5xx.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy retries up to 4 attempts with delays 1s, 2s, 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 4, BaseDelay: 1 * time.Second, Multiplier: 2.0}
}

// retryableStatus reports whether the status code indicates a transient
// provider condition.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Do executes the request under the policy. Non-transient responses are
// returned immediately. After attempts are exhausted the last transport
// error (or the last transient response, for the caller to inspect) is
// returned. If the context is cancelled during a backoff wait, ctx.Err()
// is returned.
func (p RetryPolicy) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultRetryPolicy().MaxAttempts
	}
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultRetryPolicy().BaseDelay
	}
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = DefaultRetryPolicy().Multiplier
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		last := attempt == attempts-1
		if err != nil {
			lastErr = err
			if last {
				return nil, lastErr
			}
		} else {
			if last {
				return resp, nil
			}
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		backoff := time.Duration(float64(base) * math.Pow(multiplier, float64(attempt)))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}
