package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrBodyNotReplayable indicates a request body cannot be retried.
var ErrBodyNotReplayable = errors.New("request body is not replayable")

// BackoffFunc returns the backoff duration for a retry attempt.
type BackoffFunc func(attempt int) time.Duration

// RetryOptions configures retry behavior.
type RetryOptions struct {
	MaxRetries int
	Backoff    BackoffFunc
}

// RetryRoundTripper retries idempotent requests on transport errors and
// 5xx/429 responses. Client errors, 401s included, are never retried; the
// unauthorized interceptor upstream owns those.
type RetryRoundTripper struct {
	Base    http.RoundTripper
	Options RetryOptions
	Sleep   func(time.Duration)
}

// RoundTrip executes the request with retry behavior.
func (r *RetryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := r.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if req == nil {
		return nil, errors.New("request is nil")
	}

	backoff := r.Options.Backoff
	if backoff == nil {
		backoff = ExponentialBackoff(100*time.Millisecond, 2*time.Second)
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	attempt := 0
	var resp *http.Response
	var err error
	for {
		currentReq, cloneErr := cloneRequest(req, attempt)
		if cloneErr != nil {
			if errors.Is(cloneErr, ErrBodyNotReplayable) && attempt > 0 {
				return resp, err
			}
			return nil, cloneErr
		}

		resp, err = base.RoundTrip(currentReq)
		if attempt >= r.Options.MaxRetries || !shouldRetry(req, resp, err) {
			return resp, err
		}

		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}

		attempt++
		if wait := backoff(attempt); wait > 0 {
			if err := sleepWithContext(req.Context(), wait, sleep); err != nil {
				return nil, err
			}
		}
	}
}

// ExponentialBackoff returns a backoff function with exponential growth.
func ExponentialBackoff(base, max time.Duration) BackoffFunc {
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	if max <= 0 {
		max = 2 * time.Second
	}
	return func(attempt int) time.Duration {
		if attempt <= 0 {
			return base
		}
		delay := base << (attempt - 1)
		if delay > max {
			return max
		}
		return delay
	}
}

func shouldRetry(req *http.Request, resp *http.Response, err error) bool {
	if !isIdempotent(req.Method) {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode >= http.StatusInternalServerError
}

func cloneRequest(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}

	if req.Body == nil {
		return req.Clone(req.Context()), nil
	}
	if req.GetBody == nil {
		return nil, ErrBodyNotReplayable
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}

func sleepWithContext(ctx context.Context, delay time.Duration, sleep func(time.Duration)) error {
	if delay <= 0 {
		return nil
	}
	if ctx == nil {
		sleep(delay)
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}
