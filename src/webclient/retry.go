package webclient

import (
	"context"
	"time"
)

// AttemptFunc performs one request attempt and reports the HTTP status (0 when
// the request never reached the server), the response body, and any error.
type AttemptFunc func() (status int, body []byte, err error)

// Policy controls how Do retries an attempt. Retryable decides whether a
// failed attempt is worth repeating (terminal conditions like a 404 are not);
// Backoff returns the delay before attempt n+1 given the outcome of attempt n.
type Policy struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(status int, err error) bool
	Backoff   func(attempt int, status int, base time.Duration) time.Duration
}

// DefaultPolicy retries transient failures (429/5xx or transport errors) with
// linear backoff, doubling the delay when the server signals a rate limit.
func DefaultPolicy(attempts int, delay time.Duration) Policy {
	return Policy{
		Attempts:  attempts,
		Delay:     delay,
		Retryable: TransientFailure,
		Backoff:   RateLimitAwareBackoff,
	}
}

// TransientFailure reports whether an attempt outcome is worth retrying.
func TransientFailure(status int, err error) bool {
	if err != nil {
		return true
	}
	return status == 429 || status >= 500
}

// RateLimitAwareBackoff grows linearly with the attempt number and doubles the
// base delay after a 429.
func RateLimitAwareBackoff(attempt int, status int, base time.Duration) time.Duration {
	if status == 429 {
		return base * 2
	}
	return time.Duration(attempt) * base
}

// Do runs fn under the given policy. It returns the last attempt's outcome,
// either because it succeeded, because the failure was terminal, or because
// attempts ran out.
func Do(ctx context.Context, p Policy, fn AttemptFunc) (int, []byte, error) {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if p.Delay <= 0 {
		p.Delay = time.Second
	}
	if p.Retryable == nil {
		p.Retryable = TransientFailure
	}
	if p.Backoff == nil {
		p.Backoff = RateLimitAwareBackoff
	}

	var (
		status int
		body   []byte
		err    error
	)
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		status, body, err = fn()
		if err == nil && !p.Retryable(status, nil) {
			return status, body, nil
		}
		if err != nil && !p.Retryable(status, err) {
			return status, body, err
		}
		if attempt == p.Attempts {
			return status, body, err
		}

		t := time.NewTimer(p.Backoff(attempt, status, p.Delay))
		select {
		case <-ctx.Done():
			t.Stop()
			return status, body, ctx.Err()
		case <-t.C:
		}
	}
	return status, body, err
}
