package network

import "time"

// RetryPolicy defines retry behavior for requests that fail with a
// transport error or a retryable status.
type RetryPolicy struct {
	// MaxRetries is the number of retry attempts after the first try.
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// BackoffRatio multiplies the delay after each retry, e.g. 2.0 for
	// exponential backoff.
	BackoffRatio float64
}

// DefaultRetryPolicy returns a sensible default.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		BackoffRatio: 2.0,
	}
}

// NoRetry disables retries.
func NoRetry() RetryPolicy {
	return RetryPolicy{BackoffRatio: 1.0}
}

// delay returns the wait before retry attempt (0-indexed).
func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.InitialDelay == 0 {
		return 0
	}
	d := float64(p.InitialDelay)
	for range attempt {
		d *= p.BackoffRatio
	}
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}
