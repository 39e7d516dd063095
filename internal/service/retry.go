package service

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"techradar-api/internal/model"
)

const (
	loginAttempts    = 3
	loginRetryBase   = 100 * time.Millisecond
	loginRetryJitter = 100 * time.Millisecond
	loginRetryCap    = 3 * time.Second
)

// loginBackoff is exponential from loginRetryBase with jitter, capped at
// loginRetryCap, for at most loginAttempts calls in total.
func loginBackoff() retry.Backoff {
	b := retry.NewExponential(loginRetryBase)
	b = retry.WithJitter(loginRetryJitter, b)
	b = retry.WithCappedDuration(loginRetryCap, b)
	return retry.WithMaxRetries(loginAttempts-1, b)
}

// withRetry runs fn until it succeeds, fails with a non-transient error, or
// the backoff stops. Only errors wrapping model.ErrStoreUnavailable are
// retried.
func withRetry[T any](ctx context.Context, backoff retry.Backoff, fn func() (T, error)) (T, error) {
	var result T
	err := retry.Do(ctx, backoff, func(context.Context) error {
		var err error
		result, err = fn()
		if errors.Is(err, model.ErrStoreUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
	return result, err
}
