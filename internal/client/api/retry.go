package api

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/prediction-service/internal/logging"
)

// retry runs op with exponential backoff. Only network failures and 5xx
// responses are retried.
func (c *Client) retry(ctx context.Context, name string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBackoff
	b.MaxElapsedTime = 0

	var policy backoff.BackOff = backoff.WithMaxRetries(b, uint64(c.retryAttempts-1))
	policy = backoff.WithContext(policy, ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op()
		if err == nil || retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, policy, func(err error, wait time.Duration) {
		logging.Warn(logging.FromContext(ctx, c.logger), "api request retry",
			"op", name,
			"attempt", attempt,
			"max_attempts", c.retryAttempts,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)
	})
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return IsNetworkError(err)
}
