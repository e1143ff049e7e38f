package service

import (
	"context"
	"time"

	"quiz-board/internal/config"
	"quiz-board/internal/domain"
	"quiz-board/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryPolicy retries store operations that fail with a transient error,
// backing off exponentially. Other errors are returned immediately.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func NewRetryPolicy(cfg config.SubmissionConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
	}
}

// NoRetry runs every operation exactly once.
var NoRetry = RetryPolicy{}

func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	// attempts are bounded by MaxRetries only
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// Do runs fn until it succeeds, fails permanently, the retries are used up
// or ctx is done. The last error of fn is returned.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err != nil && !domain.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, p.newBackOff(ctx), func(err error, wait time.Duration) {
		logger.Get().Warn("Transient store error, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
}
