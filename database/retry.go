package database

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fetchops/ai-project-catalog/errs"
)

// RetryPolicy bounds how often a failed read is attempted. Waits start at
// InitialInterval and double after each failure.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 3, InitialInterval: time.Second}

// Do runs fn until it succeeds, fails permanently or the attempts run out.
// Missing records and cancelled contexts are never retried.
func (p RetryPolicy) Do(ctx context.Context, operation string, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxElapsedTime = 0

	attempt := 0
	op := func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if isPermanent(ctx, err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("retryIn", wait).
			Msg("database read failed, retrying")
	}

	return backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx), notify)
}

func isPermanent(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, gorm.ErrRecordNotFound) ||
		errs.IsNotFound(err) ||
		errors.Is(err, context.Canceled)
}
