// internal/app/system/fetchretry/fetchretry.go

// Package fetchretry wraps a remote fetch with bounded exponential-backoff
// retry and authentication-token refresh.
//
// Behavior contract:
//   - If Config.RequiresAuth is set and Deps.SessionActive reports no
//     session, Do fails immediately with errs.ErrAuthenticationRequired
//     (no producer call, no retry).
//   - The first attempt uses a cached token when one is fresh; every
//     retry forces a refresh, coalesced by the token service so parallel
//     fetches share one in-flight refresh.
//   - Rate-limited failures do not consume retry budget. They reschedule
//     after max(RetryDelay*5, RateLimitFloor) and notify Deps.OnRateLimited
//     so the caller can surface a non-fatal warning.
//   - Any other failure retries after RetryDelay * 2^(attempt-1), up to
//     MaxRetries retry attempts (the producer runs at most MaxRetries+1
//     times counting the initial attempt). The last error is returned.
//   - Context cancellation aborts between attempts, so a torn-down caller
//     never sees a late result.
package fetchretry

import (
	"context"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"go.uber.org/zap"
)

// DefaultRateLimitFloor is the minimum delay before retrying after a
// rate-limited failure.
const DefaultRateLimitFloor = 30 * time.Second

// Config controls retry behavior.
type Config struct {
	MaxRetries   int           // retry attempts after the initial one (default 3)
	RetryDelay   time.Duration // base backoff delay (default 1s)
	RequiresAuth bool          // fail fast when no session exists

	// RateLimitFloor overrides DefaultRateLimitFloor; zero keeps the default.
	RateLimitFloor time.Duration
}

// TokenSource supplies auth tokens. *tokens.Service satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) (string, error)
}

// Deps are the collaborators a retried fetch needs.
type Deps struct {
	Tokens        TokenSource
	SessionActive func() bool // nil means "always active"
	OnRateLimited func(error) // optional non-fatal warning hook
	Log           *zap.Logger
}

// Do runs producer with retry/refresh semantics and returns its result.
func Do[T any](ctx context.Context, producer func(ctx context.Context) (T, error), cfg Config, deps Deps) (T, error) {
	var zero T

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	floor := cfg.RateLimitFloor
	if floor <= 0 {
		floor = DefaultRateLimitFloor
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.RequiresAuth && deps.SessionActive != nil && !deps.SessionActive() {
		return zero, errs.ErrAuthenticationRequired
	}

	retries := 0
	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		if cfg.RequiresAuth && deps.Tokens != nil {
			var err error
			if retries > 0 {
				// Retry path: force a refresh (coalesced by the service).
				_, err = deps.Tokens.ForceRefresh(ctx)
			} else {
				_, err = deps.Tokens.Token(ctx)
			}
			if err != nil {
				return zero, err
			}
		}

		result, err := producer(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errs.IsRateLimited(err) {
			// Longer schedule, no budget consumed.
			delay := cfg.RetryDelay * 5
			if delay < floor {
				delay = floor
			}
			if deps.OnRateLimited != nil {
				deps.OnRateLimited(err)
			}
			log.Warn("fetch rate-limited; backing off", zap.Duration("delay", delay), zap.Error(err))
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
			continue
		}

		if retries >= cfg.MaxRetries {
			log.Error("fetch failed; retries exhausted",
				zap.Int("retries", retries), zap.Error(err))
			return zero, lastErr
		}
		retries++
		delay := cfg.RetryDelay * (1 << (retries - 1))
		log.Warn("fetch failed; retrying",
			zap.Int("attempt", retries), zap.Duration("delay", delay), zap.Error(err))
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
