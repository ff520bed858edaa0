// Package resilience retries asset downloads that fail for transient reasons.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Policy describes how a download is retried.
type Policy struct {
	Attempts int           // total tries, the first included
	Base     time.Duration // pause before the second try, doubled after each retry
	Cap      time.Duration // longest pause, server-requested waits included
	Jitter   float64       // +/- fraction applied to computed pauses

	// Retryable decides whether err is worth another try. Nil uses IsTransient.
	Retryable func(err error) bool
	// OnRetry runs before each pause.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// AssetPolicy is the policy for CDN scripts and stylesheets: three tries
// starting at half a second, never pausing longer than ten seconds.
func AssetPolicy() Policy {
	return Policy{
		Attempts: 3,
		Base:     500 * time.Millisecond,
		Cap:      10 * time.Second,
		Jitter:   0.25,
	}
}

func (p Policy) normalized() Policy {
	def := AssetPolicy()
	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.Base <= 0 {
		p.Base = def.Base
	}
	if p.Cap <= 0 {
		p.Cap = def.Cap
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// Wait returns the pause after failed try n (0-based). A Retry-After hint
// carried by err replaces the doubling schedule and is not jittered.
func (p Policy) Wait(n int, err error) time.Duration {
	p = p.normalized()
	if hint, ok := RetryAfter(err); ok {
		return min(hint, p.Cap)
	}

	d := p.Base
	for i := 0; i < n && d < p.Cap; i++ {
		d *= 2
	}
	d = min(d, p.Cap)
	if p.Jitter > 0 {
		d += time.Duration((rand.Float64()*2 - 1) * p.Jitter * float64(d))
	}
	return max(d, 0)
}

// Do runs fn until it succeeds, fails permanently, runs out of attempts or
// ctx ends. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := Get(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Get is Do for functions that produce a value.
func Get[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.normalized()

	var zero T
	for n := 0; ; n++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if n+1 >= p.Attempts || ctx.Err() != nil || !p.Retryable(err) {
			return zero, err
		}

		wait := p.Wait(n, err)
		if p.OnRetry != nil {
			p.OnRetry(n+1, wait, err)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}
	}
}

// RetryLogger returns an OnRetry hook that logs the retry at warn level.
func RetryLogger(component, target string) func(int, time.Duration, error) {
	return func(attempt int, wait time.Duration, err error) {
		zap.L().Warn("resilience: retrying",
			zap.String("component", component),
			zap.String("target", target),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
}
