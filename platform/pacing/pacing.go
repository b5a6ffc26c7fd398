// Package pacing provides injectable delay policies for sequential external
// calls. The pipeline services pace themselves between items and pages to
// respect coarse upstream rate limits; tests inject Nop to run instantly.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer introduces a delay between sequential external calls.
// Wait returns early with the context error when the context is cancelled.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps a constant interval on every Wait call.
type FixedDelay struct {
	Interval time.Duration
}

// NewFixedDelay creates a fixed-interval pacer.
func NewFixedDelay(interval time.Duration) FixedDelay {
	return FixedDelay{Interval: interval}
}

func (p FixedDelay) Wait(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limiter paces with a token bucket, allowing short bursts while holding the
// long-run rate.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a token-bucket pacer admitting r events per second with
// the given burst.
func NewLimiter(r rate.Limit, burst int) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(r, burst)}
}

func (p *Limiter) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Nop never delays. Used in tests.
type Nop struct{}

func (Nop) Wait(ctx context.Context) error {
	return ctx.Err()
}
