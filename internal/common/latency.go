package common

import (
	"context"
	"time"
)

// Latency simulates the round-trip delay of a remote API.
// A zero Scale disables the delay.
type Latency struct {
	Scale float64
}

// Wait sleeps for base scaled by l.Scale, returning early with the
// context error if ctx is done first.
func (l Latency) Wait(ctx context.Context, base time.Duration) error {
	d := time.Duration(float64(base) * l.Scale)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
