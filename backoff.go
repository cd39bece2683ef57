// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes the pause sequence between retry attempts: a capped
// exponential envelope, optionally randomized by jitter.
//
// The envelope for retry attempt n (the initial try is attempt 0 and never
// pauses) is min(Max, Initial * Multiplier^(n-1)). With Jitter set, the
// actual pause is drawn uniformly from [0, envelope] to desynchronize
// concurrent retriers.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     bool
}

// NewBackoff builds a Backoff with jitter enabled, validating its bounds.
// Initial must be positive, Max at least Initial, and Multiplier above 1.
func NewBackoff(initial, max time.Duration, multiplier float64) (Backoff, error) {
	switch {
	case initial <= 0:
		return Backoff{}, ErrBackoffInitial
	case max < initial:
		return Backoff{}, ErrBackoffMax
	case multiplier <= 1:
		return Backoff{}, ErrBackoffMultiplier
	}
	return Backoff{Initial: initial, Max: max, Multiplier: multiplier, Jitter: true}, nil
}

// Delay returns the jitter-free envelope for the given retry attempt,
// counted from 1. It is a pure function: non-decreasing in attempt until
// capped at Max.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(b.Initial) * math.Pow(b.Multiplier, float64(attempt-1))
	if d >= float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}

// Pause returns the pause before the given retry attempt, applying the
// jitter draw when enabled.
func (b Backoff) Pause(attempt int) time.Duration {
	d := b.Delay(attempt)
	if !b.Jitter || d <= 0 {
		return d
	}
	return time.Duration(rand.Int64N(int64(d) + 1))
}
