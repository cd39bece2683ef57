// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"context"
	"time"
)

// Clock supplies the current time. Swap it for a fake in tests of
// time-dependent logic.
type Clock interface {
	Now() time.Time
}

// Scheduler extends Clock with a cancellable wait. The retry loop takes a
// Scheduler so that backoff pauses can be virtualized in tests.
type Scheduler interface {
	Clock
	// Sleep waits for d, or returns ctx.Err() early if ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// realScheduler is the production Scheduler, backed by the time package.
type realScheduler struct{}

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) Sleep(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// Sleep is similar to time.Sleep, but it can be interrupted by ctx.Done()
// closing. If interrupted, Sleep returns ctx.Err().
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	select {
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
