// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/metadata"
)

// APICall is a user-defined call stub: one attempt against the transport.
// The pipeline has already attached deadline and headers to ctx when the
// stub runs; settings is provided for transport pass-through fields such as
// CallSettings.GRPC.
type APICall func(ctx context.Context, settings CallSettings) error

// Invoke calls the given APICall, performing retries as specified by opts,
// if any.
func Invoke(ctx context.Context, call APICall, opts ...CallOption) error {
	var settings CallSettings
	for _, opt := range opts {
		opt.Resolve(&settings)
	}
	return invoke(ctx, call, settings, realScheduler{})
}

// InvokeAsync runs Invoke in its own goroutine and delivers the result on
// the returned channel. Cancellation still flows through ctx.
func InvokeAsync(ctx context.Context, call APICall, opts ...CallOption) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- Invoke(ctx, call, opts...) }()
	return ch
}

// Wrap composes method defaults around call once, at client construction,
// and returns the per-call entry point. Each invocation merges the per-call
// options over the defaults, injects headers, and retries per the merged
// settings.
func Wrap(call APICall, defaults ...CallOption) func(ctx context.Context, opts ...CallOption) error {
	var base CallSettings
	for _, opt := range defaults {
		opt.Resolve(&base)
	}
	return func(ctx context.Context, opts ...CallOption) error {
		var per CallSettings
		for _, opt := range opts {
			opt.Resolve(&per)
		}
		return invoke(ctx, call, Merge(base, per), realScheduler{})
	}
}

// WrapAsync is Wrap for the asynchronous surface. Both surfaces share the
// same merged settings and the same retry loop.
func WrapAsync(call APICall, defaults ...CallOption) func(ctx context.Context, opts ...CallOption) <-chan error {
	fn := Wrap(call, defaults...)
	return func(ctx context.Context, opts ...CallOption) <-chan error {
		ch := make(chan error, 1)
		go func() { ch <- fn(ctx, opts...) }()
		return ch
	}
}

// invoke implements Invoke, taking a Scheduler for testing.
func invoke(ctx context.Context, call APICall, settings CallSettings, sched Scheduler) error {
	// The expiration is resolved exactly once: retried attempts share the
	// deadline measured from the first resolution.
	switch {
	case !settings.Deadline.IsZero():
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, settings.Deadline)
		defer cancel()
	case settings.Timeout > 0:
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, sched.Now().Add(settings.Timeout))
		defer cancel()
	}

	if len(settings.Headers) > 0 {
		md, ok := metadata.FromOutgoingContext(ctx)
		if ok {
			md = md.Copy()
		} else {
			md = metadata.MD{}
		}
		for _, mutate := range settings.Headers {
			mutate(md)
		}
		ctx = metadata.NewOutgoingContext(ctx, md)
	}

	var retryer Retryer
	start := sched.Now()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := call(ctx, settings)
		if err == nil {
			return nil
		}
		if settings.Retry == nil {
			return err
		}
		if retryer == nil {
			if retryer = settings.Retry(); retryer == nil {
				return err
			}
		}
		pause, ok := retryer.Retry(err)
		if !ok {
			return err
		}
		if settings.MaxAttempts > 0 && attempt >= settings.MaxAttempts {
			return &RetryExhaustedError{Attempts: attempt, Elapsed: sched.Now().Sub(start), Err: err}
		}
		if deadline, ok := ctx.Deadline(); ok && sched.Now().Add(pause).After(deadline) {
			return &RetryExhaustedError{Attempts: attempt, Elapsed: sched.Now().Sub(start), Err: err}
		}
		if settings.Logger != nil {
			settings.Logger.Debug("retrying call",
				zap.Int("attempt", attempt),
				zap.Duration("pause", pause),
				zap.Error(err))
		}
		if err := sched.Sleep(ctx, pause); err != nil {
			return err
		}
	}
}
