// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// HeaderMutator transforms the outgoing header set of a call. Mutators run
// in order, once per logical call, on a copy of any metadata already on the
// context.
type HeaderMutator func(md metadata.MD)

// CallSettings allow fine-grained control over how calls are made.
//
// A CallSettings value is read-only once built: Merge and CallOption
// application produce new values and never touch their inputs, so settings
// are safe to share across concurrent calls.
type CallSettings struct {
	// Timeout bounds the whole call, all attempts included, relative to the
	// moment of invocation. Ignored when Deadline is set.
	Timeout time.Duration

	// Deadline is the absolute bound on the whole call.
	Deadline time.Time

	// Retry builds a fresh Retryer per logical call. Nil means no retry.
	Retry func() Retryer

	// MaxAttempts caps the number of transport attempts. Zero means the
	// deadline is the only stopping condition.
	MaxAttempts int

	// Headers are applied in order to the outgoing metadata. On merge they
	// concatenate rather than override.
	Headers []HeaderMutator

	// GRPC call options are passed through to gRPC transports untouched.
	GRPC []grpc.CallOption

	// Logger, when set, records retry decisions at debug level.
	Logger *zap.Logger
}

// CallOption is an option used by Invoke to control behaviors of calls.
// CallOption works by modifying relevant fields of CallSettings.
type CallOption interface {
	Resolve(cs *CallSettings)
}

// Merge combines base and override into a new CallSettings. Per-call
// overrides win field by field; header mutators are the exception and
// concatenate, base first. Timeout and Deadline travel as one field: if the
// override sets either, both are taken from the override. Neither input is
// modified.
func Merge(base, override CallSettings) CallSettings {
	out := base
	if override.Timeout != 0 || !override.Deadline.IsZero() {
		out.Timeout, out.Deadline = override.Timeout, override.Deadline
	}
	if override.Retry != nil {
		out.Retry = override.Retry
	}
	if override.MaxAttempts != 0 {
		out.MaxAttempts = override.MaxAttempts
	}
	if len(override.GRPC) != 0 {
		out.GRPC = override.GRPC
	}
	if override.Logger != nil {
		out.Logger = override.Logger
	}
	if len(override.Headers) != 0 {
		hs := make([]HeaderMutator, 0, len(base.Headers)+len(override.Headers))
		hs = append(hs, base.Headers...)
		hs = append(hs, override.Headers...)
		out.Headers = hs
	}
	return out
}

type withTimeout time.Duration

func (w withTimeout) Resolve(cs *CallSettings) {
	cs.Timeout = time.Duration(w)
	cs.Deadline = time.Time{}
}

// WithTimeout bounds the whole call relative to the moment of invocation.
// The bound is resolved once, before the first attempt; retries do not get
// a fresh timeout.
func WithTimeout(d time.Duration) CallOption { return withTimeout(d) }

type withDeadline time.Time

func (w withDeadline) Resolve(cs *CallSettings) {
	cs.Deadline = time.Time(w)
	cs.Timeout = 0
}

// WithDeadline bounds the whole call by an absolute deadline.
func WithDeadline(t time.Time) CallOption { return withDeadline(t) }

type retryerOption func() Retryer

func (w retryerOption) Resolve(cs *CallSettings) { cs.Retry = w }

// WithRetry sets CallSettings.Retry to fn.
//
// fn is called once per logical call so that every call gets its own attempt
// counter.
func WithRetry(fn func() Retryer) CallOption { return retryerOption(fn) }

type withMaxAttempts int

func (w withMaxAttempts) Resolve(cs *CallSettings) { cs.MaxAttempts = int(w) }

// WithMaxAttempts caps the number of transport attempts, the initial try
// included.
func WithMaxAttempts(n int) CallOption { return withMaxAttempts(n) }

type headerOption HeaderMutator

func (w headerOption) Resolve(cs *CallSettings) {
	cs.Headers = append(cs.Headers[:len(cs.Headers):len(cs.Headers)], HeaderMutator(w))
}

// WithHeaderMutator appends a header mutator to the settings.
func WithHeaderMutator(fn HeaderMutator) CallOption { return headerOption(fn) }

// WithHeader appends a mutator that sets key to values on every call.
func WithHeader(key string, values ...string) CallOption {
	return WithHeaderMutator(func(md metadata.MD) {
		md.Set(key, values...)
	})
}

type grpcOpt []grpc.CallOption

func (w grpcOpt) Resolve(cs *CallSettings) { cs.GRPC = w }

// WithGRPCOptions passes gRPC call options through to the transport.
func WithGRPCOptions(opt ...grpc.CallOption) CallOption { return grpcOpt(opt) }

type loggerOption struct{ l *zap.Logger }

func (w loggerOption) Resolve(cs *CallSettings) { cs.Logger = w.l }

// WithLogger records retry decisions on l at debug level. Without it the
// pipeline is silent.
func WithLogger(l *zap.Logger) CallOption { return loggerOption{l} }
