// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"errors"
	"fmt"
	"time"
)

// Configuration errors, raised at construction time and never retried.
var (
	ErrInvalidPageSize   = errors.New("call: page size must be positive")
	ErrBackoffInitial    = errors.New("call: backoff initial delay must be positive")
	ErrBackoffMax        = errors.New("call: backoff max delay must be >= initial delay")
	ErrBackoffMultiplier = errors.New("call: backoff multiplier must be > 1")
)

// RetryExhaustedError terminates a retryable call whose deadline or attempt
// budget ran out. It wraps the last transient error, so callers can tell
// "ran out of budget" apart from "never should have retried": permanent
// errors are surfaced bare.
type RetryExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("call: retry budget exhausted after %d attempts in %v: %v", e.Attempts, e.Elapsed, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

// PageOverflowError reports a server page carrying more resources than were
// requested for it. This is a broken server contract; retrying cannot fix
// it, so the paging engine surfaces it and emits nothing further.
type PageOverflowError struct {
	Requested int
	Returned  int
}

func (e *PageOverflowError) Error() string {
	return fmt.Sprintf("call: server returned %d resources for a page of at most %d", e.Returned, e.Requested)
}

// HTTPError reports a non-2xx HTTP status from an HTTP-based transport.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("received status code: %d", e.StatusCode)
}
