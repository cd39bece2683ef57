// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Retryer is used by Invoke to determine retry behavior: it classifies an
// error as transient or permanent and, for transient errors, reports the
// pause before the next attempt.
//
// A Retryer carries per-call attempt state and must not be shared across
// logical calls; CallSettings therefore holds a factory, not an instance.
type Retryer interface {
	// Retry reports whether err warrants another attempt and, if so, how
	// long to pause first.
	Retry(err error) (pause time.Duration, ok bool)
}

type boRetryer struct {
	backoff   Backoff
	retryable func(error) bool
	attempt   int
}

func (r *boRetryer) Retry(err error) (time.Duration, bool) {
	if !r.retryable(err) {
		return 0, false
	}
	r.attempt++
	return r.backoff.Pause(r.attempt), true
}

// OnCodes returns a Retryer that retries if and only if the previous attempt
// returned a gRPC status error whose code is in cc. Pause times between
// retries are specified by bo.
func OnCodes(cc []codes.Code, bo Backoff) Retryer {
	return OnErrors(func(err error) bool {
		st, ok := status.FromError(err)
		if !ok {
			return false
		}
		for _, c := range cc {
			if st.Code() == c {
				return true
			}
		}
		return false
	}, bo)
}

// OnErrors returns a Retryer driven by an arbitrary predicate: errors for
// which retryable reports true are retried with pauses from bo.
func OnErrors(retryable func(error) bool, bo Backoff) Retryer {
	return &boRetryer{backoff: bo, retryable: retryable}
}

// OnTransportFailure returns a Retryer that retries transient connection
// failures (see Transient) with pauses from bo.
func OnTransportFailure(bo Backoff) Retryer {
	return OnErrors(Transient, bo)
}

// Transient reports whether err looks like a transient transport failure
// worth retrying: dropped or refused connections, unexpected EOFs, and
// overload-class HTTP statuses.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError ||
			httpErr.StatusCode == http.StatusTooManyRequests
	}
	// EOF errors are often transient connection issues
	if errors.Is(err, io.EOF) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "EOF") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "broken pipe")
}
