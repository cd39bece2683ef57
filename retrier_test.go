// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestOnCodes(t *testing.T) {
	bo, err := NewBackoff(time.Millisecond, time.Second, 2)
	if err != nil {
		t.Fatalf("NewBackoff: %v", err)
	}
	bo.Jitter = false
	r := OnCodes([]codes.Code{codes.Unavailable, codes.DeadlineExceeded}, bo)

	if pause, ok := r.Retry(status.Error(codes.Unavailable, "try later")); !ok {
		t.Error("Unavailable not retried")
	} else if pause != time.Millisecond {
		t.Errorf("first pause = %v, want 1ms", pause)
	}

	if pause, ok := r.Retry(status.Error(codes.Unavailable, "try later")); !ok {
		t.Error("Unavailable not retried")
	} else if pause != 2*time.Millisecond {
		t.Errorf("second pause = %v, want 2ms: retryer must advance its attempt", pause)
	}

	if _, ok := r.Retry(status.Error(codes.InvalidArgument, "bad request")); ok {
		t.Error("InvalidArgument retried")
	}
	if _, ok := r.Retry(errors.New("not a status error")); ok {
		t.Error("non-status error retried by OnCodes")
	}
}

func TestOnErrorsAdvancesBackoff(t *testing.T) {
	bo, err := NewBackoff(10*time.Millisecond, time.Second, 2)
	if err != nil {
		t.Fatalf("NewBackoff: %v", err)
	}
	bo.Jitter = false
	r := OnErrors(func(error) bool { return true }, bo)

	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	for i, w := range want {
		pause, ok := r.Retry(errors.New("transient"))
		if !ok {
			t.Fatalf("retry %d refused", i+1)
		}
		if pause != w {
			t.Errorf("pause %d = %v, want %v", i+1, pause, w)
		}
	}
}
