// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"testing"
	"time"

	"google.golang.org/grpc/metadata"
)

func settings(opts ...CallOption) CallSettings {
	var cs CallSettings
	for _, opt := range opts {
		opt.Resolve(&cs)
	}
	return cs
}

func applyHeaders(cs CallSettings) metadata.MD {
	md := metadata.MD{}
	for _, mutate := range cs.Headers {
		mutate(md)
	}
	return md
}

func TestMergePrecedence(t *testing.T) {
	retryer := func() Retryer { return nil }

	a := settings(
		WithTimeout(10*time.Second),
		WithHeaderMutator(func(md metadata.MD) { md.Append("x-seq", "a") }),
	)
	b := settings(
		WithRetry(retryer),
		WithHeaderMutator(func(md metadata.MD) { md.Append("x-seq", "b") }),
	)
	c := settings(
		WithTimeout(5*time.Second),
		WithHeaderMutator(func(md metadata.MD) { md.Append("x-seq", "c") }),
	)

	ab := Merge(a, b)
	if ab.Timeout != 10*time.Second {
		t.Errorf("merge(a,b).Timeout = %v, want 10s", ab.Timeout)
	}
	if ab.Retry == nil {
		t.Error("merge(a,b).Retry = nil, want b's retryer")
	}

	abc := Merge(ab, c)
	if abc.Timeout != 5*time.Second {
		t.Errorf("merge(ab,c).Timeout = %v, want 5s", abc.Timeout)
	}
	if abc.Retry == nil {
		t.Error("merge(ab,c).Retry = nil, want retryer preserved")
	}

	got := applyHeaders(abc).Get("x-seq")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("header mutators applied = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header mutators applied = %v, want %v", got, want)
		}
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := settings(
		WithTimeout(time.Second),
		WithHeader("x-base", "1"),
	)
	override := settings(
		WithTimeout(2*time.Second),
		WithHeader("x-override", "1"),
	)

	_ = Merge(base, override)

	if base.Timeout != time.Second {
		t.Errorf("base.Timeout mutated to %v", base.Timeout)
	}
	if len(base.Headers) != 1 {
		t.Errorf("base.Headers length mutated to %d", len(base.Headers))
	}
	if override.Timeout != 2*time.Second {
		t.Errorf("override.Timeout mutated to %v", override.Timeout)
	}
	if len(override.Headers) != 1 {
		t.Errorf("override.Headers length mutated to %d", len(override.Headers))
	}
}

func TestMergeExpirationIsOneField(t *testing.T) {
	deadline := time.Now().Add(time.Hour)
	base := settings(WithDeadline(deadline))
	override := settings(WithTimeout(5 * time.Second))

	out := Merge(base, override)
	if !out.Deadline.IsZero() {
		t.Errorf("merged Deadline = %v, want zero: override's relative timeout must win whole", out.Deadline)
	}
	if out.Timeout != 5*time.Second {
		t.Errorf("merged Timeout = %v, want 5s", out.Timeout)
	}

	// And the other way around.
	out = Merge(override, base)
	if out.Timeout != 0 {
		t.Errorf("merged Timeout = %v, want zero", out.Timeout)
	}
	if !out.Deadline.Equal(deadline) {
		t.Errorf("merged Deadline = %v, want %v", out.Deadline, deadline)
	}
}

func TestMergeEmptyOverrideKeepsBase(t *testing.T) {
	base := settings(
		WithTimeout(time.Second),
		WithMaxAttempts(4),
		WithHeader("x-base", "1"),
	)

	out := Merge(base, CallSettings{})
	if out.Timeout != time.Second || out.MaxAttempts != 4 || len(out.Headers) != 1 {
		t.Errorf("merge with empty override changed fields: %+v", out)
	}
}
