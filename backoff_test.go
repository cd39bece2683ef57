// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package call

import (
	"errors"
	"testing"
	"time"
)

func TestBackoffDelaySequence(t *testing.T) {
	bo, err := NewBackoff(100*time.Millisecond, time.Second, 2)
	if err != nil {
		t.Fatalf("NewBackoff: %v", err)
	}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second, // capped
		time.Second,
	}
	for i, w := range want {
		if got := bo.Delay(i + 1); got != w {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoffDelayNonDecreasing(t *testing.T) {
	bo, err := NewBackoff(3*time.Millisecond, 500*time.Millisecond, 1.3)
	if err != nil {
		t.Fatalf("NewBackoff: %v", err)
	}

	prev := time.Duration(0)
	for attempt := 1; attempt <= 50; attempt++ {
		d := bo.Delay(attempt)
		if d < prev {
			t.Fatalf("Delay(%d) = %v, decreased from %v", attempt, d, prev)
		}
		if d > bo.Max {
			t.Fatalf("Delay(%d) = %v exceeds cap %v", attempt, d, bo.Max)
		}
		prev = d
	}
	if prev != bo.Max {
		t.Errorf("sequence never reached cap: ended at %v, want %v", prev, bo.Max)
	}
}

func TestBackoffPauseJitterBounds(t *testing.T) {
	bo, err := NewBackoff(50*time.Millisecond, time.Second, 2)
	if err != nil {
		t.Fatalf("NewBackoff: %v", err)
	}

	for attempt := 1; attempt <= 5; attempt++ {
		envelope := bo.Delay(attempt)
		for i := 0; i < 100; i++ {
			p := bo.Pause(attempt)
			if p < 0 || p > envelope {
				t.Fatalf("Pause(%d) = %v, want within [0, %v]", attempt, p, envelope)
			}
		}
	}
}

func TestBackoffPauseWithoutJitter(t *testing.T) {
	bo, err := NewBackoff(50*time.Millisecond, time.Second, 2)
	if err != nil {
		t.Fatalf("NewBackoff: %v", err)
	}
	bo.Jitter = false

	for attempt := 1; attempt <= 6; attempt++ {
		if got, want := bo.Pause(attempt), bo.Delay(attempt); got != want {
			t.Errorf("Pause(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestNewBackoffValidation(t *testing.T) {
	tests := []struct {
		name       string
		initial    time.Duration
		max        time.Duration
		multiplier float64
		want       error
	}{
		{"zero initial", 0, time.Second, 2, ErrBackoffInitial},
		{"negative initial", -time.Millisecond, time.Second, 2, ErrBackoffInitial},
		{"max below initial", time.Second, time.Millisecond, 2, ErrBackoffMax},
		{"multiplier one", time.Millisecond, time.Second, 1, ErrBackoffMultiplier},
		{"multiplier below one", time.Millisecond, time.Second, 0.5, ErrBackoffMultiplier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBackoff(tt.initial, tt.max, tt.multiplier)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewBackoff(%v, %v, %v) err = %v, want %v",
					tt.initial, tt.max, tt.multiplier, err, tt.want)
			}
		})
	}
}
