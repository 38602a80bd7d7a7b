package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Refill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New().WithClock(func() time.Time { return now })

	for i := 0; i < 2; i++ {
		if !l.Allow("av", 2, 1) {
			t.Fatalf("call %d should pass", i)
		}
	}
	if l.Allow("av", 2, 1) {
		t.Fatalf("bucket should be empty")
	}
	if !l.Allow("other", 2, 1) {
		t.Fatalf("keys must not share a bucket")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("av", 2, 1) {
		t.Fatalf("one token should have refilled")
	}
	if l.Allow("av", 2, 1) {
		t.Fatalf("only half a token left")
	}
}

func TestBucket(t *testing.T) {
	b := NewBucket(New(), "upstream", 1, 0.001)
	if !b.Allow() {
		t.Fatalf("first call should pass")
	}
	if b.Allow() {
		t.Fatalf("second call should be limited")
	}
}
