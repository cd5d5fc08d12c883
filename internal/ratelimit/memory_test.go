package ratelimit

import (
	"testing"
	"time"

	"github.com/fixbench/fixbench/internal/clock"
)

func TestMemoryLimiterEnforcesWindow(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	limiter := newMemoryLimiter(2, time.Second, clk.Now)

	if !limiter.Allow("k") || !limiter.Allow("k") {
		t.Fatal("first two calls should pass")
	}
	if limiter.Allow("k") {
		t.Fatal("third call in the window should be denied")
	}

	clk.Advance(2 * time.Second)
	if !limiter.Allow("k") {
		t.Fatal("new window should pass")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	limiter := newMemoryLimiter(1, time.Second, clk.Now)

	if !limiter.Allow("a") {
		t.Fatal("first key should pass")
	}
	if !limiter.Allow("b") {
		t.Fatal("second key should pass")
	}
	if limiter.Allow("") {
		t.Fatal("empty key must be denied")
	}
}
