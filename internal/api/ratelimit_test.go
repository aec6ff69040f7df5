package api

import (
	"testing"
	"time"
)

func TestClientLimiter_PerClient(t *testing.T) {
	l := newClientLimiter(1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.allow("10.0.0.1") {
		t.Fatal("first request should pass")
	}
	if l.allow("10.0.0.1") {
		t.Error("second request in the same instant should be limited")
	}
	if !l.allow("10.0.0.2") {
		t.Error("other clients have their own budget")
	}

	now = now.Add(time.Second)
	if !l.allow("10.0.0.1") {
		t.Error("budget should refill after a second")
	}
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	l := newClientLimiter(1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	l.allow("10.0.0.2")

	now = now.Add(limiterIdleTTL + limiterSweepInterval + time.Second)
	l.allow("10.0.0.3")

	if len(l.clients) != 1 {
		t.Errorf("expected idle clients to be swept, have %d", len(l.clients))
	}
}
