package ratelimit

import "testing"

func TestAllow_BurstThenDeny(t *testing.T) {
	l := New(1, 2)

	if !l.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if !l.Allow("1.2.3.4") {
		t.Fatal("second request within burst should be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Error("third immediate request should be denied")
	}
}

func TestAllow_KeysIsolated(t *testing.T) {
	l := New(1, 1)

	if !l.Allow("a") {
		t.Fatal("first request for key a should be allowed")
	}
	if l.Allow("a") {
		t.Error("second request for key a should be denied")
	}
	if !l.Allow("b") {
		t.Error("key b should have its own bucket")
	}
}
