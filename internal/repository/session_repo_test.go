package repository

import (
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestSessionStoreSelection(t *testing.T) {
	store := NewSessionStore(&fakeClock{now: time.Unix(0, 0)}, time.Hour)
	a, b := store.NewID(), store.NewID()
	if a == b {
		t.Fatalf("session ids should be unique")
	}
	if !store.IsValidID(a) || store.IsValidID("not-a-uuid") {
		t.Fatalf("IsValidID mismatch")
	}

	if _, ok := store.Selected(a); ok {
		t.Fatalf("new session should have no selection")
	}
	store.SetSelected(a, 3)
	if got, ok := store.Selected(a); !ok || got != 3 {
		t.Fatalf("Selected(a): want=3 got=%d ok=%v", got, ok)
	}
	if _, ok := store.Selected(b); ok {
		t.Fatalf("sessions must not share selection")
	}
}

func TestSessionStoreSweep(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := NewSessionStore(clock, time.Minute)

	store.SetSelected("old", 1)
	clock.now = clock.now.Add(50 * time.Second)
	store.SetSelected("fresh", 2)
	clock.now = clock.now.Add(20 * time.Second)

	if n := store.Sweep(); n != 1 {
		t.Fatalf("Sweep: want=1 removed got=%d", n)
	}
	if _, ok := store.Selected("old"); ok {
		t.Fatalf("old session should be gone")
	}
	if got, ok := store.Selected("fresh"); !ok || got != 2 {
		t.Fatalf("fresh session lost: got=%d ok=%v", got, ok)
	}
}
