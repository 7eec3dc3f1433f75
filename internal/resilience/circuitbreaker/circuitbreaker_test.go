package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var errDown = errors.New("webhook down")

func testSettings(name string) Settings {
	return Settings{
		Name:           name,
		HalfOpenProbes: 1,
		Window:         time.Minute,
		Cooldown:       50 * time.Millisecond,
		MinRequests:    3,
		FailureRatio:   0.6,
	}
}

func TestRun_PassesThrough(t *testing.T) {
	b := New(testSettings("pass"))

	if err := b.Run(func() error { return nil }); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if err := b.Run(func() error { return errDown }); !errors.Is(err, errDown) {
		t.Fatalf("Run = %v, want errDown", err)
	}
	if b.IsOpen() {
		t.Error("breaker opened below MinRequests")
	}
}

func TestRun_TripsAndRecovers(t *testing.T) {
	b := New(testSettings("trip"))

	for range 3 {
		_ = b.Run(func() error { return errDown })
	}
	if !b.IsOpen() {
		t.Fatal("expected open breaker after 3 failures")
	}
	if got := testutil.ToFloat64(breakerState.WithLabelValues("trip")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}

	called := false
	if err := b.Run(func() error { called = true; return nil }); !errors.Is(err, ErrOpen) {
		t.Fatalf("Run while open = %v, want ErrOpen", err)
	}
	if called {
		t.Error("fn ran while breaker open")
	}

	time.Sleep(80 * time.Millisecond)
	if err := b.Run(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe = %v, want nil", err)
	}
	if b.IsOpen() {
		t.Error("breaker still open after successful probe")
	}
	if got := testutil.ToFloat64(breakerState.WithLabelValues("trip")); got != 0 {
		t.Errorf("state gauge = %v, want 0", got)
	}
}

func TestRun_MixedResultsBelowRatio(t *testing.T) {
	b := New(testSettings("mixed"))

	results := []error{errDown, nil, nil, errDown, nil}
	for _, res := range results {
		_ = b.Run(func() error { return res })
	}
	if b.IsOpen() {
		t.Error("breaker opened below FailureRatio")
	}
}

func TestForChannel(t *testing.T) {
	s := ForChannel("slack")
	if s.Name != "notify-slack" || s.MinRequests != 5 || s.FailureRatio != 1.0 || s.Cooldown != 5*time.Minute {
		t.Errorf("ForChannel(slack) = %+v", s)
	}

	b := New(ForChannel("discord"))
	if b.Name() != "notify-discord" {
		t.Errorf("Name = %q", b.Name())
	}
	for range 4 {
		_ = b.Run(func() error { return errDown })
	}
	if b.IsOpen() {
		t.Fatal("channel breaker opened after 4 failures")
	}
	_ = b.Run(func() error { return errDown })
	if !b.IsOpen() {
		t.Fatal("channel breaker closed after 5 consecutive failures")
	}
}
