// Package circuitbreaker wraps github.com/sony/gobreaker for the outbound
// notification channels.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// ErrOpen is returned by Run without calling fn while the breaker is open or
// its half-open probe slots are taken.
var ErrOpen = errors.New("circuit breaker open")

// breakerState is 0 closed, 1 half-open, 2 open, matching gobreaker.State.
var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	},
	[]string{"breaker"},
)

// Settings configures one breaker.
type Settings struct {
	Name string
	// HalfOpenProbes is how many calls may test a recovering target.
	HalfOpenProbes uint32
	// Window clears the failure counts while closed.
	Window time.Duration
	// Cooldown is how long the breaker stays open.
	Cooldown time.Duration
	// MinRequests must be seen in a window before the breaker can trip.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

// ForChannel is the policy for a chat channel: five failures in a row keep
// it silent for five minutes.
func ForChannel(channel string) Settings {
	return Settings{
		Name:           "notify-" + channel,
		HalfOpenProbes: 1,
		Window:         10 * time.Minute,
		Cooldown:       5 * time.Minute,
		MinRequests:    5,
		FailureRatio:   1.0,
	}
}

// Breaker guards calls to one target.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New builds a closed breaker.
func New(s Settings) *Breaker {
	breakerState.WithLabelValues(s.Name).Set(float64(gobreaker.StateClosed))
	return &Breaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenProbes,
		Interval:    s.Window,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < s.MinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(float64(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})}
}

// Run calls fn unless the breaker is open. fn's error counts as a failure.
func (b *Breaker) Run(fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

// Name is the breaker's metric and log label.
func (b *Breaker) Name() string { return b.cb.Name() }

// IsOpen reports whether calls are currently being rejected outright.
func (b *Breaker) IsOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}
