package notify

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"brazucas-cork/internal/handler/http/requestid"
	"brazucas-cork/internal/infra/notifier"
	"brazucas-cork/internal/resilience/circuitbreaker"

	"github.com/google/uuid"
)

const (
	workerPoolTimeout   = 5 * time.Second
	notificationTimeout = 60 * time.Second
)

// Service dispatches moderation alerts to every enabled channel.
type Service interface {
	// AnnouncePending alerts admins that item entered review. It returns
	// immediately; delivery happens in the background.
	AnnouncePending(ctx context.Context, item PendingItem)

	// Broadcast sends an arbitrary message in the background.
	Broadcast(ctx context.Context, msg notifier.Message)

	// GetChannelHealth reports circuit breaker state per channel.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown drops queued sends and waits for in-flight ones. If ctx
	// expires first, the in-flight sends are cancelled.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus represents the health status of a notification channel.
type ChannelHealthStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

type service struct {
	channels      []Channel
	breakers      map[string]*circuitbreaker.Breaker
	workerPool    chan struct{}
	reviewBaseURL string
	logger        *slog.Logger
	wg            sync.WaitGroup

	// closing stops queued sends; sendCtx is cancelled only when Shutdown
	// gives up waiting.
	closing    chan struct{}
	closeOnce  sync.Once
	sendCtx    context.Context
	sendCancel context.CancelFunc
}

// NewService creates a notification service. maxConcurrent bounds the number
// of sends in flight; reviewBaseURL is where admins review content and may be
// empty.
func NewService(channels []Channel, maxConcurrent int, reviewBaseURL string, logger *slog.Logger) Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	sendCtx, sendCancel := context.WithCancel(context.Background())

	svc := &service{
		channels:      channels,
		breakers:      make(map[string]*circuitbreaker.Breaker, len(channels)),
		workerPool:    make(chan struct{}, maxConcurrent),
		reviewBaseURL: reviewBaseURL,
		logger:        logger,
		closing:       make(chan struct{}),
		sendCtx:       sendCtx,
		sendCancel:    sendCancel,
	}
	enabled := 0
	for _, ch := range channels {
		svc.breakers[ch.Name()] = circuitbreaker.New(circuitbreaker.ForChannel(ch.Name()))
		if ch.IsEnabled() {
			enabled++
		}
	}
	SetChannelsEnabled(float64(enabled))
	return svc
}

func (s *service) AnnouncePending(ctx context.Context, item PendingItem) {
	s.Broadcast(ctx, PendingReviewMessage(item, s.reviewBaseURL))
}

func (s *service) Broadcast(ctx context.Context, msg notifier.Message) {
	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	for _, ch := range s.channels {
		if !ch.IsEnabled() {
			continue
		}
		s.wg.Add(1)
		go s.notifyChannel(requestID, ch, msg)
	}
}

func (s *service) notifyChannel(requestID string, channel Channel, msg notifier.Message) {
	defer s.wg.Done()

	IncrementActiveGoroutines()
	defer DecrementActiveGoroutines()

	log := s.logger.With(
		slog.String("request_id", requestID),
		slog.String("channel", channel.Name()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-time.After(workerPoolTimeout):
		log.Warn("notification dropped: worker pool full")
		RecordDropped(channel.Name(), "pool_full")
		return
	case <-s.closing:
		RecordDropped(channel.Name(), "shutdown")
		return
	}

	ctx, cancel := context.WithTimeout(s.sendCtx, notificationTimeout)
	defer cancel()
	ctx = requestid.WithRequestID(ctx, requestID)

	start := time.Now()
	RecordDispatch(channel.Name())

	err := s.breakers[channel.Name()].Run(func() error {
		return channel.Send(ctx, msg)
	})
	duration := time.Since(start)

	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		log.Warn("channel skipped: circuit breaker open")
		RecordDropped(channel.Name(), "circuit_open")
	case err != nil:
		RecordFailure(channel.Name(), duration)
		log.Warn("channel notification failed",
			slog.String("title", msg.Title),
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
	default:
		RecordSuccess(channel.Name(), duration)
		log.Info("channel notification sent",
			slog.String("title", msg.Title),
			slog.Duration("send_duration", duration))
	}
}

func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: s.breakers[ch.Name()].IsOpen(),
		})
	}
	return statuses
}

func (s *service) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down notification service")
	s.closeOnce.Do(func() { close(s.closing) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.sendCancel()
		return nil
	case <-ctx.Done():
		s.sendCancel()
		s.logger.Warn("notification service shutdown timeout, cancelling in-flight sends")
		return ctx.Err()
	}
}
