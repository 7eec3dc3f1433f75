package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled task.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// JobStatus is the outcome of a job's latest run.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
}

// Scheduler runs jobs on cron schedules. A run that is still going when its
// next tick arrives is skipped, and each run gets its own timeout.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	status map[string]*JobStatus
	ids    map[string]cron.EntryID
	order  []string
}

// NewScheduler creates a scheduler evaluating schedules in loc.
func NewScheduler(loc *time.Location, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		timeout: timeout,
		logger:  logger,
		status:  make(map[string]*JobStatus),
		ids:     make(map[string]cron.EntryID),
	}
}

// Add registers job. Names must be unique.
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.status[job.Name]; dup {
		return fmt.Errorf("job %q already registered", job.Name)
	}
	id, err := s.cron.AddFunc(job.Schedule, func() { s.RunNow(context.Background(), job) })
	if err != nil {
		return fmt.Errorf("schedule job %q: %w", job.Name, err)
	}
	s.status[job.Name] = &JobStatus{Name: job.Name, Schedule: job.Schedule}
	s.ids[job.Name] = id
	s.order = append(s.order, job.Name)
	return nil
}

// RunNow executes job synchronously, recording metrics and status. A
// panicking job counts as a failure.
func (s *Scheduler) RunNow(ctx context.Context, job Job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("job started", slog.String("job", job.Name))
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
		elapsed := time.Since(start)
		recordJob(job.Name, elapsed.Seconds(), err)
		s.record(job.Name, start, err)
		if err != nil {
			s.logger.Error("job failed",
				slog.String("job", job.Name),
				slog.Duration("duration", elapsed),
				slog.Any("error", err))
			return
		}
		s.logger.Info("job completed",
			slog.String("job", job.Name),
			slog.Duration("duration", elapsed))
	}()

	return job.Run(ctx)
}

func (s *Scheduler) record(name string, at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.status[name]
	if !ok {
		st = &JobStatus{Name: name}
		s.status[name] = st
		s.order = append(s.order, name)
	}
	st.LastRun = &at
	if err != nil {
		st.LastError = err.Error()
		return
	}
	st.LastError = ""
	st.LastSuccess = &at
}

// Status returns a snapshot of every job in registration order.
func (s *Scheduler) Status() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobStatus, 0, len(s.order))
	for _, name := range s.order {
		st := *s.status[name]
		if id, ok := s.ids[name]; ok {
			if next := s.cron.Entry(id).Next; !next.IsZero() {
				st.NextRun = &next
			}
		}
		out = append(out, st)
	}
	return out
}

// Start begins firing schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedules and waits for running jobs or ctx, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
