// Package scheduler runs periodic maintenance jobs, currently the eviction
// of idle drill sessions.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Evictor ends sessions that have been idle for longer than the given duration.
type Evictor interface {
	EvictIdle(idle time.Duration) int
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	evictor   Evictor
	idle      time.Duration
	every     time.Duration
	logger    *slog.Logger
}

// New creates a scheduler that evicts sessions idle for longer than idle,
// checking every interval. If logger is nil, a default logger will be used.
func New(evictor Evictor, idle, every time.Duration, logger *slog.Logger) *Scheduler {
	if evictor == nil {
		panic("evictor cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		evictor:   evictor,
		idle:      idle,
		every:     every,
		logger:    logger.With(slog.String("component", "scheduler")),
	}
}

// Start schedules the sweep and begins running it in the background.
func (s *Scheduler) Start() error {
	if s.every <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.every)
	}
	if _, err := s.scheduler.Every(s.every).Do(s.Sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("session sweep scheduled",
		slog.Duration("every", s.every),
		slog.Duration("idle_timeout", s.idle))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Sweep runs one eviction pass.
func (s *Scheduler) Sweep() {
	evicted := s.evictor.EvictIdle(s.idle)
	s.logger.Debug("session sweep finished", slog.Int("evicted", evicted))
}
