package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// CleanupFunc hands a cleanup task to whatever executes it, usually the
// task queue.
type CleanupFunc func(ctx context.Context, task tasks.CleanupAuditEventsTask) error

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// AuditCleanupScheduler periodically prunes expired audit events.
type AuditCleanupScheduler struct {
	schedule      string
	retentionDays int
	cleanup       CleanupFunc

	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a new scheduler instance
func NewAuditCleanupScheduler(schedule string, retentionDays int, cleanup CleanupFunc) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		schedule:      schedule,
		retentionDays: retentionDays,
		cleanup:       cleanup,
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler. An empty schedule disables it.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" {
		log.Info().Msg("audit cleanup scheduler disabled")
		return nil
	}

	schedule, err := parser.Parse(s.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		if err := s.run(runCtx); err != nil {
			log.Error().Err(err).Msg("scheduled audit cleanup failed")
		}
	}))
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true

	log.Info().
		Str("schedule", s.schedule).
		Int("retention_days", s.retentionDays).
		Time("next_run", schedule.Next(time.Now())).
		Msg("audit cleanup scheduler started")

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cancelFunc()
	s.isRunning = false

	log.Info().Msg("audit cleanup scheduler stopped")
}

// RunNow triggers an immediate cleanup.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) error {
	return s.run(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *AuditCleanupScheduler) run(ctx context.Context) error {
	return s.cleanup(ctx, tasks.CleanupAuditEventsTask{RetentionDays: s.retentionDays})
}
