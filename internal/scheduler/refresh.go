package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRunTimeout bounds a single scheduled refresh.
const DefaultRunTimeout = 30 * time.Second

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule checks a standard five field cron expression or a
// descriptor such as "@every 5m".
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return errors.New("schedule is empty")
	}
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// Refresher re-fetches the collection with the active search term.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshScheduler periodically refreshes the collection view so that
// changes made by other clients of the catalog show up.
type RefreshScheduler struct {
	refresher Refresher
	schedule  string
	logger    *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	// run identifies the current Start so a stale watcher cannot stop a later run
	run uint64
}

// NewRefreshScheduler creates a stopped scheduler.
func NewRefreshScheduler(refresher Refresher, schedule string, logger *zap.Logger) *RefreshScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &RefreshScheduler{
		refresher: refresher,
		schedule:  schedule,
		logger:    logger,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// Start schedules the refresh job. It stops by itself when ctx is done.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	entryID, err := s.cron.AddFunc(s.schedule, func() { s.runRefresh(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	s.entryID = entryID
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true
	s.run++
	run := s.run

	s.logger.Info("refresh scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", s.cron.Entry(entryID).Schedule.Next(time.Now())))

	go func() {
		<-runCtx.Done()
		s.stop(run)
	}()

	return nil
}

// Stop removes the job and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	s.stop(0)
}

func (s *RefreshScheduler) stop(run uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning || (run != 0 && run != s.run) {
		return
	}

	s.cron.Remove(s.entryID)
	done := s.cron.Stop()
	<-done.Done()

	s.cancelFunc()
	s.cancelFunc = nil
	s.isRunning = false

	s.logger.Info("refresh scheduler stopped")
}

// RunNow refreshes synchronously, outside the schedule.
func (s *RefreshScheduler) RunNow(ctx context.Context) error {
	return s.refresh(ctx)
}

// IsRunning returns whether the scheduler is active.
func (s *RefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next refresh will occur, or nil when stopped.
func (s *RefreshScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	if t.IsZero() {
		t = entry.Schedule.Next(time.Now())
	}
	return &t
}

func (s *RefreshScheduler) runRefresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, DefaultRunTimeout)
	defer cancel()

	if err := s.refresh(ctx); err != nil {
		s.logger.Warn("scheduled refresh failed", zap.Error(err))
	}
}

func (s *RefreshScheduler) refresh(ctx context.Context) error {
	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	s.logger.Debug("refresh completed", zap.Duration("took", time.Since(start)))
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
