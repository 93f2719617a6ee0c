package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ViolationSweeper marks open violations past their deadline as overdue.
type ViolationSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

// SessionReaper force-closes open presence sessions that went stale.
type SessionReaper interface {
	ReapStale(ctx context.Context, now time.Time) (int, error)
}

// MaintenanceSchedulerConfig holds configuration for the maintenance scheduler
type MaintenanceSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// SweepInterval is how often the overdue violation sweep runs
	SweepInterval time.Duration

	// SessionReapEnabled enables the stale session reaper loop
	SessionReapEnabled bool

	// SessionReapEvery is how often the stale session reaper runs
	SessionReapEvery time.Duration

	// RunTimeout is the maximum time for a single run
	RunTimeout time.Duration
}

// DefaultMaintenanceSchedulerConfig returns default configuration
func DefaultMaintenanceSchedulerConfig() MaintenanceSchedulerConfig {
	return MaintenanceSchedulerConfig{
		Enabled:            true,
		SweepInterval:      15 * time.Minute,
		SessionReapEnabled: true,
		SessionReapEvery:   5 * time.Minute,
		RunTimeout:         time.Minute,
	}
}

// Validate checks the configuration for usable intervals
func (c MaintenanceSchedulerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SweepInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.SessionReapEnabled && c.SessionReapEvery <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// MaintenanceScheduler runs the periodic engine housekeeping: the overdue
// violation sweep and the stale presence session reaper.
type MaintenanceScheduler struct {
	sweeper   ViolationSweeper
	reaper    SessionReaper
	logger    *zap.Logger
	config    MaintenanceSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewMaintenanceScheduler creates a new maintenance scheduler
func NewMaintenanceScheduler(
	sweeper ViolationSweeper,
	reaper SessionReaper,
	logger *zap.Logger,
	config MaintenanceSchedulerConfig,
) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		sweeper: sweeper,
		reaper:  reaper,
		logger:  logger,
		config:  config,
	}
}

// Start starts the scheduler loops
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Maintenance scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx, s.config.SweepInterval, "violation sweep", s.executeSweep)

	if s.config.SessionReapEnabled {
		s.wg.Add(1)
		go s.runLoop(ctx, s.config.SessionReapEvery, "session reap", s.executeReap)
	}

	s.logger.Info("Maintenance scheduler started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
		zap.Bool("session_reap_enabled", s.config.SessionReapEnabled),
		zap.Duration("session_reap_every", s.config.SessionReapEvery),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *MaintenanceScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Maintenance scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

// runLoop runs one housekeeping task on a fixed interval until the context
// is cancelled
func (s *MaintenanceScheduler) runLoop(ctx context.Context, interval time.Duration, name string, run func(ctx context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Maintenance loop stopping", zap.String("task", name))
			return
		case <-ticker.C:
			run(ctx)
		}
	}
}

// executeSweep runs one overdue violation sweep
func (s *MaintenanceScheduler) executeSweep(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	startTime := time.Now()
	marked, err := s.sweeper.SweepOverdue(runCtx, startTime)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Overdue violation sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if marked > 0 {
		s.logger.Info("Overdue violation sweep completed",
			zap.Duration("duration", duration),
			zap.Int("marked_overdue", marked),
		)
	}
}

// executeReap runs one stale session reap
func (s *MaintenanceScheduler) executeReap(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	startTime := time.Now()
	closed, err := s.reaper.ReapStale(runCtx, startTime)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Stale session reap failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if closed > 0 {
		s.logger.Info("Stale session reap completed",
			zap.Duration("duration", duration),
			zap.Int("closed", closed),
		)
	}
}

// TriggerSweep triggers an immediate violation sweep run
func (s *MaintenanceScheduler) TriggerSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
