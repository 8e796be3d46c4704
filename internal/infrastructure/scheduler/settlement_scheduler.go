package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SettlementScheduler triggers periodic settlement runs. On each tick it
// finds suppliers with pending billing transactions and submits one job per
// supplier to the worker pool.
type SettlementScheduler struct {
	scheduler    *Scheduler
	transactions billing.TransactionRepository
	interval     time.Duration
	retryMax     int
	logger       *zap.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewSettlementScheduler creates a settlement scheduler from billing config
func NewSettlementScheduler(
	cfg config.BillingConfig,
	executor JobExecutor,
	transactions billing.TransactionRepository,
	logger *zap.Logger,
) *SettlementScheduler {
	pool := NewScheduler(Config{
		Enabled:           cfg.SchedulerEnabled,
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		JobTimeout:        cfg.JobTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
	}, executor, logger)

	return &SettlementScheduler{
		scheduler:    pool,
		transactions: transactions,
		interval:     cfg.SettlementInterval,
		retryMax:     cfg.RetryAttempts,
		logger:       logger,
	}
}

// Start starts the worker pool and the interval trigger
func (s *SettlementScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	next := time.Now().Add(s.interval)
	s.nextRunAt = &next
	s.mu.Unlock()

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("settlement trigger started",
		zap.Duration("interval", s.interval),
	)
	return nil
}

// Stop stops the trigger loop and the worker pool
func (s *SettlementScheduler) Stop(ctx context.Context) error {
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
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.scheduler.Stop(ctx)
}

func (s *SettlementScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSettlement(ctx)

			s.mu.Lock()
			now := time.Now()
			next := now.Add(s.interval)
			s.lastRunAt = &now
			s.nextRunAt = &next
			s.mu.Unlock()
		}
	}
}

// runSettlement submits one job per supplier that has pending transactions.
// The settlement period covers everything up to the trigger time.
func (s *SettlementScheduler) runSettlement(ctx context.Context) {
	periodEnd := time.Now().UTC().Truncate(time.Hour)
	periodStart := periodEnd.Add(-s.interval)

	supplierIDs, err := s.transactions.FindSuppliersWithPending(ctx)
	if err != nil {
		s.logger.Error("failed to find suppliers with pending transactions", zap.Error(err))
		return
	}
	if len(supplierIDs) == 0 {
		s.logger.Debug("no pending transactions, skipping settlement run")
		return
	}

	s.logger.Info("starting settlement run",
		zap.Int("suppliers", len(supplierIDs)),
		zap.Time("period_start", periodStart),
		zap.Time("period_end", periodEnd),
	)

	for _, supplierID := range supplierIDs {
		job := NewJob(supplierID, periodStart, periodEnd, s.retryMax)
		if err := s.scheduler.SubmitJob(job); err != nil {
			s.logger.Error("failed to submit settlement job",
				zap.String("supplier_id", supplierID.String()),
				zap.Error(err),
			)
		}
	}
}

// TriggerNow runs a settlement pass immediately, outside the regular
// schedule. Used by the admin endpoint.
func (s *SettlementScheduler) TriggerNow() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runSettlement(context.Background())
	return nil
}

// TriggerSupplier submits a settlement job for a single supplier
func (s *SettlementScheduler) TriggerSupplier(supplierID uuid.UUID) error {
	periodEnd := time.Now().UTC().Truncate(time.Hour)
	periodStart := periodEnd.Add(-s.interval)
	return s.scheduler.SubmitJob(NewJob(supplierID, periodStart, periodEnd, s.retryMax))
}

// Status describes the current state of the settlement scheduler
type Status struct {
	Running   bool       `json:"running"`
	Interval  string     `json:"interval"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// GetStatus returns the scheduler status
func (s *SettlementScheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Running:   s.isRunning,
		Interval:  s.interval.String(),
		LastRunAt: s.lastRunAt,
		NextRunAt: s.nextRunAt,
	}
}
