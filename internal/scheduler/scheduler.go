// Package scheduler runs the periodic lifecycle sweep: overdue loans are
// defaulted, investments are revalued and groups are promoted a tier.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"wakala-ledger/internal/events"
	"wakala-ledger/internal/metrics"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/service"
)

// DefaultInterval is used when no sweep interval is configured.
const DefaultInterval = time.Hour

// Pass names used in logs and metrics.
const (
	PassLoanExpiry    = "loan_expiry"
	PassRevaluation   = "revaluation"
	PassTierPromotion = "tier_promotion"
)

// SweepReport summarises one sweep.
type SweepReport struct {
	StartedAt           time.Time     `json:"started_at"`
	Duration            time.Duration `json:"duration"`
	LoansDefaulted      int           `json:"loans_defaulted"`
	LoanFailures        int           `json:"loan_failures"`
	InvestmentsRevalued int           `json:"investments_revalued"`
	RevaluationFailures int           `json:"revaluation_failures"`
	GroupsPromoted      int           `json:"groups_promoted"`
	PromotionFailures   int           `json:"promotion_failures"`
}

// Scheduler owns the sweep and the background loop that triggers it.
type Scheduler struct {
	dbExecutor repository.DBExecutor
	repos      repository.Repositories
	publisher  events.Publisher
	now        service.Clock
	interval   time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger

	sweepMu sync.Mutex // one sweep at a time
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Scheduler. A non-positive interval falls back to DefaultInterval.
func New(
	dbExecutor repository.DBExecutor,
	repos repository.Repositories,
	publisher events.Publisher,
	now service.Clock,
	interval time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Scheduler {
	if now == nil {
		now = service.SystemClock
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		dbExecutor: dbExecutor,
		repos:      repos,
		publisher:  publisher,
		now:        now,
		interval:   interval,
		metrics:    m,
		logger:     logger,
	}
}

// safeGo launches a goroutine with panic recovery and logging.
func (s *Scheduler) safeGo(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Recovered from panic in scheduler goroutine",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}

// Start launches the sweep loop. Calling Start again restarts it.
func (s *Scheduler) Start() {
	if s.cancel != nil {
		s.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.safeGo("sweeper", func() { s.loop(ctx) })

	s.logger.Info("Lifecycle scheduler started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
	s.logger.Info("Lifecycle scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs the three passes once. The passes are independent: a failing
// item is logged and counted, and never aborts its pass or the sweep.
func (s *Scheduler) Sweep(ctx context.Context) SweepReport {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	report := SweepReport{StartedAt: s.now()}
	started := time.Now()

	s.expireLoans(ctx, report.StartedAt, &report)
	s.revalueInvestments(ctx, report.StartedAt, &report)
	s.promoteGroups(ctx, report.StartedAt, &report)

	report.Duration = time.Since(started)
	s.metrics.ObserveSweep(report.Duration)
	s.logger.Info("Lifecycle sweep finished",
		"loans_defaulted", report.LoansDefaulted,
		"investments_revalued", report.InvestmentsRevalued,
		"groups_promoted", report.GroupsPromoted,
		"failures", report.LoanFailures+report.RevaluationFailures+report.PromotionFailures,
		"duration", report.Duration.String(),
	)
	return report
}

// isolate runs fn for one item. Errors and panics are logged as warnings.
func (s *Scheduler) isolate(pass, itemID string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		s.metrics.SweepItem(pass, err)
		if err != nil {
			s.logger.Warn("Sweep item failed", "pass", pass, "item_id", itemID, "error", err)
		}
	}()
	return fn()
}
