package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"stallion/native/bounty"
	"stallion/observability/metrics"
)

// Settler is the node surface the sweeper drives.
type Settler interface {
	Now() int64
	DueBounties(now int64) ([]uint32, error)
	CheckJudgingDeadline(ctx context.Context, id uint32) (*bounty.AutoSettlement, error)
}

// Sweeper periodically settles bounties whose deadline passed. It invokes
// the same public operation any caller could and keeps no engine state.
type Sweeper struct {
	settler  Settler
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.EscrowMetrics

	mu        sync.Mutex
	scheduler gocron.Scheduler
}

// New creates a sweeper. A nil logger falls back to slog.Default.
func New(settler Settler, interval time.Duration, logger *slog.Logger, m *metrics.EscrowMetrics) (*Sweeper, error) {
	if settler == nil {
		return nil, fmt.Errorf("sweeper: settler required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sweeper: interval must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{settler: settler, interval: interval, logger: logger, metrics: m}, nil
}

// Start schedules RunOnce every interval, beginning immediately. Overlapping
// runs are skipped.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler != nil {
		return nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("sweeper: create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if _, err := s.RunOnce(context.Background()); err != nil {
				s.logger.Error("sweeper run failed", "error", err)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("sweeper: schedule job: %w", err)
	}
	sched.Start()
	s.scheduler = sched
	return nil
}

// Stop shuts the scheduler down and waits for a running sweep.
func (s *Sweeper) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	return err
}

// RunOnce settles every due bounty and returns how many settled. A failure
// on one bounty is logged and the sweep continues.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	due, err := s.settler.DueBounties(s.settler.Now())
	if err != nil {
		return 0, fmt.Errorf("sweeper: list due bounties: %w", err)
	}
	settled := 0
	for _, id := range due {
		if err := ctx.Err(); err != nil {
			return settled, err
		}
		result, err := s.settler.CheckJudgingDeadline(ctx, id)
		if err != nil {
			s.metrics.ObserveSweep("error")
			s.logger.Warn("auto-settlement failed", "id", id, "error", err)
			continue
		}
		if !result.Settled {
			s.metrics.ObserveSweep("skipped")
			continue
		}
		settled++
		s.metrics.ObserveSweep("settled")
		s.logger.Info("bounty auto-settled", "id", id, "applicants", result.Applicants, "share", result.Share.String(), "dust", result.Dust.String())
	}
	return settled, nil
}
