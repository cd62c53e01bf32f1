package automod

import (
	"context"
	"time"

	"discord-automod-bot/internal/models"

	"go.uber.org/zap"
)

// Sweeper periodically purges stale tracker events and violation records so
// unbounded history never accumulates. Purges happen strictly behind the
// retention windows, so an in-flight count against the current time can
// never be invalidated by a concurrent sweep.
type Sweeper struct {
	janitor  Janitor
	logger   *zap.Logger
	interval time.Duration
	now      func() int64

	cancel context.CancelFunc
	done   chan struct{}
}

const DefaultSweepInterval = 5 * time.Minute

func NewSweeper(janitor Janitor, logger *zap.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		janitor:  janitor,
		logger:   logger,
		interval: interval,
		now:      models.Now,
	}
}

// Start launches the sweep loop. Failures are logged and the loop keeps
// running; a sweep must never block or break message processing.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
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
	}()
}

// Sweep runs one purge pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()

	if n, err := s.janitor.PurgeViolationsBefore(ctx, now-models.ViolationWindowSeconds); err != nil {
		s.logger.Warn("violation purge failed", zap.Error(err))
	} else if n > 0 {
		sweeperPurged.WithLabelValues("violations").Add(float64(n))
		s.logger.Debug("purged violations", zap.Int64("count", n))
	}

	if n, err := s.janitor.PurgeEventsBefore(ctx, now-models.TrackingRetentionSecs); err != nil {
		s.logger.Warn("event purge failed", zap.Error(err))
	} else if n > 0 {
		sweeperPurged.WithLabelValues("events").Add(float64(n))
		s.logger.Debug("purged tracked events", zap.Int64("count", n))
	}
}

// Stop halts the loop and waits for the current pass to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}
