package revocation

import (
	"context"
	"log/slog"
	"time"
)

// Sweepable is anything that can be cleared wholesale on a schedule.
type Sweepable interface {
	Sweep(ctx context.Context) error
}

// Sweeper clears a Sweepable on a fixed wall-clock interval, independent of
// when tokens were revoked or when they expire.
type Sweeper struct {
	target   Sweepable
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSweeper builds a sweeper. The interval must be positive.
func NewSweeper(target Sweepable, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{target: target, interval: interval, timeout: 5 * time.Second, logger: logger}
}

// Run sweeps every interval until ctx is cancelled. Failures are logged and
// the next tick is attempted as usual.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	if err := s.target.Sweep(ctx); err != nil {
		s.logger.Error("blacklist reset failed", slog.Any("error", err))
		return
	}
	s.logger.Info("blacklist reset", slog.Duration("interval", s.interval))
}
