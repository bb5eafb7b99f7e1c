// Package sweeper provides the background loop that resumes pending
// animations whose provider jobs may have finished since.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wispr-app/wispr-api/config"
	"github.com/wispr-app/wispr-api/internal/service"
)

// Runner periodically sweeps pending animation rows.
type Runner struct {
	animations    *service.AnimationService
	interval      time.Duration
	minPendingAge time.Duration
	batchSize     int
	logger        *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Animations *service.AnimationService
	Config     config.SweeperConfig
	Logger     *slog.Logger
}

// NewRunner creates a new sweeper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Animations == nil {
		return nil, errors.New("animation service is required")
	}

	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		animations:    opts.Animations,
		interval:      cfg.Interval,
		minPendingAge: cfg.MinPendingAge,
		batchSize:     cfg.BatchSize,
		logger:        logger.With("component", "sweeper"),
	}, nil
}

// Run sweeps on a fixed interval until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting sweeper",
		"interval", r.interval.String(),
		"min_pending_age", r.minPendingAge.String(),
		"batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "sweeper stopping")
			return ctx.Err()
		case <-ticker.C:
			settled, err := r.animations.SweepPending(ctx, r.minPendingAge, r.batchSize)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.ErrorContext(ctx, "sweep failed", "error", err)
				continue
			}
			if settled > 0 {
				r.logger.InfoContext(ctx, "sweep settled animations", "count", settled)
			}
		}
	}
}
