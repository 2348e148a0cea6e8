package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Job is a unit of periodic work. Errors are reported, not retried: the next
// scheduled run is the retry.
type Job func(ctx context.Context) error

// Runner drives a single named job on a Schedule until its context is
// cancelled. Maintenance tasks stay plain functions; the runner owns the
// timing loop and failure logging.
type Runner struct {
	name     string
	schedule Schedule
	job      Job
	log      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for run reporting.
func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRunner creates a runner for the given job.
// Panics on missing job or schedule to fail fast during initialization.
func NewRunner(name string, s Schedule, job Job, opts ...RunnerOption) *Runner {
	if s == nil {
		panic("schedule: Schedule is required")
	}
	if job == nil {
		panic("schedule: Job is required")
	}
	r := &Runner{
		name:     name,
		schedule: s,
		job:      job,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run blocks, executing the job on its schedule until ctx is cancelled.
// Returns ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("scheduled job registered",
		slog.String("job", r.name),
		slog.String("schedule", r.schedule.String()),
	)

	timer := time.NewTimer(time.Until(r.schedule.Next(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		started := time.Now()
		if err := r.job(ctx); err != nil {
			r.log.Error("scheduled job failed",
				slog.String("job", r.name),
				slog.Duration("took", time.Since(started)),
				slog.String("error", err.Error()),
			)
		} else {
			r.log.Info("scheduled job completed",
				slog.String("job", r.name),
				slog.Duration("took", time.Since(started)),
			)
		}

		timer.Reset(time.Until(r.schedule.Next(time.Now())))
	}
}
