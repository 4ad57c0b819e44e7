package sideeffect

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Dispatcher accepts jobs after the primary mutation has committed. It never
// reports failure to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobs ...Job)
}

// Inline runs jobs in order on the calling goroutine, each under its own
// timeout. Failures are logged and the next job still runs.
type Inline struct {
	runner  *Runner
	timeout time.Duration
	log     *zap.Logger
}

func NewInline(runner *Runner, timeout time.Duration, log *zap.Logger) *Inline {
	return &Inline{runner: runner, timeout: timeout, log: log}
}

func (d *Inline) Dispatch(ctx context.Context, jobs ...Job) {
	for _, job := range jobs {
		d.run(ctx, job)
	}
}

func (d *Inline) run(ctx context.Context, job Job) {
	// Detached from the request so a client disconnect does not cut the call short.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.runner.Run(ctx, job); err != nil {
		d.log.Warn("side effect failed",
			zap.String("kind", string(job.Kind)),
			zap.Int64("booking_id", job.BookingID),
			zap.Int64("user_id", job.UserID),
			zap.Error(err),
		)
	}
}
