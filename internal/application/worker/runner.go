package worker

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/example/dining-concierge/internal/application/usecases"
)

// StaleRecoverer returns expired-claim tasks to the pending queue. Optional:
// transports with their own redelivery (visibility timeouts) don't need it.
type StaleRecoverer interface {
	RecoverStale(ctx context.Context) (int, error)
}

// Runner polls the queue on an interval and drains whatever work is there.
// Several runners may point at the same queue; the claim mechanism is the
// only coordination between them.
type Runner struct {
	Fulfill  usecases.FulfillNext
	Recover  StaleRecoverer
	Interval time.Duration
	Log      *log.Logger
}

func (r *Runner) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval())
	defer t.Stop()

	// kick immediately
	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if r.Recover != nil {
		n, err := r.Recover.RecoverStale(ctx)
		if err != nil {
			r.logger().Error("stale claim recovery failed", "err", err)
		} else if n > 0 {
			r.logger().Warn("requeued stale tasks", "count", n)
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}
		out, err := r.Fulfill.Execute(ctx)
		if err != nil {
			// The task stays claimable; redelivery retries it. Stop the
			// cycle so one poisoned task can't spin the loop.
			r.logger().Error("fulfillment failed", "task", out.TaskID, "err", err)
			return
		}
		if out.Empty {
			return
		}
	}
}

func (r *Runner) interval() time.Duration {
	if r.Interval > 0 {
		return r.Interval
	}
	return 5 * time.Second
}

func (r *Runner) logger() *log.Logger {
	if r.Log != nil {
		return r.Log
	}
	return log.Default()
}
