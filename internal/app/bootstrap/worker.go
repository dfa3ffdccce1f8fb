package bootstrap

import (
	"context"
	"log/slog"
	"time"

	loanworkers "bibliotheque/contexts/lending/loan-service/application/workers"

	"golang.org/x/sync/errgroup"
)

// Relay drains one outbox into the event bus.
type Relay interface {
	RunOnce(ctx context.Context) error
}

// Worker runs the outbox relays on PollInterval and the loan expiry sweep
// on SweepInterval.
type Worker struct {
	Relays        []Relay
	Sweep         loanworkers.ExpirySweep
	PollInterval  time.Duration
	SweepInterval time.Duration
	Logger        *slog.Logger
}

func (w Worker) Run(ctx context.Context) error {
	w.Logger.Info("worker loop started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.PollInterval.String(),
		"sweep_interval", w.SweepInterval.String(),
		"relays", len(w.Relays),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return every(ctx, w.PollInterval, w.RelayOnce)
	})
	g.Go(func() error {
		return every(ctx, w.SweepInterval, w.SweepOnce)
	})
	return g.Wait()
}

// RelayOnce runs every relay once. A failing relay does not stop the others;
// its rows stay pending for the next tick.
func (w Worker) RelayOnce(ctx context.Context) {
	for _, relay := range w.Relays {
		if err := relay.RunOnce(ctx); err != nil && ctx.Err() == nil {
			w.Logger.Warn("outbox relay pass failed",
				"event", "bootstrap_relay_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}
}

func (w Worker) SweepOnce(ctx context.Context) {
	if _, err := w.Sweep.RunOnce(ctx); err != nil && ctx.Err() == nil {
		w.Logger.Warn("loan sweep failed",
			"event", "bootstrap_sweep_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}
}

func every(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		fn(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
