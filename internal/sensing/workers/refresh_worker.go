package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/sensing/usecases"

	"github.com/robfig/cron/v3"
)

// RefreshWorker periodically asks the live hub to re-broadcast the current
// snapshot, so dashboards recover even when no sonde has reported lately.
func NewRefreshWorker(schedule string, broker async.Broker) (*RefreshWorker, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	spec, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing refresh schedule %q: %w", schedule, err)
	}

	return &RefreshWorker{
		schedule: spec,
		broker:   broker,
	}, nil
}

var _ async.Worker = (*RefreshWorker)(nil)

type RefreshWorker struct {
	schedule cron.Schedule
	broker   async.Broker
}

func (w *RefreshWorker) Run(ctx context.Context, done func()) {
	slog.Info("refresh worker started")
	defer done()

	for {
		next := w.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("refresh worker cancelled")
			return
		case <-timer.C:
			w.publishRefresh(ctx)
		}
	}
}

func (w *RefreshWorker) publishRefresh(ctx context.Context) {
	slog.Debug("publishing scheduled refresh", slog.Time("time", time.Now()))
	err := w.broker.Publish(ctx, usecases.BrokerTopicReadings, async.Message{
		Event: usecases.EventRefreshRequested,
	})
	if err != nil && !errors.Is(err, async.ErrTopicNotFound) {
		slog.Error("failed to publish refresh event", slog.Any("error", err))
	}
}

func (w *RefreshWorker) Shutdown() {
	slog.Info("shutting down refresh worker")
}
