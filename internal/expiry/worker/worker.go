package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/expiry"
)

// Worker periodically runs the expiration notify flow so notifications go out
// without anyone hitting the endpoint.
type Worker struct {
	uc       expiry.UseCase
	interval time.Duration
	logger   *zap.Logger
}

func NewWorker(uc expiry.UseCase, interval time.Duration, log *zap.Logger) *Worker {
	return &Worker{
		uc:       uc,
		interval: interval,
		logger:   log,
	}
}

// Start blocks until ctx is cancelled. Failures are logged and the loop keeps
// going; a broken mail run must not stop future ones.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting expiration notify worker", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping expiration notify worker")
			return
		case <-ticker.C:
			if _, err := w.uc.NotifyExpiring(ctx, time.Now().UTC()); err != nil {
				w.logger.Error("scheduled expiration notify failed", zap.Error(err))
			}
		}
	}
}
