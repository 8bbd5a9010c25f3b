// Package worker periodically reloads workspaces through the persistence
// gateway so the repository picks up changes made on the backend.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/observability"
)

// Loader merges the latest workspace list into the repository.
type Loader interface {
	Load(ctx context.Context) (int, error)
}

type Worker struct {
	loader Loader
	cfg    Config
	log    *zap.Logger
}

func New(loader Loader, cfg Config, log *zap.Logger) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.MaxBackoff < cfg.Interval {
		cfg.MaxBackoff = 8 * cfg.Interval
	}
	return &Worker{loader: loader, cfg: cfg, log: log}
}

func (w *Worker) Run(ctx context.Context) {
	w.log.Info("refresh worker started", zap.Duration("interval", w.cfg.Interval))
	wait := w.cfg.Interval
	for {
		select {
		case <-ctx.Done():
			w.log.Info("refresh worker stopping")
			return
		case <-time.After(wait):
		}

		n, err := w.loader.Load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			observability.RefreshTotal.WithLabelValues("error").Inc()
			wait = min(wait*2, w.cfg.MaxBackoff)
			w.log.Warn("workspace refresh failed", zap.Error(err), zap.Duration("retry_in", wait))
			continue
		}
		observability.RefreshTotal.WithLabelValues("ok").Inc()
		w.log.Debug("workspaces refreshed", zap.Int("count", n))
		wait = w.cfg.Interval
	}
}
