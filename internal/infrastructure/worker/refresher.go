package worker

import (
	"context"
	"errors"
	"time"

	"stockval/internal/application"
	"stockval/internal/domain"

	"go.uber.org/zap"
)

var _ application.Worker = (*Refresher)(nil)

// SeriesRefresher is the part of the valuation service a Refresher drives.
type SeriesRefresher interface {
	RefreshSeries(ctx context.Context, symbol string) error
}

// Refresher re-fetches the daily series of a watchlist on a fixed interval
// so long-running processes pick up new closes.
type Refresher struct {
	Service SeriesRefresher
	Symbols []string

	Every   time.Duration
	Timeout time.Duration
	Log     *zap.Logger
}

func (w *Refresher) Start(ctx context.Context) {
	if w.Log == nil {
		w.Log = zap.NewNop()
	}
	log := w.Log
	if w.Every <= 0 || len(w.Symbols) == 0 {
		log.Info("refresher_disabled")
		return
	}
	if w.Timeout <= 0 {
		w.Timeout = 30 * time.Second
	}

	t := time.NewTicker(w.Every)
	defer t.Stop()

	log.Info("refresher_started", zap.Duration("every", w.Every), zap.Strings("symbols", w.Symbols))
	for {
		select {
		case <-ctx.Done():
			log.Info("refresher_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

// tick refreshes each symbol once. A rate-limited provider ends the round
// early; later symbols wait for the next tick.
func (w *Refresher) tick(ctx context.Context, log *zap.Logger) {
	for _, sym := range w.Symbols {
		if ctx.Err() != nil {
			return
		}
		err := w.refreshOne(ctx, sym)
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			log.Warn("refresh_rate_limited", zap.String("symbol", sym))
			return
		case err != nil:
			log.Warn("refresh_failed", zap.String("symbol", sym), zap.Error(err))
		default:
			log.Debug("refresh_done", zap.String("symbol", sym))
		}
	}
}

func (w *Refresher) refreshOne(ctx context.Context, sym string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("refresh panicked")
			w.Log.Warn("refresh_panic", zap.String("symbol", sym), zap.Any("r", r))
		}
	}()
	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	return w.Service.RefreshSeries(c, sym)
}
