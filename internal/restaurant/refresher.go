package restaurant

import (
	"context"
	"time"

	"github.com/pourrice/pourrice/pkg/logger"
)

// Refresher reloads the catalog on a fixed interval and tells listeners
// about every successful reload.
type Refresher struct {
	catalog   *Catalog
	interval  time.Duration
	logger    logger.Logger
	listeners []func([]Restaurant)
}

func NewRefresher(catalog *Catalog, interval time.Duration, log logger.Logger) *Refresher {
	return &Refresher{
		catalog:  catalog,
		interval: interval,
		logger:   log,
	}
}

// OnRefresh registers fn to receive the new snapshot. Must be called before Start.
func (r *Refresher) OnRefresh(fn func([]Restaurant)) {
	r.listeners = append(r.listeners, fn)
}

// Start blocks until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Catalog refresher started", "interval", r.interval)

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-ctx.Done():
			r.logger.Info("Catalog refresher stopped")
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	r.logger.Debug("Refreshing catalog")

	if err := r.catalog.Refresh(ctx); err != nil {
		r.logger.Error("Failed to refresh catalog", "error", err)
		return
	}

	snapshot := r.catalog.Snapshot()
	for _, fn := range r.listeners {
		fn(snapshot)
	}
}
