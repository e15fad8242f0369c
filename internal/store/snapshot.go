package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/listings-api/internal/listings"
)

// SnapshotProvider serves an in-memory copy of the listings dataset to the
// query engine, reloading it from postgres on an interval. Constructed once
// at process start and passed by reference to handlers.
type SnapshotProvider struct {
	store  *Store
	logger *slog.Logger

	mu     sync.RWMutex
	cached []listings.Listing
	loaded bool
}

func NewSnapshotProvider(st *Store, logger *slog.Logger) *SnapshotProvider {
	return &SnapshotProvider{store: st, logger: logger}
}

func (p *SnapshotProvider) Listings(ctx context.Context) ([]listings.Listing, error) {
	p.mu.RLock()
	if p.loaded {
		cached := p.cached
		p.mu.RUnlock()
		return cached, nil
	}
	p.mu.RUnlock()

	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cached, nil
}

func (p *SnapshotProvider) Reload(ctx context.Context) error {
	snapshot, err := p.store.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.cached = snapshot
	p.loaded = true
	p.mu.Unlock()
	p.logger.Debug("listings snapshot reloaded", "count", len(snapshot))
	return nil
}

// Run reloads on an interval until the context ends.
func (p *SnapshotProvider) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Reload(ctx); err != nil {
				p.logger.Warn("snapshot reload failed, serving previous data", "err", err)
			}
		}
	}
}
