package session

import (
	"context"
	"log/slog"
	"time"
)

const ttlWorkerInterval = 5 * time.Minute

// StartTTLWorker runs a background goroutine that periodically sweeps the
// store and drops sessions idle longer than ttl. Without it the store
// grows for the life of the process.
func StartTTLWorker(ctx context.Context, store Store, ttl time.Duration) {
	StartTTLWorkerWithInterval(ctx, store, ttl, ttlWorkerInterval)
}

// StartTTLWorkerWithInterval is StartTTLWorker with a configurable sweep
// interval, exposed for tests.
func StartTTLWorkerWithInterval(ctx context.Context, store Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session TTL worker started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweep(store, ttl)
			case <-ctx.Done():
				slog.Info("Session TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(store Store, ttl time.Duration) {
	expired := store.ExpiredBefore(time.Now().Add(-ttl))
	if len(expired) == 0 {
		return
	}

	for _, id := range expired {
		store.Delete(id)
	}
	slog.Info("Session TTL sweep completed", "evicted", len(expired), "remaining", store.Len())
}
