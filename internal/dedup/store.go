package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCorruptWindow marks a persisted window that cannot be read back.
// Startup must fail closed on it: running with an empty window would
// re-alert on everything still inside the retention period.
var ErrCorruptWindow = errors.New("dedup: corrupt persisted window")

// Store persists window entries across process restarts.
type Store interface {
	// Load returns all persisted entries in timestamp order.
	Load(ctx context.Context) ([]Entry, error)

	// Append persists one committed entry.
	Append(ctx context.Context, e Entry) error

	// Prune deletes entries with timestamps at or before cutoff.
	Prune(ctx context.Context, cutoff time.Time) error
}

// Restore loads the persisted window into memory, evicting stale entries
// immediately with the same retention rule used at runtime, and prunes the
// store to match. Any load failure is returned as-is so the caller can
// refuse to start.
func Restore(ctx context.Context, store Store, cfg Config, now time.Time) (*Window, error) {
	w := NewWindow(cfg)

	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore window: %w", err)
	}

	for _, e := range entries {
		w.Add(e)
	}
	w.evict(now)

	if err := store.Prune(ctx, now.Add(-w.cfg.Retention)); err != nil {
		return nil, fmt.Errorf("prune window store: %w", err)
	}

	return w, nil
}
