package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rickgao/newswire/internal/model"
)

// Entry is one accepted event in the window. Only fully-processed events are
// ever inserted; a partially-constructed event never reaches the window.
type Entry struct {
	Fingerprint string
	URL         string
	Category    string
	Canonical   string
	Entities    []string
	Timestamp   time.Time
}

// EntryFor builds the window entry for an accepted event.
func EntryFor(e model.Event) Entry {
	return Entry{
		Fingerprint: e.ID,
		URL:         e.URL,
		Category:    e.Category,
		Canonical:   e.CanonicalText,
		Entities:    e.Entities,
		Timestamp:   e.Timestamp,
	}
}

// Fingerprint derives the dedup identity for an item: a short hash of the
// URL, falling back to the canonical text when the URL is empty.
func Fingerprint(url, canonical string) string {
	key := url
	if key == "" {
		key = canonical
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// Config holds deduplication thresholds.
type Config struct {
	Retention           time.Duration // Window size (default 24h)
	SimilarityThreshold float64       // Textual similarity cutoff (default 0.8)
	EntityWindow        time.Duration // Max gap for entity+category match (default 1h)
	CorroborationWindow time.Duration // Lookback for corroboration count (default 2h)
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		Retention:           24 * time.Hour,
		SimilarityThreshold: 0.8,
		EntityWindow:        time.Hour,
		CorroborationWindow: 2 * time.Hour,
	}
}

// Window is the bounded, time-ordered collection of recently accepted
// events. Owned exclusively by the pipeline goroutine of the current cycle.
type Window struct {
	cfg     Config
	entries []Entry
}

// NewWindow creates an empty window.
func NewWindow(cfg Config) *Window {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultConfig().Retention
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultConfig().SimilarityThreshold
	}
	if cfg.EntityWindow <= 0 {
		cfg.EntityWindow = DefaultConfig().EntityWindow
	}
	if cfg.CorroborationWindow <= 0 {
		cfg.CorroborationWindow = DefaultConfig().CorroborationWindow
	}
	return &Window{cfg: cfg}
}

// IsDuplicate reports whether e duplicates a window entry. Expired entries
// are evicted first, so the check never matches against stale history and
// needs no background sweeper. Three independent checks, any true means
// duplicate:
//  1. exact source URL already present
//  2. canonical-text similarity at or above the threshold
//  3. entity overlap, same category, and time delta under the entity window
func (w *Window) IsDuplicate(e Entry, now time.Time) bool {
	w.evict(now)

	for i := range w.entries {
		prev := &w.entries[i]

		if e.URL != "" && prev.URL == e.URL {
			return true
		}
		if Similarity(e.Canonical, prev.Canonical) >= w.cfg.SimilarityThreshold {
			return true
		}
		if prev.Category == e.Category &&
			absDelta(e.Timestamp, prev.Timestamp) < w.cfg.EntityWindow &&
			overlaps(e.Entities, prev.Entities) {
			return true
		}
	}
	return false
}

// Contains reports whether a fingerprint is still present, evicting expired
// entries first.
func (w *Window) Contains(fingerprint string, now time.Time) bool {
	w.evict(now)
	for i := range w.entries {
		if w.entries[i].Fingerprint == fingerprint {
			return true
		}
	}
	return false
}

// Corroboration counts window entries in the same category within the
// corroboration window, excluding the given fingerprint. Used by the scorer
// as the "seen from independent sources" count; computed before the new
// event is added, so a first sighting never corroborates itself.
func (w *Window) Corroboration(category, fingerprint string, now time.Time) int {
	w.evict(now)

	n := 0
	for i := range w.entries {
		prev := &w.entries[i]
		if prev.Fingerprint == fingerprint || prev.Category != category {
			continue
		}
		if absDelta(now, prev.Timestamp) <= w.cfg.CorroborationWindow {
			n++
		}
	}
	return n
}

// Add appends a committed entry. Callers add only after the event is fully
// processed, keeping the window consistent under mid-batch cancellation.
func (w *Window) Add(e Entry) {
	w.entries = append(w.entries, e)
}

// Len returns the current entry count without evicting.
func (w *Window) Len() int {
	return len(w.entries)
}

// evict drops entries older than the retention period.
func (w *Window) evict(now time.Time) {
	cutoff := now.Add(-w.cfg.Retention)
	kept := w.entries[:0]
	for _, e := range w.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	w.entries = kept
}

func absDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

func overlaps(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
