// Package dedup implements the Deduplicator component.
//
// The Deduplicator:
//   - Keeps a sliding 24h window of accepted events, keyed by fingerprint
//   - Evicts expired entries lazily at the start of every check
//   - Flags duplicates via exact URL match, textual similarity, or
//     entity+category co-occurrence within one hour
//   - Counts corroborating sightings for the scorer
//   - Persists the window (postgres) so restarts do not re-alert
//
// The window is the only mutable cross-call state in the pipeline. It must
// only be touched by the single goroutine running a cycle; cycles never
// overlap.
package dedup
