// Package model defines shared data types used across the scanner pipeline.
//
// Conventions:
//   - Prices: float64 probability in [0, 1]
//   - Timestamps: time.Time; a zero PublishedAt means "unknown"
//   - IDs: string fingerprints for events, uuid.UUID for signals
package model
