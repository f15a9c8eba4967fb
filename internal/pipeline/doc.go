// Package pipeline implements the single-pass batch cycle:
//
//	raw items -> normalize -> classify -> score -> dedup -> map -> signal
//
// One RunCycle call processes a finite batch in fetch order and terminates.
// The pipeline owns no loop or timer; an external scheduler (cmd/scanner)
// decides when cycles run, and cycles over the same window never overlap.
package pipeline
