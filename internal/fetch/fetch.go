// Package fetch supplies batches of raw items to the pipeline. Fetchers are
// external collaborators behind a narrow interface: the pipeline consumes
// whatever batch they hand it and owns none of their scheduling.
package fetch

import (
	"context"

	"github.com/rickgao/newswire/internal/model"
)

// Fetcher returns a finite, ordered batch of items gathered since the last
// call. Items are best-effort: body and publication time may be absent.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.RawItem, error)
}
