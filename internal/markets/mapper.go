// Package markets maps classified events to the prediction markets they may
// move, via a static keyword lookup table.
package markets

import (
	"strings"

	"github.com/rickgao/newswire/internal/model"
)

// Mapper is a pure lookup over an injected MarketRef table. Stateless after
// construction; safe for concurrent use.
type Mapper struct {
	refs []model.MarketRef
}

// NewMapper creates a Mapper over the given table.
func NewMapper(refs []model.MarketRef) *Mapper {
	return &Mapper{refs: refs}
}

// Map returns the market IDs whose keyword sets intersect the event's
// matched keywords or extracted entities. Returns nil (never an error) when
// nothing matches; the pipeline treats that as "no actionable market".
func (m *Mapper) Map(e model.Event) []string {
	terms := make(map[string]struct{}, len(e.Keywords)+len(e.Entities))
	for _, kw := range e.Keywords {
		terms[strings.ToLower(kw)] = struct{}{}
	}
	for _, ent := range e.Entities {
		terms[strings.ToLower(ent)] = struct{}{}
	}
	if len(terms) == 0 {
		return nil
	}

	var ids []string
	for _, ref := range m.refs {
		for _, kw := range ref.Keywords {
			if _, ok := terms[strings.ToLower(kw)]; ok {
				ids = append(ids, ref.ID)
				break
			}
		}
	}
	return ids
}
