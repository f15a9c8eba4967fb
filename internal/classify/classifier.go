// Package classify assigns a category to canonical text by keyword matching
// against an injected category table.
package classify

import (
	"strings"

	"github.com/rickgao/newswire/internal/rules"
)

// Result is the outcome of classifying one item.
type Result struct {
	Category  string
	BaseScore int
	Matched   []string // Matched keyword texts, in table order
}

// Classifier matches canonical text against a category table. Stateless
// after construction; safe for concurrent use.
type Classifier struct {
	table []rules.Category
}

// New creates a Classifier over the given table. Table order is significant:
// it is the final tie-break between categories.
func New(table []rules.Category) *Classifier {
	return &Classifier{table: table}
}

// Classify matches text against every category and picks a winner by:
// most keyword matches, then highest base score, then table declaration
// order. Returns ok=false when no keyword in any category matches, in which
// case the item is UNCATEGORIZED and excluded from further processing.
func (c *Classifier) Classify(canonical string) (Result, bool) {
	var best Result
	found := false

	for _, cat := range c.table {
		var matched []string
		for _, kw := range cat.Keywords {
			if strings.Contains(canonical, strings.ToLower(kw.Text)) {
				matched = append(matched, kw.Text)
			}
		}
		if len(matched) == 0 {
			continue
		}

		if !found ||
			len(matched) > len(best.Matched) ||
			(len(matched) == len(best.Matched) && cat.BaseScore > best.BaseScore) {
			best = Result{
				Category:  cat.Name,
				BaseScore: cat.BaseScore,
				Matched:   matched,
			}
			found = true
		}
	}

	return best, found
}
