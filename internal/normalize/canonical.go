// Package normalize turns raw items into canonical text for classification
// and similarity checks, and extracts entities from the original-cased text.
package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rickgao/newswire/internal/model"
)

var (
	urlPattern       = regexp.MustCompile(`https?://\S+`)
	markupPattern    = regexp.MustCompile(`<[^>]*>`)
	entityRefPattern = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// Canonical returns the canonical comparison text for an item: title and
// body joined, markup and URLs stripped, lowercased, whitespace collapsed.
// Pure; malformed or empty text yields an empty string, never an error.
func Canonical(item model.RawItem) string {
	return CanonicalText(strings.TrimSpace(item.Title + " " + item.Body))
}

// CanonicalText normalizes an arbitrary text fragment.
func CanonicalText(text string) string {
	text = markupPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, " ")
	text = entityRefPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`),                               // person names
	regexp.MustCompile(`\$\d+(?:\.\d+)?(?:[kKmMbBtT])?\b`),                          // money
	regexp.MustCompile(`\b\d+(?:\.\d+)?%`),                                          // percentages
	regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:bps?|basis points|million|billion|trillion)\b`), // quantities
	regexp.MustCompile(`\b[A-Z][A-Z0-9&]{2,}\b`),                                    // org acronyms
}

// Entities extracts named entities from the item's original-cased title and
// body. The result is lowercased, deduplicated, and sorted for determinism.
func Entities(item model.RawItem) []string {
	text := strings.TrimSpace(item.Title + " " + item.Body)
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, p := range entityPatterns {
		for _, m := range p.FindAllString(text, -1) {
			seen[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
