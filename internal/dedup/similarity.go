package dedup

import "github.com/agnivade/levenshtein"

// Similarity returns an edit-distance-based ratio in [0, 1] between two
// canonical strings: 1 for identical text, 0 for completely different or
// empty input.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
