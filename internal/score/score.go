// Package score computes the 1-10 urgency score for a classified item.
//
// The score is additive: category base score, source-tier bonus, recency
// bonus/penalty, corroboration bonus, a bonus for specific numeric data, and
// a breaking-news bonus, clamped to [1, 10]. The ordering and weights are a
// design choice pinned by the tests, not derived from anything.
package score

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rickgao/newswire/internal/model"
)

// quantityPattern detects specific data points (numbers with optional units)
// inside matched keywords or extracted entities.
var quantityPattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:%|bps?|basis points|k|m|b|t|million|billion|trillion)?\b`)

// Input carries everything the scorer needs. All fields are explicit so the
// score is a pure function of its input.
type Input struct {
	Category      string
	BaseScore     int
	Tier          model.SourceTier
	AgeMinutes    int // model.AgeUnknown when publication time is missing
	Corroborating int // Independent sightings of the same happening
	Keywords      []string
	Breaking      bool
}

// Breakdown records how a score was assembled, for logs and the classify
// debug tool.
type Breakdown struct {
	Category      string
	Base          int
	TierBonus     int
	Recency       int
	Corroboration int
	Quantity      int
	Breaking      int
	Final         int
}

func (b Breakdown) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "score breakdown for %s:\n", b.Category)
	fmt.Fprintf(&sb, "  base: %d\n", b.Base)
	if b.TierBonus != 0 {
		fmt.Fprintf(&sb, "  source tier: +%d\n", b.TierBonus)
	}
	if b.Recency > 0 {
		fmt.Fprintf(&sb, "  recency: +%d\n", b.Recency)
	} else if b.Recency < 0 {
		fmt.Fprintf(&sb, "  recency: %d\n", b.Recency)
	}
	if b.Corroboration != 0 {
		fmt.Fprintf(&sb, "  corroborated by other sources: +%d\n", b.Corroboration)
	}
	if b.Quantity != 0 {
		fmt.Fprintf(&sb, "  specific data point: +%d\n", b.Quantity)
	}
	if b.Breaking != 0 {
		fmt.Fprintf(&sb, "  breaking: +%d\n", b.Breaking)
	}
	fmt.Fprintf(&sb, "  final: %d/10", b.Final)
	return sb.String()
}

// Urgency computes the clamped urgency score.
func Urgency(in Input) int {
	return Compute(in).Final
}

// Compute computes the urgency score and its breakdown.
func Compute(in Input) Breakdown {
	b := Breakdown{Category: in.Category, Base: in.BaseScore}

	switch in.Tier {
	case model.Tier1:
		b.TierBonus = 2
	case model.Tier2:
		b.TierBonus = 1
	}

	switch {
	case in.AgeMinutes == model.AgeUnknown:
		// No publication time: neither bonus nor penalty.
	case in.AgeMinutes < 5:
		b.Recency = 2
	case in.AgeMinutes < 15:
		b.Recency = 1
	case in.AgeMinutes > 60:
		b.Recency = -2
	}

	if in.Corroborating >= 1 {
		b.Corroboration = 2
	}
	if containsQuantity(in.Keywords) {
		b.Quantity = 1
	}
	if in.Breaking {
		b.Breaking = 2
	}

	total := b.Base + b.TierBonus + b.Recency + b.Corroboration + b.Quantity + b.Breaking
	if total < 1 {
		total = 1
	}
	if total > 10 {
		total = 10
	}
	b.Final = total
	return b
}

func containsQuantity(keywords []string) bool {
	for _, kw := range keywords {
		if strings.ContainsAny(kw, "0123456789") && quantityPattern.MatchString(kw) {
			return true
		}
	}
	return false
}
