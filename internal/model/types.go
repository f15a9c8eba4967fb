package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Input Types
// -----------------------------------------------------------------------------

// SourceTier classifies the reliability of an originating feed.
type SourceTier int

const (
	TierUnknown SourceTier = iota
	Tier1                  // Wire services, primary sources
	Tier2                  // Reliable secondary outlets
	Tier3                  // Everything else
)

func (t SourceTier) String() string {
	switch t {
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	case Tier3:
		return "tier3"
	default:
		return "unknown"
	}
}

// AgeUnknown marks an item whose publication time could not be determined.
// The scorer applies neither a recency bonus nor a penalty for it.
const AgeUnknown = -1

// RawItem is a single news/social item handed to the pipeline by a fetcher.
// Immutable once created.
type RawItem struct {
	SourceID    string     // Feed or account identifier
	URL         string     // Item permalink (required)
	Title       string     // Headline (required)
	Body        string     // Summary/content, best-effort
	PublishedAt time.Time  // Zero when the source omits it
	Tier        SourceTier // Reliability tier of the source
	Breaking    bool       // Flagged breaking by source metadata
}

// AgeMinutes returns the item age at now in whole minutes, or AgeUnknown
// when PublishedAt is missing.
func (r RawItem) AgeMinutes(now time.Time) int {
	if r.PublishedAt.IsZero() {
		return AgeUnknown
	}
	age := now.Sub(r.PublishedAt)
	if age < 0 {
		return 0
	}
	return int(age / time.Minute)
}

// -----------------------------------------------------------------------------
// Pipeline Types
// -----------------------------------------------------------------------------

// Event is a classified, scored unit of content eligible for market mapping.
// Never mutated after creation; a later item about the same happening
// supersedes it rather than updating it.
type Event struct {
	ID            string    // Content fingerprint (hash of URL or text)
	Category      string    // Winning category name
	Keywords      []string  // Keywords from the category table that matched
	Entities      []string  // Extracted entities (people, orgs, quantities)
	UrgencyScore  int       // 1-10
	Timestamp     time.Time // Publication time, or processing time if unknown
	AgeMinutes    int       // Age at processing time, AgeUnknown if unknown
	URL           string    // Source permalink
	CanonicalText string    // Normalized text used for similarity checks
}

// MarketRef maps a prediction market to the keywords that make it relevant.
// Static configuration, read-only at run time.
type MarketRef struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
}

// -----------------------------------------------------------------------------
// Output Types
// -----------------------------------------------------------------------------

// Direction is the recommended action for a signal.
type Direction string

const (
	BuyYes Direction = "BUY_YES"
	BuyNo  Direction = "BUY_NO"
	Hold   Direction = "HOLD"
)

// Actionable reports whether the direction should be surfaced as an
// actionable alert. HOLD is informational only.
func (d Direction) Actionable() bool {
	return d == BuyYes || d == BuyNo
}

// Signal is a directional trading recommendation for one market. Terminal:
// created once per (event, market) pair, never updated afterwards.
type Signal struct {
	ID            uuid.UUID `json:"id"`
	EventID       string    `json:"event_id"`
	MarketID      string    `json:"market_id"`
	Direction     Direction `json:"direction"`
	Confidence    float64   `json:"confidence"` // [0, 1]
	CurrentPrice  float64   `json:"current_price"`
	ExpectedPrice float64   `json:"expected_price"`
	Reasoning     string    `json:"reasoning"`
	CreatedAt     time.Time `json:"created_at"`
}
