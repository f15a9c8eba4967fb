// Package signal turns scored, mapped events plus a current market price
// into directional trading signals.
package signal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/newswire/internal/model"
	"github.com/rickgao/newswire/internal/rules"
)

// Direction thresholds on the sentiment value s in [0, 1].
const (
	buyYesThreshold = 0.6
	buyNoThreshold  = 0.4
)

// Config holds signal generation settings.
type Config struct {
	MaxMove float64 // Cap on expected price move, in probability points
}

// DefaultConfig returns the standard cap of 0.10 probability points.
func DefaultConfig() Config {
	return Config{MaxMove: 0.10}
}

// Generator converts events into signals using the polarity tags of the
// category table. Stateless after construction.
type Generator struct {
	cfg Config
	// lexicon: category -> lowercased keyword -> bias (+1 bullish, -1 bearish)
	lexicon map[string]map[string]int

	now func() time.Time
}

// NewGenerator builds a Generator from the category table's polarity tags.
func NewGenerator(cfg Config, table []rules.Category) *Generator {
	if cfg.MaxMove <= 0 {
		cfg.MaxMove = DefaultConfig().MaxMove
	}

	lexicon := make(map[string]map[string]int, len(table))
	for _, cat := range table {
		tags := make(map[string]int)
		for _, kw := range cat.Keywords {
			if kw.Bias != 0 {
				tags[strings.ToLower(kw.Text)] = kw.Bias
			}
		}
		lexicon[cat.Name] = tags
	}

	return &Generator{cfg: cfg, lexicon: lexicon, now: time.Now}
}

// Generate creates the terminal Signal for one (event, market) pair given
// the market's current YES price. Callers must have resolved the price
// first; price-unavailable pairs never reach this method.
func (g *Generator) Generate(e model.Event, marketID string, currentPrice float64) model.Signal {
	s := g.sentiment(e)

	var dir model.Direction
	switch {
	case s > buyYesThreshold:
		dir = model.BuyYes
	case s < buyNoThreshold:
		dir = model.BuyNo
	default:
		dir = model.Hold
	}

	// Signed move: |s-0.5|*2 scales the cap, sign follows the direction.
	move := (s - 0.5) * 2 * g.cfg.MaxMove
	expected := clamp(currentPrice+move, 0.01, 0.99)

	confidence := clamp((float64(e.UrgencyScore)/10+math.Abs(s-0.5)*2)/2, 0, 1)

	return model.Signal{
		ID:            uuid.New(),
		EventID:       e.ID,
		MarketID:      marketID,
		Direction:     dir,
		Confidence:    confidence,
		CurrentPrice:  currentPrice,
		ExpectedPrice: expected,
		Reasoning:     reasoning(e, s, move),
		CreatedAt:     g.now(),
	}
}

// sentiment returns the lexical polarity value in [0, 1]: the bullish
// fraction of the event's polarity-tagged matched keywords, or 0.5 when none
// are tagged.
func (g *Generator) sentiment(e model.Event) float64 {
	tags := g.lexicon[e.Category]
	if len(tags) == 0 {
		return 0.5
	}

	var bull, bear int
	for _, kw := range e.Keywords {
		switch tags[strings.ToLower(kw)] {
		case 1:
			bull++
		case -1:
			bear++
		}
	}
	if bull+bear == 0 {
		return 0.5
	}
	return float64(bull) / float64(bull+bear)
}

func reasoning(e model.Event, s, move float64) string {
	tone := "neutral"
	if s > 0.5 {
		tone = "bullish"
	} else if s < 0.5 {
		tone = "bearish"
	}
	return fmt.Sprintf("sentiment %.2f (%s); expected move %+.3f; urgency %d/10; keywords: %s",
		s, tone, move, e.UrgencyScore, strings.Join(e.Keywords, ", "))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
