// Package rules holds the built-in classification tables: category keyword
// lists with base scores and polarity tags, the default market reference
// table, and breaking-news terms. The tables are plain values so callers
// inject them into the classifier, mapper, and signal generator; tests
// substitute fixtures.
package rules

import "github.com/rickgao/newswire/internal/model"

// Keyword is a single match term with an optional sentiment tag.
// Bias: +1 bullish, -1 bearish, 0 untagged.
type Keyword struct {
	Text string
	Bias int
}

// Category is one row of the classification table. Declaration order matters:
// the classifier breaks ties by table order.
type Category struct {
	Name      string
	BaseScore int
	Keywords  []Keyword
}

// Categories returns the default category table.
func Categories() []Category {
	return []Category{
		{
			Name:      "FED_MONETARY",
			BaseScore: 9,
			Keywords: []Keyword{
				{Text: "fomc"},
				{Text: "fed"},
				{Text: "federal reserve"},
				{Text: "rate cut", Bias: 1},
				{Text: "cuts rates", Bias: 1},
				{Text: "rate hike", Bias: -1},
				{Text: "hikes rates", Bias: -1},
				{Text: "basis points"},
				{Text: "interest rate"},
				{Text: "powell"},
				{Text: "monetary policy"},
				{Text: "inflation", Bias: -1},
				{Text: "cpi"},
				{Text: "jobs report"},
			},
		},
		{
			Name:      "GEOPOLITICS",
			BaseScore: 8,
			Keywords: []Keyword{
				{Text: "russia"},
				{Text: "ukraine"},
				{Text: "china"},
				{Text: "taiwan"},
				{Text: "nato"},
				{Text: "putin"},
				{Text: "invasion", Bias: -1},
				{Text: "military"},
				{Text: "sanctions", Bias: -1},
				{Text: "ceasefire", Bias: 1},
				{Text: "peace talks", Bias: 1},
				{Text: "missile", Bias: -1},
				{Text: "attack", Bias: -1},
			},
		},
		{
			Name:      "POLITICS_US",
			BaseScore: 7,
			Keywords: []Keyword{
				{Text: "trump"},
				{Text: "congress"},
				{Text: "white house"},
				{Text: "executive order"},
				{Text: "senate"},
				{Text: "supreme court"},
				{Text: "impeachment", Bias: -1},
				{Text: "veto", Bias: -1},
				{Text: "signed", Bias: 1},
				{Text: "passed", Bias: 1},
				{Text: "cabinet"},
				{Text: "inauguration"},
			},
		},
		{
			Name:      "CRYPTO",
			BaseScore: 6,
			Keywords: []Keyword{
				{Text: "bitcoin"},
				{Text: "btc"},
				{Text: "ethereum"},
				{Text: "crypto"},
				{Text: "blockchain"},
				{Text: "etf", Bias: 1},
				{Text: "approval", Bias: 1},
				{Text: "halving", Bias: 1},
				{Text: "hack", Bias: -1},
				{Text: "regulation", Bias: -1},
				{Text: "coinbase"},
				{Text: "binance"},
			},
		},
		{
			Name:      "ENTERTAINMENT",
			BaseScore: 5,
			Keywords: []Keyword{
				{Text: "gta"},
				{Text: "rockstar"},
				{Text: "game release", Bias: 1},
				{Text: "release date", Bias: 1},
				{Text: "delayed", Bias: -1},
				{Text: "netflix"},
				{Text: "disney"},
				{Text: "box office"},
				{Text: "streaming"},
			},
		},
	}
}

// Markets returns the default market reference table.
func Markets() []model.MarketRef {
	return []model.MarketRef{
		{ID: "fed-rate-cut-2026", Keywords: []string{"fed", "federal reserve", "fomc", "rate cut", "cuts rates", "basis points", "powell"}},
		{ID: "inflation-above-3-percent", Keywords: []string{"inflation", "cpi"}},
		{ID: "russia-ukraine-ceasefire-2026", Keywords: []string{"russia", "ukraine", "ceasefire", "peace talks"}},
		{ID: "china-taiwan-action-2026", Keywords: []string{"china", "taiwan"}},
		{ID: "trump-approval-above-50", Keywords: []string{"trump", "white house", "executive order"}},
		{ID: "btc-above-150k-2026", Keywords: []string{"bitcoin", "btc", "etf", "halving"}},
		{ID: "eth-above-10k-2026", Keywords: []string{"ethereum"}},
		{ID: "gta6-release-2026", Keywords: []string{"gta", "rockstar", "release date"}},
	}
}

// BreakingTerms returns the title prefixes/markers fetchers use to flag an
// item as breaking when the source carries no explicit metadata.
func BreakingTerms() []string {
	return []string{"breaking", "urgent", "just in", "alert", "developing", "exclusive"}
}
