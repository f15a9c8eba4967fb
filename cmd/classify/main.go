// Command classify runs a single headline through the normalizer,
// classifier, and scorer, and prints the score breakdown plus the markets
// it would map to. Debugging tool for tuning the tables.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rickgao/newswire/internal/classify"
	"github.com/rickgao/newswire/internal/dedup"
	"github.com/rickgao/newswire/internal/markets"
	"github.com/rickgao/newswire/internal/model"
	"github.com/rickgao/newswire/internal/normalize"
	"github.com/rickgao/newswire/internal/rules"
	"github.com/rickgao/newswire/internal/score"
)

func main() {
	tier := flag.Int("tier", 3, "source tier (1-3)")
	age := flag.Int("age", int(model.AgeUnknown), "item age in minutes (-1 = unknown)")
	breaking := flag.Bool("breaking", false, "treat the item as flagged breaking")
	flag.Parse()

	title := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if title == "" {
		fmt.Fprintln(os.Stderr, "usage: classify [-tier N] [-age MIN] [-breaking] <headline>")
		os.Exit(2)
	}

	item := model.RawItem{
		SourceID: "cli",
		URL:      "cli://headline",
		Title:    title,
		Tier:     model.SourceTier(*tier),
		Breaking: *breaking,
	}
	if *age >= 0 {
		item.PublishedAt = time.Now().Add(-time.Duration(*age) * time.Minute)
	}

	canonical := normalize.Canonical(item)
	entities := normalize.Entities(item)

	result, ok := classify.New(rules.Categories()).Classify(canonical)
	if !ok {
		fmt.Println("UNCATEGORIZED: no keyword match")
		return
	}

	breakdown := score.Compute(score.Input{
		Category:   result.Category,
		BaseScore:  result.BaseScore,
		Tier:       item.Tier,
		AgeMinutes: item.AgeMinutes(time.Now()),
		Keywords:   append(append([]string{}, result.Matched...), entities...),
		Breaking:   item.Breaking,
	})

	fmt.Printf("category: %s\n", result.Category)
	fmt.Printf("keywords: %s\n", strings.Join(result.Matched, ", "))
	if len(entities) > 0 {
		fmt.Printf("entities: %s\n", strings.Join(entities, ", "))
	}
	fmt.Println(breakdown)

	event := model.Event{
		ID:       dedup.Fingerprint(item.URL, canonical),
		Category: result.Category,
		Keywords: result.Matched,
		Entities: entities,
	}
	if ids := markets.NewMapper(rules.Markets()).Map(event); len(ids) > 0 {
		fmt.Printf("markets: %s\n", strings.Join(ids, ", "))
	} else {
		fmt.Println("markets: none")
	}
}
