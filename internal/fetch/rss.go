package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/rickgao/newswire/internal/model"
	"github.com/rickgao/newswire/internal/rules"
)

// FeedSource is one RSS/Atom feed with its reliability tier.
type FeedSource struct {
	URL  string
	Tier model.SourceTier
}

// RSSConfig holds RSS fetcher settings.
type RSSConfig struct {
	Sources []FeedSource
	Workers int           // Max concurrent feed fetches (default 4)
	Timeout time.Duration // Per-feed HTTP timeout (default 30s)
}

// RSSFetcher gathers items from a set of feeds with bounded concurrency.
type RSSFetcher struct {
	cfg        RSSConfig
	httpClient *http.Client
	logger     *slog.Logger

	breakingTerms []string
}

// NewRSSFetcher creates an RSSFetcher.
func NewRSSFetcher(cfg RSSConfig, logger *slog.Logger) *RSSFetcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RSSFetcher{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:        logger,
		breakingTerms: rules.BreakingTerms(),
	}
}

// Fetch pulls every configured feed concurrently and returns the combined
// batch ordered by publication time (items without one sort first), so the
// pipeline sees a deterministic fetch order. A failing feed is logged and
// skipped; Fetch only errors when the context is cancelled.
func (f *RSSFetcher) Fetch(ctx context.Context) ([]model.RawItem, error) {
	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, f.cfg.Workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var items []model.RawItem

	for _, src := range f.cfg.Sources {
		wg.Add(1)
		go func(src FeedSource) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			fetched, err := f.fetchFeed(ctx, src)
			if err != nil {
				f.logger.Warn("failed to fetch feed", "url", src.URL, "err", err)
				return
			}

			mu.Lock()
			items = append(items, fetched...)
			mu.Unlock()
		}(src)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.Before(items[j].PublishedAt)
	})

	f.logger.Debug("rss fetch complete", "feeds", len(f.cfg.Sources), "items", len(items))
	return items, nil
}

// fetchFeed fetches and parses a single feed.
func (f *RSSFetcher) fetchFeed(ctx context.Context, src FeedSource) ([]model.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	sourceID := feed.Title
	if sourceID == "" {
		sourceID = src.URL
	}

	items := make([]model.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := model.RawItem{
			SourceID: sourceID,
			URL:      entry.Link,
			Title:    entry.Title,
			Body:     entry.Description,
			Tier:     src.Tier,
			Breaking: f.isBreaking(entry.Title),
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		items = append(items, item)
	}

	return items, nil
}

// isBreaking flags titles carrying breaking-news markers; RSS has no
// structured field for it.
func (f *RSSFetcher) isBreaking(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range f.breakingTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
