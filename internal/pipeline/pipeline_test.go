package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rickgao/newswire/internal/classify"
	"github.com/rickgao/newswire/internal/dedup"
	"github.com/rickgao/newswire/internal/markets"
	"github.com/rickgao/newswire/internal/model"
	"github.com/rickgao/newswire/internal/rules"
	"github.com/rickgao/newswire/internal/signal"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakePrices struct {
	prices map[string]float64
	errs   map[string]error
	calls  []string
}

func (f *fakePrices) GetPrice(ctx context.Context, marketID string) (float64, error) {
	f.calls = append(f.calls, marketID)
	if err, ok := f.errs[marketID]; ok {
		return 0, err
	}
	if p, ok := f.prices[marketID]; ok {
		return p, nil
	}
	return 0, ErrPriceNotFound
}

type recorder struct {
	signals []model.Signal
	audits  []string
}

func (r *recorder) HandleSignal(s model.Signal) error {
	r.signals = append(r.signals, s)
	return nil
}

func (r *recorder) HandleAudit(e model.Event, reason string) {
	r.audits = append(r.audits, reason)
}

type memStore struct {
	appended []dedup.Entry
}

func (s *memStore) Load(ctx context.Context) ([]dedup.Entry, error) { return s.appended, nil }
func (s *memStore) Append(ctx context.Context, e dedup.Entry) error {
	s.appended = append(s.appended, e)
	return nil
}
func (s *memStore) Prune(ctx context.Context, cutoff time.Time) error { return nil }

func newTestPipeline(prices *fakePrices, rec *recorder, store dedup.Store) *Pipeline {
	return New(Config{AlertFloor: 7, PriceTimeout: time.Second}, Deps{
		Classifier: classify.New(rules.Categories()),
		Window:     dedup.NewWindow(dedup.DefaultConfig()),
		Store:      store,
		Mapper:     markets.NewMapper(rules.Markets()),
		Generator:  signal.NewGenerator(signal.DefaultConfig(), rules.Categories()),
		Prices:     prices,
		Signals:    rec,
		Audit:      rec,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return testNow },
	})
}

func fedItem() model.RawItem {
	return model.RawItem{
		SourceID:    "reuters",
		URL:         "https://example.com/fed-cuts-rates",
		Title:       "Federal Reserve cuts rates by 50 basis points",
		PublishedAt: testNow.Add(-2 * time.Minute),
		Tier:        model.Tier1,
	}
}

func TestRunCycle_FedStoryProducesBuyYes(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"fed-rate-cut-2026": 0.45}}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	report, err := p.RunCycle(context.Background(), []model.RawItem{fedItem()})
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if report.Signals != 1 {
		t.Fatalf("Signals = %d, want 1", report.Signals)
	}

	sig := rec.signals[0]
	if sig.MarketID != "fed-rate-cut-2026" {
		t.Errorf("MarketID = %q, want fed-rate-cut-2026", sig.MarketID)
	}
	if sig.Direction != model.BuyYes {
		t.Errorf("Direction = %q, want %q", sig.Direction, model.BuyYes)
	}
	if sig.Confidence < 0.7 {
		t.Errorf("Confidence = %v, want >= 0.7", sig.Confidence)
	}
	if sig.CurrentPrice != 0.45 {
		t.Errorf("CurrentPrice = %v, want 0.45", sig.CurrentPrice)
	}
	if sig.ExpectedPrice <= sig.CurrentPrice {
		t.Errorf("ExpectedPrice = %v, want above current for a bullish signal", sig.ExpectedPrice)
	}
}

func TestRunCycle_DuplicateSuppressed(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"fed-rate-cut-2026": 0.45}}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	if _, err := p.RunCycle(context.Background(), []model.RawItem{fedItem()}); err != nil {
		t.Fatalf("first RunCycle() error = %v", err)
	}

	// The same wire story again, a cycle later.
	report, err := p.RunCycle(context.Background(), []model.RawItem{fedItem()})
	if err != nil {
		t.Fatalf("second RunCycle() error = %v", err)
	}
	if report.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Duplicates)
	}
	if len(rec.signals) != 1 {
		t.Errorf("total signals = %d, want 1 (duplicate must not re-alert)", len(rec.signals))
	}
}

func TestRunCycle_DuplicateWithinBatch(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"fed-rate-cut-2026": 0.45}}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	report, err := p.RunCycle(context.Background(), []model.RawItem{fedItem(), fedItem()})
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if report.Signals != 1 || report.Duplicates != 1 {
		t.Errorf("Signals = %d, Duplicates = %d, want 1 and 1", report.Signals, report.Duplicates)
	}
}

func TestRunCycle_UncategorizedItem(t *testing.T) {
	prices := &fakePrices{}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	item := model.RawItem{
		SourceID:    "local-news",
		URL:         "https://example.com/bakery",
		Title:       "Local bakery wins county fair",
		PublishedAt: testNow.Add(-2 * time.Minute),
		Tier:        model.Tier3,
	}
	report, err := p.RunCycle(context.Background(), []model.RawItem{item})
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if report.Uncategorized != 1 {
		t.Errorf("Uncategorized = %d, want 1", report.Uncategorized)
	}
	if len(rec.signals) != 0 {
		t.Errorf("signals = %d, want 0", len(rec.signals))
	}
	if len(prices.calls) != 0 {
		t.Errorf("price lookups = %d, want 0", len(prices.calls))
	}
}

func TestRunCycle_PriceNotFoundIsSkip(t *testing.T) {
	prices := &fakePrices{} // No prices at all: every lookup is not-found.
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	report, err := p.RunCycle(context.Background(), []model.RawItem{fedItem()})
	if err != nil {
		t.Fatalf("RunCycle() error = %v, want nil for a missing price", err)
	}
	if report.PriceSkips != 1 {
		t.Errorf("PriceSkips = %d, want 1", report.PriceSkips)
	}
	if report.Signals != 0 {
		t.Errorf("Signals = %d, want 0", report.Signals)
	}
}

func TestRunCycle_WholeCycleOutageEscalates(t *testing.T) {
	outage := errors.New("connection refused")
	prices := &fakePrices{errs: map[string]error{"fed-rate-cut-2026": outage}}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	_, err := p.RunCycle(context.Background(), []model.RawItem{fedItem()})
	if !errors.Is(err, outage) {
		t.Errorf("RunCycle() error = %v, want wrapped outage error", err)
	}
}

func TestRunCycle_PartialOutageDoesNotEscalate(t *testing.T) {
	outage := errors.New("connection refused")
	prices := &fakePrices{
		prices: map[string]float64{"fed-rate-cut-2026": 0.45},
		errs:   map[string]error{"btc-above-150k-2026": outage},
	}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	btc := model.RawItem{
		SourceID:    "coindesk",
		URL:         "https://example.com/btc-etf",
		Title:       "Bitcoin ETF approval expected this week",
		PublishedAt: testNow.Add(-2 * time.Minute),
		Tier:        model.Tier2,
	}
	report, err := p.RunCycle(context.Background(), []model.RawItem{fedItem(), btc})
	if err != nil {
		t.Fatalf("RunCycle() error = %v, want nil when some lookups succeed", err)
	}
	if report.Signals != 1 {
		t.Errorf("Signals = %d, want 1", report.Signals)
	}
	if report.PriceSkips != 1 {
		t.Errorf("PriceSkips = %d, want 1", report.PriceSkips)
	}
}

func TestRunCycle_MalformedItemsDropped(t *testing.T) {
	prices := &fakePrices{}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	items := []model.RawItem{
		{SourceID: "x", URL: "https://example.com/1"},    // no title
		{SourceID: "x", Title: "Fed cuts rates sharply"}, // no URL
	}
	report, err := p.RunCycle(context.Background(), items)
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if report.Malformed != 2 {
		t.Errorf("Malformed = %d, want 2", report.Malformed)
	}
}

func TestRunCycle_BelowFloorAudited(t *testing.T) {
	prices := &fakePrices{}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	stale := model.RawItem{
		SourceID:    "blog",
		URL:         "https://example.com/netflix",
		Title:       "Netflix streaming catalogue grows",
		PublishedAt: testNow.Add(-90 * time.Minute),
		Tier:        model.Tier3,
	}
	report, err := p.RunCycle(context.Background(), []model.RawItem{stale})
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if report.BelowFloor != 1 {
		t.Errorf("BelowFloor = %d, want 1", report.BelowFloor)
	}
	if len(rec.audits) != 1 || rec.audits[0] != "below alert floor" {
		t.Errorf("audits = %v, want [below alert floor]", rec.audits)
	}
	if len(prices.calls) != 0 {
		t.Errorf("price lookups = %d, want 0 below the floor", len(prices.calls))
	}
}

func TestRunCycle_HoldCountedAndDelivered(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"china-taiwan-action-2026": 0.30}}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	// All matched keywords untagged: neutral sentiment, HOLD.
	item := model.RawItem{
		SourceID:    "ap",
		URL:         "https://example.com/taiwan",
		Title:       "China and Taiwan hold military drills",
		PublishedAt: testNow.Add(-2 * time.Minute),
		Tier:        model.Tier1,
	}
	report, err := p.RunCycle(context.Background(), []model.RawItem{item})
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if report.Held != 1 {
		t.Errorf("Held = %d, want 1", report.Held)
	}
	if len(rec.signals) != 1 {
		t.Fatalf("signals = %d, want 1 (hold is still delivered)", len(rec.signals))
	}
	if rec.signals[0].Direction != model.Hold {
		t.Errorf("Direction = %q, want %q", rec.signals[0].Direction, model.Hold)
	}
	if rec.signals[0].ExpectedPrice != 0.30 {
		t.Errorf("ExpectedPrice = %v, want 0.30 (no expected move on hold)", rec.signals[0].ExpectedPrice)
	}
}

func TestRunCycle_PersistsAcceptedEvents(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"fed-rate-cut-2026": 0.45}}
	rec := &recorder{}
	store := &memStore{}
	p := newTestPipeline(prices, rec, store)

	if _, err := p.RunCycle(context.Background(), []model.RawItem{fedItem(), fedItem()}); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if len(store.appended) != 1 {
		t.Errorf("store appends = %d, want 1 (accepted events only)", len(store.appended))
	}
}

func TestRunCycle_Cancellation(t *testing.T) {
	prices := &fakePrices{}
	rec := &recorder{}
	p := newTestPipeline(prices, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.RunCycle(ctx, []model.RawItem{fedItem()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunCycle() error = %v, want context.Canceled", err)
	}
	if len(rec.signals) != 0 {
		t.Errorf("signals = %d, want 0 after cancellation", len(rec.signals))
	}
}
