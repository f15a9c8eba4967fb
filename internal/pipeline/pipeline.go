package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/newswire/internal/classify"
	"github.com/rickgao/newswire/internal/dedup"
	"github.com/rickgao/newswire/internal/markets"
	"github.com/rickgao/newswire/internal/model"
	"github.com/rickgao/newswire/internal/normalize"
	"github.com/rickgao/newswire/internal/score"
	"github.com/rickgao/newswire/internal/signal"
)

// ErrPriceNotFound is the contract error for the price collaborator: the
// market exists in our table but the collaborator has no price for it.
// A skip condition, never escalated.
var ErrPriceNotFound = errors.New("pipeline: price not found")

// PriceSource looks up the current YES price for a market.
type PriceSource interface {
	GetPrice(ctx context.Context, marketID string) (float64, error)
}

// SignalHandler receives emitted signals. HOLD signals are delivered too,
// tagged informational downstream.
type SignalHandler interface {
	HandleSignal(sig model.Signal) error
}

// SignalHandlerFunc is a function adapter for SignalHandler.
type SignalHandlerFunc func(model.Signal) error

func (f SignalHandlerFunc) HandleSignal(s model.Signal) error {
	return f(s)
}

// Auditor receives events that produced no signal, with the reason.
type Auditor interface {
	HandleAudit(e model.Event, reason string)
}

// Config holds pipeline thresholds.
type Config struct {
	AlertFloor   int           // Minimum urgency score to reach the mapper
	PriceTimeout time.Duration // Per-lookup timeout for the price source
}

// DefaultConfig returns standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		AlertFloor:   7,
		PriceTimeout: 10 * time.Second,
	}
}

// Deps are the pipeline's collaborators. Classifier, Mapper, and Generator
// are pure; Window (plus its optional Store) is the only mutable state.
type Deps struct {
	Classifier *classify.Classifier
	Window     *dedup.Window
	Store      dedup.Store // nil disables persistence
	Mapper     *markets.Mapper
	Generator  *signal.Generator
	Prices     PriceSource
	Signals    SignalHandler
	Audit      Auditor // nil disables audit records
	Logger     *slog.Logger
	Now        func() time.Time // nil means time.Now
}

// Report counts what happened to a batch.
type Report struct {
	Items         int
	Malformed     int
	Uncategorized int
	Duplicates    int
	BelowFloor    int
	Unmapped      int
	PriceSkips    int
	Signals       int
	Held          int
}

// Pipeline runs batches of raw items through the full classification,
// scoring, deduplication, mapping, and signal stages.
type Pipeline struct {
	cfg  Config
	deps Deps
}

// New creates a Pipeline.
func New(cfg Config, deps Deps) *Pipeline {
	if cfg.AlertFloor < 1 {
		cfg.AlertFloor = DefaultConfig().AlertFloor
	}
	if cfg.PriceTimeout <= 0 {
		cfg.PriceTimeout = DefaultConfig().PriceTimeout
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{cfg: cfg, deps: deps}
}

// RunCycle processes one batch in fetch order. Per-item failures are logged
// and counted, never fatal; the window only grows by fully-processed events,
// so aborting between items leaves it consistent. The only escalations are
// context cancellation and a price collaborator that was unreachable for the
// entire cycle.
func (p *Pipeline) RunCycle(ctx context.Context, items []model.RawItem) (Report, error) {
	report := Report{Items: len(items)}
	log := p.deps.Logger

	priceAttempts := 0
	priceOutages := 0
	var lastPriceErr error

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		// Malformed input: dropped before the normalizer, counted.
		if item.Title == "" || item.URL == "" {
			report.Malformed++
			log.Warn("dropping malformed item", "source", item.SourceID, "url", item.URL)
			continue
		}

		event, ok := p.buildEvent(item)
		if !ok {
			report.Uncategorized++
			log.Debug("uncategorized item", "url", item.URL, "title", item.Title)
			continue
		}

		entry := dedup.EntryFor(event)
		now := p.deps.Now()

		if p.deps.Window.IsDuplicate(entry, now) {
			report.Duplicates++
			log.Debug("duplicate item suppressed",
				"url", item.URL,
				"category", event.Category,
				"fingerprint", event.ID,
			)
			continue
		}

		// Commit the accepted event before emitting anything for it, so a
		// restart mid-item re-suppresses rather than re-alerts.
		p.deps.Window.Add(entry)
		if p.deps.Store != nil {
			if err := p.deps.Store.Append(ctx, entry); err != nil {
				log.Error("failed to persist window entry",
					"fingerprint", event.ID,
					"err", err,
				)
			}
		}

		if event.UrgencyScore < p.cfg.AlertFloor {
			report.BelowFloor++
			p.audit(event, "below alert floor")
			continue
		}

		marketIDs := p.deps.Mapper.Map(event)
		if len(marketIDs) == 0 {
			report.Unmapped++
			p.audit(event, "no matching market")
			log.Info("event matched no market",
				"category", event.Category,
				"score", event.UrgencyScore,
				"url", event.URL,
			)
			continue
		}

		for _, marketID := range marketIDs {
			priceAttempts++

			price, err := p.lookupPrice(ctx, marketID)
			if err != nil {
				report.PriceSkips++
				if !errors.Is(err, ErrPriceNotFound) {
					priceOutages++
					lastPriceErr = err
				}
				p.audit(event, fmt.Sprintf("price unavailable for %s", marketID))
				log.Warn("skipping signal, price unavailable",
					"market", marketID,
					"event", event.ID,
					"err", err,
				)
				continue
			}

			sig := p.deps.Generator.Generate(event, marketID, price)
			if sig.Direction == model.Hold {
				report.Held++
			}

			if err := p.deps.Signals.HandleSignal(sig); err != nil {
				log.Error("signal handler failed",
					"market", marketID,
					"event", event.ID,
					"err", err,
				)
				continue
			}
			report.Signals++
		}
	}

	// Escalate only when every price lookup in the cycle failed on
	// transport, which means the collaborator is down rather than missing
	// individual markets.
	if priceAttempts > 0 && priceOutages == priceAttempts {
		return report, fmt.Errorf("price source unreachable for entire cycle: %w", lastPriceErr)
	}

	return report, nil
}

// buildEvent runs the pure stages: normalize, classify, score. Returns
// ok=false for uncategorized items.
func (p *Pipeline) buildEvent(item model.RawItem) (model.Event, bool) {
	canonical := normalize.Canonical(item)
	entities := normalize.Entities(item)

	result, ok := p.deps.Classifier.Classify(canonical)
	if !ok {
		return model.Event{}, false
	}

	now := p.deps.Now()
	age := item.AgeMinutes(now)
	fingerprint := dedup.Fingerprint(item.URL, canonical)

	timestamp := item.PublishedAt
	if timestamp.IsZero() {
		timestamp = now
	}

	urgency := score.Urgency(score.Input{
		Category:      result.Category,
		BaseScore:     result.BaseScore,
		Tier:          item.Tier,
		AgeMinutes:    age,
		Corroborating: p.deps.Window.Corroboration(result.Category, fingerprint, now),
		Keywords:      append(append([]string{}, result.Matched...), entities...),
		Breaking:      item.Breaking,
	})

	return model.Event{
		ID:            fingerprint,
		Category:      result.Category,
		Keywords:      result.Matched,
		Entities:      entities,
		UrgencyScore:  urgency,
		Timestamp:     timestamp,
		AgeMinutes:    age,
		URL:           item.URL,
		CanonicalText: canonical,
	}, true
}

func (p *Pipeline) lookupPrice(ctx context.Context, marketID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.PriceTimeout)
	defer cancel()
	return p.deps.Prices.GetPrice(ctx, marketID)
}

func (p *Pipeline) audit(e model.Event, reason string) {
	if p.deps.Audit != nil {
		p.deps.Audit.HandleAudit(e, reason)
	}
}
