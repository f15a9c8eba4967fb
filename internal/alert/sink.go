package alert

import (
	"log/slog"
	"time"

	"github.com/rickgao/newswire/internal/model"
)

// Tags attached to delivered signals.
const (
	TagActionable    = "actionable"
	TagInformational = "informational"
)

// signalRecord is the journal shape for an emitted signal.
type signalRecord struct {
	Type   string       `json:"type"`
	Tag    string       `json:"tag"`
	Signal model.Signal `json:"signal"`
}

// auditRecord is the journal shape for an event that produced no signal.
type auditRecord struct {
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	EventID   string    `json:"event_id"`
	Category  string    `json:"category"`
	Score     int       `json:"urgency_score"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink delivers signals and audit records to the journal and the log.
// Implements pipeline.SignalHandler and pipeline.Auditor.
type Sink struct {
	journal *Journal
	logger  *slog.Logger
}

// NewSink creates a Sink. journal may be nil (log-only).
func NewSink(journal *Journal, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{journal: journal, logger: logger}
}

// HandleSignal delivers one signal. HOLD is never surfaced as actionable; it
// is journaled and logged as informational only.
func (s *Sink) HandleSignal(sig model.Signal) error {
	tag := TagInformational
	if sig.Direction.Actionable() {
		tag = TagActionable
	}

	if err := s.journal.Write(signalRecord{Type: "signal", Tag: tag, Signal: sig}); err != nil {
		return err
	}

	attrs := []any{
		"tag", tag,
		"market", sig.MarketID,
		"direction", sig.Direction,
		"confidence", sig.Confidence,
		"price", sig.CurrentPrice,
		"expected", sig.ExpectedPrice,
	}
	if tag == TagActionable {
		s.logger.Info("signal", attrs...)
	} else {
		s.logger.Debug("signal", attrs...)
	}
	return nil
}

// HandleAudit records an event that produced no signal.
func (s *Sink) HandleAudit(e model.Event, reason string) {
	rec := auditRecord{
		Type:      "audit",
		Reason:    reason,
		EventID:   e.ID,
		Category:  e.Category,
		Score:     e.UrgencyScore,
		URL:       e.URL,
		Timestamp: e.Timestamp,
	}
	if err := s.journal.Write(rec); err != nil {
		s.logger.Warn("failed to journal audit record", "event", e.ID, "err", err)
	}
}
