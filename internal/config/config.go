// Package config loads and validates scanner configuration from YAML with
// environment-variable expansion. Classification and market tables are part
// of the configuration surface so callers inject them; tests substitute
// fixtures instead of touching globals.
package config

import (
	"time"

	"github.com/rickgao/newswire/internal/model"
	"github.com/rickgao/newswire/internal/rules"
)

// ScannerConfig is the root configuration for a scanner instance.
type ScannerConfig struct {
	Scanner  ScannerSection `yaml:"scanner"`
	Dedup    DedupConfig    `yaml:"dedup"`
	Database DatabaseConfig `yaml:"database"`
	Gamma    GammaConfig    `yaml:"gamma"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Stream   StreamConfig   `yaml:"stream"`
	Signals  SignalsConfig  `yaml:"signals"`

	// Optional table overrides. Empty means the built-in defaults.
	Categories []CategoryConfig  `yaml:"categories"`
	Markets    []model.MarketRef `yaml:"markets"`
}

// ScannerSection identifies the instance and the cycle cadence.
type ScannerSection struct {
	ID             string        `yaml:"id"`
	CycleInterval  time.Duration `yaml:"cycle_interval"`
	AlertFloor     int           `yaml:"alert_floor"`
	PriceTimeout   time.Duration `yaml:"price_timeout"`
	CheckpointPath string        `yaml:"checkpoint_path"`
}

// DedupConfig holds deduplication thresholds.
type DedupConfig struct {
	Retention           time.Duration `yaml:"retention"`
	SimilarityThreshold float64       `yaml:"similarity_threshold"`
	EntityWindow        time.Duration `yaml:"entity_window"`
	CorroborationWindow time.Duration `yaml:"corroboration_window"`
}

// DatabaseConfig holds the PostgreSQL connection for the persisted window.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// GammaConfig holds Polymarket Gamma API settings.
type GammaConfig struct {
	URL          string        `yaml:"url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// FeedConfig is one RSS feed and its reliability tier (1 highest).
type FeedConfig struct {
	URL  string `yaml:"url"`
	Tier int    `yaml:"tier"`
}

// FeedsConfig holds RSS fetcher settings.
type FeedsConfig struct {
	Sources []FeedConfig  `yaml:"sources"`
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// StreamConfig holds the optional firehose WebSocket settings.
type StreamConfig struct {
	Enabled            bool          `yaml:"enabled"`
	URL                string        `yaml:"url"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	BufferSize         int           `yaml:"buffer_size"`
}

// SignalsConfig holds signal generation and journaling settings.
type SignalsConfig struct {
	MaxMove     float64 `yaml:"max_move"`
	JournalPath string  `yaml:"journal_path"`
}

// KeywordConfig is one keyword with an optional polarity tag.
type KeywordConfig struct {
	Text string `yaml:"text"`
	Bias int    `yaml:"bias"`
}

// CategoryConfig is one category table row.
type CategoryConfig struct {
	Name      string          `yaml:"name"`
	BaseScore int             `yaml:"base_score"`
	Keywords  []KeywordConfig `yaml:"keywords"`
}

// CategoryTable returns the configured category table, or the built-in
// defaults when no override is present.
func (c *ScannerConfig) CategoryTable() []rules.Category {
	if len(c.Categories) == 0 {
		return rules.Categories()
	}

	table := make([]rules.Category, 0, len(c.Categories))
	for _, cat := range c.Categories {
		keywords := make([]rules.Keyword, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			keywords = append(keywords, rules.Keyword{Text: kw.Text, Bias: kw.Bias})
		}
		table = append(table, rules.Category{
			Name:      cat.Name,
			BaseScore: cat.BaseScore,
			Keywords:  keywords,
		})
	}
	return table
}

// MarketTable returns the configured market table, or the built-in defaults.
func (c *ScannerConfig) MarketTable() []model.MarketRef {
	if len(c.Markets) == 0 {
		return rules.Markets()
	}
	return c.Markets
}
