package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultCycleInterval       = 2 * time.Minute
	DefaultAlertFloor          = 7
	DefaultPriceTimeout        = 10 * time.Second
	DefaultRetention           = 24 * time.Hour
	DefaultSimilarityThreshold = 0.8
	DefaultEntityWindow        = time.Hour
	DefaultCorroborationWindow = 2 * time.Hour
	DefaultGammaURL            = "https://gamma-api.polymarket.com"
	DefaultGammaTimeout        = 12 * time.Second
	DefaultGammaMaxRetries     = 3
	DefaultGammaRetryBackoff   = time.Second
	DefaultFeedWorkers         = 4
	DefaultFeedTimeout         = 30 * time.Second
	DefaultDBPort              = 5432
	DefaultDBSSLMode           = "prefer"
	DefaultMaxConns            = 5
	DefaultMinConns            = 1
	DefaultReconnectBaseDelay  = 1 * time.Second
	DefaultReconnectMaxDelay   = 60 * time.Second
	DefaultStreamReadTimeout   = 30 * time.Second
	DefaultStreamBufferSize    = 1024
	DefaultMaxMove             = 0.10
)

func (c *ScannerConfig) applyDefaults() {
	// Scanner defaults
	if c.Scanner.CycleInterval == 0 {
		c.Scanner.CycleInterval = DefaultCycleInterval
	}
	if c.Scanner.AlertFloor == 0 {
		c.Scanner.AlertFloor = DefaultAlertFloor
	}
	if c.Scanner.PriceTimeout == 0 {
		c.Scanner.PriceTimeout = DefaultPriceTimeout
	}

	// Dedup defaults
	if c.Dedup.Retention == 0 {
		c.Dedup.Retention = DefaultRetention
	}
	if c.Dedup.SimilarityThreshold == 0 {
		c.Dedup.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.Dedup.EntityWindow == 0 {
		c.Dedup.EntityWindow = DefaultEntityWindow
	}
	if c.Dedup.CorroborationWindow == 0 {
		c.Dedup.CorroborationWindow = DefaultCorroborationWindow
	}

	// Database defaults
	if c.Database.Postgres.Port == 0 {
		c.Database.Postgres.Port = DefaultDBPort
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Database.Postgres.MaxConns == 0 {
		c.Database.Postgres.MaxConns = DefaultMaxConns
	}
	if c.Database.Postgres.MinConns == 0 {
		c.Database.Postgres.MinConns = DefaultMinConns
	}

	// Gamma defaults
	if c.Gamma.URL == "" {
		c.Gamma.URL = DefaultGammaURL
	}
	if c.Gamma.Timeout == 0 {
		c.Gamma.Timeout = DefaultGammaTimeout
	}
	if c.Gamma.MaxRetries == 0 {
		c.Gamma.MaxRetries = DefaultGammaMaxRetries
	}
	if c.Gamma.RetryBackoff == 0 {
		c.Gamma.RetryBackoff = DefaultGammaRetryBackoff
	}

	// Feeds defaults
	if c.Feeds.Workers == 0 {
		c.Feeds.Workers = DefaultFeedWorkers
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = DefaultFeedTimeout
	}

	// Stream defaults
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.ReadTimeout == 0 {
		c.Stream.ReadTimeout = DefaultStreamReadTimeout
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultStreamBufferSize
	}

	// Signals defaults
	if c.Signals.MaxMove == 0 {
		c.Signals.MaxMove = DefaultMaxMove
	}
}
