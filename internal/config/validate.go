package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ScannerConfig) Validate() error {
	if c.Scanner.ID == "" {
		return errors.New("scanner.id is required")
	}
	if c.Scanner.AlertFloor < 1 || c.Scanner.AlertFloor > 10 {
		return fmt.Errorf("scanner.alert_floor must be between 1 and 10, got %d", c.Scanner.AlertFloor)
	}
	if c.Scanner.CycleInterval <= 0 {
		return errors.New("scanner.cycle_interval must be positive")
	}

	if c.Dedup.SimilarityThreshold <= 0 || c.Dedup.SimilarityThreshold > 1 {
		return fmt.Errorf("dedup.similarity_threshold must be in (0, 1], got %v", c.Dedup.SimilarityThreshold)
	}
	if c.Dedup.Retention <= 0 {
		return errors.New("dedup.retention must be positive")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Signals.MaxMove <= 0 || c.Signals.MaxMove > 0.5 {
		return fmt.Errorf("signals.max_move must be in (0, 0.5], got %v", c.Signals.MaxMove)
	}

	if len(c.Feeds.Sources) == 0 && !c.Stream.Enabled {
		return errors.New("at least one of feeds.sources or stream must be configured")
	}
	for i, src := range c.Feeds.Sources {
		if src.URL == "" {
			return fmt.Errorf("feeds.sources[%d].url is required", i)
		}
		if src.Tier < 0 || src.Tier > 3 {
			return fmt.Errorf("feeds.sources[%d].tier must be between 0 and 3, got %d", i, src.Tier)
		}
	}
	if c.Stream.Enabled && c.Stream.URL == "" {
		return errors.New("stream.url is required when stream.enabled")
	}

	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("categories[%d].name is required", i)
		}
		if cat.BaseScore < 1 || cat.BaseScore > 10 {
			return fmt.Errorf("categories[%d].base_score must be between 1 and 10, got %d", i, cat.BaseScore)
		}
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("categories[%d] must have at least one keyword", i)
		}
	}
	for i, m := range c.Markets {
		if m.ID == "" {
			return fmt.Errorf("markets[%d].id is required", i)
		}
		if len(m.Keywords) == 0 {
			return fmt.Errorf("markets[%d] must have at least one keyword", i)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	return nil
}
