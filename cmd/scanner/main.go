package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rickgao/newswire/internal/alert"
	"github.com/rickgao/newswire/internal/classify"
	"github.com/rickgao/newswire/internal/config"
	"github.com/rickgao/newswire/internal/database"
	"github.com/rickgao/newswire/internal/dedup"
	"github.com/rickgao/newswire/internal/fetch"
	"github.com/rickgao/newswire/internal/gamma"
	"github.com/rickgao/newswire/internal/markets"
	"github.com/rickgao/newswire/internal/model"
	"github.com/rickgao/newswire/internal/pipeline"
	sig "github.com/rickgao/newswire/internal/signal"
	"github.com/rickgao/newswire/internal/state"
	"github.com/rickgao/newswire/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/scanner.local.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single cycle and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// .env is optional; config env expansion picks the values up.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	logger.Info("starting scanner",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to the window database.
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"database", cfg.Database.Postgres.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := dedup.NewPGStore(pool)
	if err := store.Init(ctx); err != nil {
		logger.Error("failed to initialize window store", "error", err)
		os.Exit(1)
	}

	dedupCfg := dedup.Config{
		Retention:           cfg.Dedup.Retention,
		SimilarityThreshold: cfg.Dedup.SimilarityThreshold,
		EntityWindow:        cfg.Dedup.EntityWindow,
		CorroborationWindow: cfg.Dedup.CorroborationWindow,
	}

	// Fail closed: a window we cannot read back would cause a duplicate
	// alert storm, so refuse to start instead.
	window, err := dedup.Restore(ctx, store, dedupCfg, time.Now())
	if err != nil {
		logger.Error("refusing to start with unreadable dedup window", "error", err)
		os.Exit(1)
	}
	logger.Info("dedup window restored", "entries", window.Len())

	ckpt, found, err := state.Load(cfg.Scanner.CheckpointPath)
	if err != nil {
		logger.Error("refusing to start with unreadable checkpoint", "error", err)
		os.Exit(1)
	}
	if found {
		logger.Info("checkpoint loaded",
			"last_cycle", ckpt.LastCycleAt,
			"signals_emitted", ckpt.SignalsEmitted,
		)
	}

	// Fetchers.
	var fetchers []fetch.Fetcher
	if len(cfg.Feeds.Sources) > 0 {
		sources := make([]fetch.FeedSource, 0, len(cfg.Feeds.Sources))
		for _, src := range cfg.Feeds.Sources {
			sources = append(sources, fetch.FeedSource{
				URL:  src.URL,
				Tier: model.SourceTier(src.Tier),
			})
		}
		fetchers = append(fetchers, fetch.NewRSSFetcher(fetch.RSSConfig{
			Sources: sources,
			Workers: cfg.Feeds.Workers,
			Timeout: cfg.Feeds.Timeout,
		}, logger.With("component", "rss")))
	}

	if cfg.Stream.Enabled {
		stream := fetch.NewStream(fetch.StreamConfig{
			URL:                cfg.Stream.URL,
			ReconnectBaseDelay: cfg.Stream.ReconnectBaseDelay,
			ReconnectMaxDelay:  cfg.Stream.ReconnectMaxDelay,
			ReadTimeout:        cfg.Stream.ReadTimeout,
			BufferSize:         cfg.Stream.BufferSize,
		}, logger.With("component", "stream"))
		if err := stream.Start(ctx); err != nil {
			logger.Error("failed to start stream", "error", err)
			os.Exit(1)
		}
		defer stream.Close()
		fetchers = append(fetchers, stream)
	}

	// Price source.
	gammaClient := gamma.NewClient(
		cfg.Gamma.URL,
		gamma.WithLogger(logger.With("component", "gamma")),
		gamma.WithTimeout(cfg.Gamma.Timeout),
		gamma.WithRetries(cfg.Gamma.MaxRetries, cfg.Gamma.RetryBackoff),
	)

	// Output sink.
	journal := alert.NewJournal(cfg.Signals.JournalPath)
	defer journal.Close()
	sink := alert.NewSink(journal, logger.With("component", "alert"))

	pipe := pipeline.New(
		pipeline.Config{
			AlertFloor:   cfg.Scanner.AlertFloor,
			PriceTimeout: cfg.Scanner.PriceTimeout,
		},
		pipeline.Deps{
			Classifier: classify.New(cfg.CategoryTable()),
			Window:     window,
			Store:      store,
			Mapper:     markets.NewMapper(cfg.MarketTable()),
			Generator:  sig.NewGenerator(sig.Config{MaxMove: cfg.Signals.MaxMove}, cfg.CategoryTable()),
			Prices:     gammaPrices{client: gammaClient},
			Signals:    sink,
			Audit:      sink,
			Logger:     logger.With("component", "pipeline"),
		},
	)

	logger.Info("scanner running",
		"instance_id", cfg.Scanner.ID,
		"cycle_interval", cfg.Scanner.CycleInterval,
		"alert_floor", cfg.Scanner.AlertFloor,
	)

	// The scheduler lives here, not in the pipeline: one cycle per tick,
	// cycles never overlap.
	runCycle := func() {
		report, err := runOnce(ctx, fetchers, pipe, logger)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("cycle aborted", "error", err)
			return
		}

		ckpt.LastCycleAt = time.Now()
		ckpt.ItemsProcessed += report.Items
		ckpt.SignalsEmitted += int64(report.Signals)
		if err := state.Save(cfg.Scanner.CheckpointPath, ckpt); err != nil {
			logger.Warn("failed to save checkpoint", "error", err)
		}
	}

	runCycle()
	if *once {
		logger.Info("single cycle complete")
		return
	}

	ticker := time.NewTicker(cfg.Scanner.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("scanner stopped")
			return
		case <-ticker.C:
			runCycle()
		}
	}
}

// runOnce gathers one batch from every fetcher and runs it through the
// pipeline.
func runOnce(ctx context.Context, fetchers []fetch.Fetcher, pipe *pipeline.Pipeline, logger *slog.Logger) (pipeline.Report, error) {
	start := time.Now()

	var batch []model.RawItem
	for _, f := range fetchers {
		items, err := f.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return pipeline.Report{}, err
			}
			logger.Warn("fetcher failed, continuing with partial batch", "error", err)
		}
		batch = append(batch, items...)
	}

	report, err := pipe.RunCycle(ctx, batch)
	if err != nil {
		return report, err
	}

	logger.Info("cycle complete",
		"items", report.Items,
		"malformed", report.Malformed,
		"uncategorized", report.Uncategorized,
		"duplicates", report.Duplicates,
		"below_floor", report.BelowFloor,
		"unmapped", report.Unmapped,
		"price_skips", report.PriceSkips,
		"signals", report.Signals,
		"held", report.Held,
		"duration", time.Since(start),
	)
	return report, nil
}

// gammaPrices adapts the Gamma client to the pipeline's price contract.
type gammaPrices struct {
	client *gamma.Client
}

func (g gammaPrices) GetPrice(ctx context.Context, marketID string) (float64, error) {
	price, err := g.client.GetPrice(ctx, marketID)
	if errors.Is(err, gamma.ErrNotFound) {
		return 0, pipeline.ErrPriceNotFound
	}
	return price, err
}
