package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"AfriQuoteFeed/internal/collector"
	"AfriQuoteFeed/internal/config"
	"AfriQuoteFeed/internal/ingest"
	"AfriQuoteFeed/internal/logging"
	"AfriQuoteFeed/internal/metrics"
	"AfriQuoteFeed/internal/model"
	"AfriQuoteFeed/internal/notifier"
	"AfriQuoteFeed/internal/persist"
	"AfriQuoteFeed/internal/recorder"
	"AfriQuoteFeed/internal/registry"
	"AfriQuoteFeed/internal/scheduler"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config path] [-daemon] [SYMBOL]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "  no SYMBOL   fetch every registry symbol into yahoo_finance_<date>.json")
	fmt.Fprintln(os.Stderr, "  SYMBOL      fetch one equity or currency pair (e.g. SAFC.CI, EURXOF=X)")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

func main() {
	configFlag := flag.String("config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	daemon := flag.Bool("daemon", false, "run batch fetches on the configured cron schedule")
	flag.Usage = usage
	flag.Parse()

	logging.Setup("info", false)
	if flag.NArg() > 1 || (*daemon && flag.NArg() > 0) {
		usage()
		os.Exit(2)
	}

	// Load config
	config.LoadDotEnv()
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *configFlag != "" {
		cfgPath = *configFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	// Init fetcher: cache -> rate limit -> yahoo
	var fetcher collector.Fetcher = collector.NewYahooFetcher(
		collector.WithBaseURL(cfg.Provider.BaseURL),
		collector.WithUserAgent(firstNonEmpty(cfg.Provider.UserAgent, collector.DefaultUserAgent)),
		collector.WithProxy(cfg.Provider.Proxy),
		collector.WithTimeout(time.Duration(cfg.Provider.TimeoutSec)*time.Second),
		collector.WithNormalizeOptions(collector.NormalizeOptions{ZeroAsMissing: cfg.Fetch.ZeroAsMissing}),
	)
	fetcher = collector.NewLimitedFetcher(fetcher, cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
	if cfg.Fetch.CacheTTLSec > 0 {
		fetcher = collector.NewCachedFetcher(fetcher, time.Duration(cfg.Fetch.CacheTTLSec)*time.Second)
	}
	log.Info().Str("source", fetcher.Name()).Float64("rps", cfg.Fetch.RequestsPerSecond).Int("workers", cfg.Fetch.Concurrency).Msg("data source ready")

	// Init registry
	reg, err := registry.New(cfg.Symbols.Stocks, cfg.Symbols.Currencies)
	if err != nil {
		log.Fatal().Err(err).Msg("symbol registry")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
			log.Warn().Err(err).Msg("create database dir")
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init exporters
	var exporters []persist.Exporter
	for _, format := range cfg.Output.Exports {
		if e := persist.NewExporter(format); e != nil {
			exporters = append(exporters, e)
		}
	}

	in := ingest.New(fetcher, reg, persist.NewWriter(cfg.Output.Dir), rec, ingest.Options{
		StockInterval:    model.Interval(cfg.Fetch.Interval),
		StockRange:       model.Range(cfg.Fetch.Range),
		CurrencyInterval: model.Interval(cfg.Fetch.CurrencyInterval),
		CurrencyRange:    model.Range(cfg.Fetch.CurrencyRange),
		Concurrency:      cfg.Fetch.Concurrency,
		Exporters:        exporters,
	})

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *daemon:
		runDaemon(ctx, cfg, in)
	case flag.NArg() == 1:
		runOne(ctx, in, flag.Arg(0))
	default:
		runAll(ctx, in)
	}
}

func runAll(ctx context.Context, in *ingest.Ingestor) {
	res, report := in.FetchAll(ctx)
	sum := ingest.Summarize(res, report)
	for _, o := range sum.Failures {
		log.Info().Str("symbol", string(o.Symbol)).Str("failure", string(o.Failure())).Msg("not fetched")
	}
	log.Info().
		Int("stocks", len(res.Stocks)).
		Int("currencies", len(res.Currencies)).
		Int("gainers", sum.Gainers).
		Int("losers", sum.Losers).
		Str("snapshot", report.SnapshotPath).
		Msg("data fetch completed")
}

func runOne(ctx context.Context, in *ingest.Ingestor, symbol string) {
	report, err := in.FetchOne(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Msg("fetch one")
		return
	}
	o := report.Outcomes[0]
	if !o.OK() {
		log.Warn().Str("symbol", string(o.Symbol)).Str("failure", string(o.Failure())).Msg("no data, nothing written")
		return
	}
	log.Info().Str("symbol", string(o.Symbol)).Int("points", len(o.Series.Data)).Str("snapshot", report.SnapshotPath).Msg("data fetch completed")
}

func runDaemon(ctx context.Context, cfg *config.Config, in *ingest.Ingestor) {
	// Metrics endpoint
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint listening")
	}

	// Telegram run summaries
	var n scheduler.Notifier
	if cfg.Telegram.BotToken != "" {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Provider.Proxy)
	}

	sched := scheduler.NewScheduler(ctx, in, n)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, executing batch now")
		sched.RunAsync()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("daemon running, press Ctrl+C to stop")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	sched.Stop()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
