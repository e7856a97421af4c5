package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modwatch/modwatch/internal/collector"
	"github.com/modwatch/modwatch/internal/config"
	"github.com/modwatch/modwatch/internal/fetch"
	"github.com/modwatch/modwatch/internal/metrics"
	"github.com/modwatch/modwatch/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("modwatch starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"targets", len(cfg.Targets),
		"scrape_interval", cfg.Interval(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Build one fetcher per target with its proxy pair resolved up front.
	// The target set is fixed until restart.
	fetchers := make([]*fetch.Fetcher, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		f, err := fetch.New(t.Label, t.URL, t.EffectiveProxy(cfg.Proxy))
		if err != nil {
			slog.Error("failed to build fetcher", "target", t.Label, "err", err)
			os.Exit(1)
		}
		fetchers = append(fetchers, f)
		slog.Info("registered target", "label", t.Label, "url", f.URL())
	}

	reg := metrics.New()
	coll := collector.New(reg, fetchers, cfg.Interval(), cfg.Verbose)

	// Watch the config file for hot-reload; only the verbose flag is
	// applied live.
	go func() {
		if err := config.Watch(ctx, *configPath, cfg, func(updated *config.Config) {
			coll.SetVerbose(updated.Verbose)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Metrics endpoint — only a bind failure is fatal; an error while
	// serving triggers the normal shutdown path instead.
	srv := server.New(cfg.ListenAddr, reg.Handler())
	if err := srv.Listen(); err != nil {
		slog.Error("failed to listen", "addr", cfg.ListenAddr, "err", err)
		os.Exit(1)
	}
	go func() {
		if err := srv.Run(ctx); err != nil {
			slog.Error("metrics server stopped", "err", err)
			cancel()
		}
	}()

	slog.Info("starting collection loop")
	go coll.Run(ctx)

	<-ctx.Done()
	slog.Info("modwatch shutting down")
}
