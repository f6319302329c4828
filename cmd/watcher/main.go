// Command watcher runs the article change monitor. In its default mode it
// performs a single pass over the configured sources and exits; with -daemon
// it schedules passes with cron and serves Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"newswatch/internal/config"
	"newswatch/internal/infra/fetcher"
	"newswatch/internal/infra/notifier"
	"newswatch/internal/infra/scraper"
	"newswatch/internal/infra/store"
	"newswatch/internal/observability/logging"
	pkgconfig "newswatch/internal/pkg/config"
	"newswatch/internal/security"
	"newswatch/internal/usecase/watch"
)

const defaultSchedule = "*/30 * * * *"

func main() {
	configPath := flag.String("config", "sources.yaml", "path to the sources configuration file")
	daemon := flag.Bool("daemon", false, "run on a cron schedule instead of a single pass")
	metricsAddr := flag.String("metrics-addr", ":9090", "metrics listen address (daemon mode only)")
	flag.Parse()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	os.Exit(run(*configPath, *daemon, *metricsAddr, logger))
}

func run(configPath string, daemon bool, metricsAddr string, logger *slog.Logger) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}

	urls := validSourceURLs(cfg, logger)
	if len(urls) == 0 {
		logger.Error("no usable sources after validation")
		return 1
	}

	st, cleanup, err := buildStore(cfg.State)
	if err != nil {
		logger.Error("failed to open state store", slog.Any("error", err))
		return 1
	}
	defer cleanup()

	svc := buildService(cfg, st, logger)

	if daemon {
		return runDaemon(svc, urls, metricsAddr, logger)
	}
	return runOnce(context.Background(), svc, urls, logger)
}

// validSourceURLs filters enabled sources through static SSRF validation.
// A bad URL is skipped, not fatal, matching per-source failure isolation.
func validSourceURLs(cfg *config.Config, logger *slog.Logger) []string {
	var urls []string
	for _, u := range cfg.EnabledSourceURLs() {
		if err := security.ValidateURL(u); err != nil {
			logger.Warn("skipping unsafe source URL",
				slog.String("url", u),
				slog.Any("error", err))
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

func buildStore(settings config.StateSettings) (store.Store, func(), error) {
	switch settings.Backend {
	case "sqlite":
		s, err := store.OpenSQLiteStore(settings.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				slog.Error("failed to close sqlite store", slog.Any("error", err))
			}
		}, nil
	default:
		s, err := store.NewFileStore(settings.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func buildService(cfg *config.Config, st store.Store, logger *slog.Logger) *watch.Service {
	fetchConfig := fetcher.DefaultConfig()
	if cfg.Fetch.UserAgent != "" {
		fetchConfig.UserAgent = cfg.Fetch.UserAgent
	}
	if cfg.Fetch.Timeout > 0 {
		fetchConfig.Timeout = cfg.Fetch.Timeout
	}
	if cfg.Fetch.PolitenessDelay > 0 {
		fetchConfig.PolitenessDelay = cfg.Fetch.PolitenessDelay
	}

	safeClient := security.NewSafeClient(fetchConfig.Timeout)
	conditional := fetcher.NewConditional(safeClient, fetchConfig)

	svc := watch.NewService(conditional, scraper.NewPipeline(), st, buildNotifier(logger))
	svc.Parallelism = cfg.Watch.Parallelism
	return svc
}

// buildNotifier assembles the notification fan-out from environment secrets.
// With no webhook configured, notifications are logged via the noop channel.
func buildNotifier(logger *slog.Logger) watch.Notifier {
	var dispatchers []notifier.Dispatcher

	if url := pkgconfig.LoadEnvString("DISCORD_WEBHOOK_URL", ""); url != "" {
		dispatchers = append(dispatchers, notifier.NewDiscordDispatcher(notifier.DiscordConfig{WebhookURL: url}))
		logger.Info("discord channel enabled")
	}
	if url := pkgconfig.LoadEnvString("SLACK_WEBHOOK_URL", ""); url != "" {
		dispatchers = append(dispatchers, notifier.NewSlackDispatcher(notifier.SlackConfig{WebhookURL: url}))
		logger.Info("slack channel enabled")
	}
	if len(dispatchers) == 0 {
		logger.Info("no webhook configured, notifications will be logged only")
		return notifier.NewNoopDispatcher()
	}
	return notifier.NewMultiNotifier(dispatchers...)
}

// runOnce performs a single detection pass. The exit code is non-zero only
// when every source failed.
func runOnce(ctx context.Context, svc *watch.Service, urls []string, logger *slog.Logger) int {
	started := time.Now()
	summary := svc.RunAll(ctx, urls)

	logger.Info("run complete",
		slog.Int("checked", summary.Checked),
		slog.Int("failed", summary.Failed),
		slog.Int("notified", summary.Notified),
		slog.Duration("duration", time.Since(started)))

	if summary.AllFailed() {
		logger.Error("all sources failed")
		return 1
	}
	return 0
}

// runDaemon schedules detection passes with cron and serves metrics until
// interrupted. Scheduling failures within a pass never stop the daemon.
func runDaemon(svc *watch.Service, urls []string, metricsAddr string, logger *slog.Logger) int {
	scheduleResult := pkgconfig.LoadEnvWithFallback("WATCH_SCHEDULE", defaultSchedule, pkgconfig.ValidateCronSchedule)
	for _, w := range scheduleResult.Warnings {
		logger.Warn(w)
	}
	schedule := scheduleResult.Value.(string)

	startMetricsServer(metricsAddr, logger)

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		_ = runOnce(context.Background(), svc, urls, logger)
	}); err != nil {
		logger.Error("failed to register cron job", slog.Any("error", err))
		return 1
	}
	c.Start()
	logger.Info("daemon started",
		slog.String("schedule", schedule),
		slog.Int("sources", len(urls)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", slog.String("signal", sig.String()))

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return 0
}

func startMetricsServer(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	go func() {
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	logger.Info("metrics server started", slog.String("addr", addr))
}
