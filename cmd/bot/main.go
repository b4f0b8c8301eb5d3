package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"linkboard/internal/config"
	"linkboard/internal/metrics"
	"linkboard/internal/ogscraper"
	"linkboard/internal/publisher"
	"linkboard/internal/service"
	"linkboard/internal/slackbot"
	"linkboard/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	version, err := postgres.RunMigrations(db)
	if err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database schema ready", "version", version)

	var events service.Publisher
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	botMetrics := metrics.New(registry)

	scraper := ogscraper.New(ogscraper.Config{
		Timeout:        cfg.Scraper.Timeout,
		UserAgent:      cfg.Scraper.UserAgent,
		MaxAttempts:    cfg.Scraper.MaxAttempts,
		InitialBackoff: cfg.Scraper.InitialBackoff,
		MaxBackoff:     cfg.Scraper.MaxBackoff,
		MaxBodyBytes:   cfg.Scraper.MaxBodyBytes,
	}, logger)

	botCfg := slackbot.Config{
		BotToken:          cfg.Slack.BotToken,
		AppToken:          cfg.Slack.AppToken,
		ArticlesChannelID: cfg.Channels.Articles,
		JobsChannelID:     cfg.Channels.Jobs,
		Debug:             cfg.Slack.Debug,
	}

	client, err := slackbot.NewClient(botCfg)
	if err != nil {
		logger.Error("failed to create slack client", "error", err)
		os.Exit(1)
	}

	submissions := service.NewSubmissionService(
		postgres.NewArticleStore(db),
		postgres.NewJobStore(db),
		scraper,
		slackbot.NewNotifier(client),
		events,
		botMetrics,
		logger,
	)

	bot := slackbot.New(botCfg, client, submissions, botMetrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(ctx)
	})

	if cfg.Metrics.Addr != "" {
		server := metrics.NewServer(cfg.Metrics.Addr, registry, logger)
		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	logger.Info("starting linkboard bot",
		"articles_channel", cfg.Channels.Articles,
		"jobs_channel", cfg.Channels.Jobs,
		"publisher_enabled", events != nil,
		"metrics_addr", cfg.Metrics.Addr,
	)

	if err := g.Wait(); err != nil {
		logger.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("bot stopped")
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
