package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/classconduct/conduct-server/internal/config"
	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/epoch"
	"github.com/classconduct/conduct-server/internal/jobs"
	"github.com/classconduct/conduct-server/internal/logging"
	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/notify"
	"github.com/classconduct/conduct-server/internal/observability"
	"github.com/classconduct/conduct-server/internal/score"
	"github.com/classconduct/conduct-server/internal/server"
	"github.com/classconduct/conduct-server/internal/workflow"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sugar, flushLogs, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer flushLogs()

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "conduct-server")
	if err != nil {
		sugar.Warnw("sentry init failed", "err", err)
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// An unreachable directory at startup is the one fatal storage fault.
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("db connect failed", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		sugar.Fatalw("migrations failed", "err", err)
	}
	if cfg.SeedDemo {
		if err := db.SeedDemo(ctx, database); err != nil {
			sugar.Fatalw("seed failed", "err", err)
		}
	}

	notifier, err := notify.New(cfg.BotToken, cfg.AdminIDs, sugar)
	if err != nil {
		sugar.Warnw("telegram notifier disabled", "err", err)
	}

	engine := score.NewEngine(database)
	wf := workflow.New(database, engine)
	wf.OnSubmitted(func(a models.Application) { notifier.ApplicationSubmitted(a) })

	resetter := epoch.NewResetter(database, sugar)
	resetter.OnReset(func(week int) { notifier.WeeklyReset(week) })

	// One reset check at process start; later checks ride on status
	// requests and, optionally, the background recheck.
	if _, err := resetter.RunIfDue(ctx); err != nil {
		sugar.Errorw("startup reset check failed", "err", err)
		observability.CaptureErr(err)
	}
	if cfg.ResetRecheck > 0 {
		runner := jobs.New(ctx, sugar)
		runner.Every(cfg.ResetRecheck, "weekly_reset", func(ctx context.Context) error {
			_, err := resetter.RunIfDue(ctx)
			return err
		})
	}

	srv := server.New(cfg, database, engine, wf, resetter, sugar)
	srv.Start(ctx)
	sugar.Infow("conduct server up", "addr", cfg.HTTPAddr)

	<-ctx.Done()
	sugar.Info("shutting down")
}
