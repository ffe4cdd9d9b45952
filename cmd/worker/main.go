package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/centersguide/centersguide/internal/app"
	"github.com/centersguide/centersguide/internal/centers"
	jobmetrics "github.com/centersguide/centersguide/internal/jobs"
	"github.com/centersguide/centersguide/internal/platform/cache"
	"github.com/centersguide/centersguide/internal/platform/db"
	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/teachers"
	"github.com/centersguide/centersguide/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(prometheus.DefaultRegisterer)

	var mailer jobs.Mailer = jobs.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom)
	if cfg.SMTPHost == "" {
		mailer = jobs.LogMailer{Logger: logger}
	}

	centerService := centers.NewService(centers.ServiceConfig{
		Repo:     centers.NewRepository(pool),
		Teachers: teachers.NewService(teachers.NewRepository(pool)),
		Weeks:    schedules.NewService(schedules.NewRepository(pool)),
		Cache:    centers.NewCache(redisClient, cfg.CentersCacheTTL),
		Logger:   logger,
	})

	emailJob := &jobs.EmailJob{Mailer: mailer, Logger: logger, Metrics: metrics}
	roleJob := &jobs.RoleNotifyJob{Mailer: mailer, SiteURL: cfg.SiteURL, Logger: logger, Metrics: metrics}
	warmupJob := &jobs.CentersWarmupJob{Warmer: centerService, Logger: logger, Metrics: metrics}

	warmupTask, err := jobs.NewCentersWarmupTask("cron")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts.AsynqOpt(),
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: emailJob.Handle},
			{Type: jobs.TaskRoleChanged, Handler: roleJob.Handle},
			{Type: jobs.TaskCentersWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
