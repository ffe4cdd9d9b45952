package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/centersguide/centersguide/cmd/centersguide/cli"
	"github.com/centersguide/centersguide/internal/access"
	"github.com/centersguide/centersguide/internal/admin"
	"github.com/centersguide/centersguide/internal/app"
	"github.com/centersguide/centersguide/internal/auth"
	"github.com/centersguide/centersguide/internal/centers"
	"github.com/centersguide/centersguide/internal/observability"
	"github.com/centersguide/centersguide/internal/platform/cache"
	"github.com/centersguide/centersguide/internal/platform/db"
	"github.com/centersguide/centersguide/internal/roles"
	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/teachers"
	"github.com/centersguide/centersguide/internal/view"
	"github.com/centersguide/centersguide/jobs"
)

const sessionCookie = "centersguide_session"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}

	if len(os.Args) > 1 {
		if err := runCommand(ctx, redisOpts, os.Args[1:]); err != nil {
			logger.Error("command failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, stop, cfg, logger, redisOpts); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger, redisOpts cache.Options) error {
	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient, err := jobs.NewClient(redisOpts.AsynqOpt())
	if err != nil {
		return fmt.Errorf("job client: %w", err)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, sessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	templates, err := view.NewEngine()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	pages := view.NewResponder(templates, csrfManager, logger)

	roleRepo := roles.NewRepository(dbpool)
	roleHub := roles.NewHub(roles.NewResolver(roleRepo, redisClient, logger), cfg.RoleIdleTTL)
	defer roleHub.Close()
	metrics.TrackSubscriptions(roleHub.Active)
	roleService := roles.NewService(roleRepo, redisClient, jobs.NewRoleNotifier(jobClient), logger)

	guard := access.NewGuard(access.GuardConfig{
		Watcher:  roleHub,
		Settle:   cfg.RoleSettleTimeout,
		Recorder: metrics,
		Logger:   logger,
	})

	teacherService := teachers.NewService(teachers.NewRepository(dbpool))
	scheduleService := schedules.NewService(schedules.NewRepository(dbpool))
	centerService := centers.NewService(centers.ServiceConfig{
		Repo:      centers.NewRepository(dbpool),
		Teachers:  teacherService,
		Weeks:     scheduleService,
		Cache:     centers.NewCache(redisClient, cfg.CentersCacheTTL),
		Announcer: roleService,
		Logger:    logger,
	})

	authService := auth.NewService(auth.NewRepository(dbpool), roleRepo)

	inspector := asynq.NewInspector(redisOpts.AsynqOpt())
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Pages:               pages,
		SessionManager:      sessionManager,
		CSRFManager:         csrfManager,
		Guard:               guard,
		AuthHandler:         auth.NewHandler(logger, authService, pages, sessionManager),
		CentersHandler:      centers.NewHandler(logger, centerService, pages),
		ManageHandler:       centers.NewManageHandler(logger, centerService, teacherService, scheduleService, pages),
		CentersAdminHandler: centers.NewAdminHandler(logger, centerService, pages),
		AdminHandler:        admin.NewHandler(logger, roleService, centerService, pages),
		JobHandler:          jobs.NewHandler(inspector, logger),
		Metrics:             metrics,
	})

	if _, err := jobClient.EnqueueCentersWarmup(ctx, "startup"); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Warn("enqueue centers warmup", slog.Any("error", err))
	}

	server := app.NewServer(cfg, router)

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// runCommand handles maintenance subcommands such as "jobs trigger centers:warm".
func runCommand(ctx context.Context, redisOpts cache.Options, args []string) error {
	if args[0] != "jobs" || len(args) < 2 {
		return fmt.Errorf("usage: centersguide [jobs trigger <task>|jobs stats]")
	}
	jobsCLI := cli.NewJobsCLI(redisOpts.AsynqOpt())
	defer jobsCLI.Close()

	switch args[1] {
	case "trigger":
		if len(args) < 3 {
			return errors.New("jobs trigger: task name required")
		}
		info, err := jobsCLI.Trigger(ctx, args[2])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s as %s on %s\n", info.Type, info.ID, info.Queue)
	case "stats":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	default:
		return fmt.Errorf("jobs: unknown command %q", args[1])
	}
	return nil
}
