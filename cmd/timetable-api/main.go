package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-api/api/swagger"
	"github.com/noah-isme/timetable-api/internal/handler"
	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/cache"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
	"github.com/noah-isme/timetable-api/pkg/jobs"
	"github.com/noah-isme/timetable-api/pkg/logger"
	"github.com/noah-isme/timetable-api/pkg/solver"
	"github.com/noah-isme/timetable-api/pkg/storage"
)

// @title Timetable API
// @version 1.0.0
// @description Generates, stores, publishes and projects school timetables.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	workspaceTTL        = 24 * time.Hour
	workspaceSweepEvery = time.Hour
	shutdownTimeout     = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db, cfg.Database.Driver)
		if err != nil {
			logr.Fatal("failed to build migrator", zap.Error(err))
		}
		version, err := migrator.Up(ctx)
		if err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		logr.Info("database migrated", zap.Int64("version", version))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, published cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	workspaces, err := storage.NewWorkspaceRoot(cfg.Solver.WorkDir)
	if err != nil {
		logr.Fatal("failed to prepare solver workspace", zap.Error(err))
	}
	runner := solver.NewProcessRunner(solver.ProcessConfig{
		Command:       cfg.Solver.Command,
		Args:          cfg.Solver.Args,
		Timeout:       cfg.Solver.Timeout,
		KeepWorkspace: cfg.Solver.KeepWorkspace,
	}, workspaces, logr)

	params := service.TimetableServiceParams{
		Store:       repository.NewTimetableSolutionRepository(db),
		MasterData:  repository.NewMasterDataRepository(db),
		Feasibility: service.NewFeasibilityChecker(logr),
		Solver:      service.NewSolverBridge(runner, cfg.Solver.MaxConcurrent, metricsSvc, logr),
		Exporter:    service.NewExportService(logr, export.NewCSVExporter(), export.NewPDFExporter()),
		Metrics:     metricsSvc,
		Logger:      logr,
		Config:      service.TimetableServiceConfig{PublishedTTL: cfg.Redis.PublishedTTL},
	}
	// Leave Cache unset without redis so lookups are not counted as misses.
	if redisClient != nil {
		params.Cache = cacheRepo
	}
	timetableSvc := service.NewTimetableService(params)

	maintenance := jobs.NewQueue("maintenance", jobs.QueueConfig{MaxRetries: 3, RetryDelay: 30 * time.Second, Logger: logr})
	maintenance.Register(jobs.TypeWorkspaceSweep, func(context.Context, jobs.Job) error {
		removed, err := workspaces.CleanupOlderThan(workspaceTTL)
		if len(removed) > 0 {
			logr.Info("stale solver workspaces removed", zap.Int("count", len(removed)))
		}
		return err
	})
	maintenance.Register(jobs.TypePublishedWarm, func(ctx context.Context, _ jobs.Job) error {
		_, err := timetableSvc.LoadLocked(ctx)
		if appErrors.HasCode(err, appErrors.ErrNoPublished.Code) {
			return nil
		}
		return err
	})
	maintenance.Start(ctx)
	defer maintenance.Stop()
	if err := maintenance.Every(workspaceSweepEvery, jobs.TypeWorkspaceSweep); err != nil {
		logr.Warn("workspace sweep not scheduled", zap.Error(err))
	}
	if redisClient != nil {
		if err := maintenance.Enqueue(jobs.TypePublishedWarm); err != nil {
			logr.Warn("published cache warm-up not queued", zap.Error(err))
		}
	}

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handler.PingerFunc(cacheRepo.Ping)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, logr, routerDeps{
		timetable: handler.NewTimetableHandler(timetableSvc),
		metrics:   handler.NewMetricsHandler(metricsSvc, checks),
		verifier:  service.NewTokenVerifier(cfg.JWT.Secret),
		observer:  metricsSvc,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env), zap.String("db_driver", cfg.Database.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logr.Error("shutdown error", zap.Error(err))
	}
	logr.Info("server stopped")
}
