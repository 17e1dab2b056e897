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
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/silverleaf-workload-api/api/swagger"
	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/internal/handler"
	"github.com/noah-isme/silverleaf-workload-api/internal/repository"
	"github.com/noah-isme/silverleaf-workload-api/internal/service"
	"github.com/noah-isme/silverleaf-workload-api/pkg/cache"
	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
	"github.com/noah-isme/silverleaf-workload-api/pkg/database"
	"github.com/noah-isme/silverleaf-workload-api/pkg/jobs"
	"github.com/noah-isme/silverleaf-workload-api/pkg/logger"
	"github.com/noah-isme/silverleaf-workload-api/pkg/storage"
)

// @title Silverleaf Workload API
// @version 1.0.0
// @description Administrative workload analytics: KPIs, SLA, team productivity and exports
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, using in-memory cache and override store", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}

	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Warn("postgres unavailable", zap.Error(err))
			db = nil
		} else {
			defer db.Close() //nolint:errcheck
		}
	}

	metrics := service.NewMetricsService()
	loc := cfg.Location()

	var (
		cacheRepo service.CacheRepository
		overrides service.OverrideRepository
	)
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		overrides = repository.NewRedisOverrideRepository(redisClient, cfg.Override.Key, cfg.Override.TTL)
	} else {
		cacheRepo = repository.NewMemoryCacheRepository()
		overrides = repository.NewMemoryOverrideRepository(cfg.Override.TTL)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	primary, err := repository.DataSourceFromConfig(cfg, db, logr)
	if err != nil {
		logr.Fatal("invalid dataset source", zap.Error(err))
	}
	loader := dataset.NewLoader(logr, dataset.NewSampleSource(dataset.SampleConfig{}), primary)
	datasets := service.NewDatasetService(service.DatasetServiceParams{
		Loader:    loader,
		Overrides: overrides,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Logger:    logr,
		Location:  loc,
	})

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Datasets: datasets,
		Cache:    cacheSvc,
		Logger:   logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:               cfg.Dashboard.CacheTTL,
			SLAThreshold:           cfg.Metrics.SLAThresholdMinutes,
			UseTimestampResolution: cfg.Metrics.UseTimestampResolution,
			HourlyRate:             cfg.Metrics.HourlyRate,
			DefaultAdminRate:       cfg.Metrics.DefaultAdminRate,
			RoleScope:              cfg.Metrics.RoleScope,
			Location:               loc,
		},
	})

	exportStorage, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Datasets: datasets,
		Storage:  exportStorage,
		Signer:   storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL),
		Metrics:  metrics,
		Logger:   logr,
		Config: service.ExportConfig{
			APIPrefix:              cfg.APIPrefix,
			ResultTTL:              cfg.Reports.SignedURLTTL,
			SLAThreshold:           cfg.Metrics.SLAThresholdMinutes,
			UseTimestampResolution: cfg.Metrics.UseTimestampResolution,
			RoleScope:              cfg.Metrics.RoleScope,
			Location:               loc,
		},
	})

	reportRepo := repository.NewReportRepository()
	worker := service.NewReportWorker(reportRepo, exportSvc, metrics, logr)
	var reportSvc *service.ReportService
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
		OnFailure: func(job jobs.Job, err error) {
			reportSvc.MarkExhausted(job, err)
		},
		Observer: func(name string, _ jobs.Job, d time.Duration, err error) {
			metrics.ObserveJobAttempt(name, d, err)
		},
	})
	reportSvc = service.NewReportService(reportRepo, queue, exportSvc, metrics, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	queue.Start(ctx)
	defer queue.Stop()
	reportSvc.StartCleanup(ctx)

	demo, err := repository.DemoUser(cfg.Auth)
	if err != nil {
		logr.Fatal("invalid demo account", zap.Error(err))
	}
	validate := validator.New()
	authSvc := service.NewAuthService(repository.NewUserRepository(demo), validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})

	checks := map[string]handler.ReadinessCheck{
		"dataset": func(ctx context.Context) error {
			if datasets.Current(ctx) == nil {
				return errors.New("no dataset loaded")
			}
			return nil
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	if db != nil {
		checks["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
	}

	maxUpload := cfg.Data.MaxUploadMB << 20
	r := newRouter(cfg, routes{
		auth:      handler.NewAuthHandler(authSvc),
		dashboard: handler.NewDashboardHandler(dashboardSvc),
		datasets:  handler.NewDatasetHandler(datasets, maxUpload),
		exports:   handler.NewExportHandler(exportSvc),
		reports:   handler.NewReportHandler(reportSvc, validate),
		metrics:   handler.NewMetricsHandler(metrics, checks),
		tokens:    authSvc,
		observer:  metrics,
		logger:    logr,
	})
	r.MaxMultipartMemory = maxUpload

	go func() {
		snap := datasets.Current(ctx)
		logr.Info("dataset ready",
			zap.String("source", string(snap.Bundle.Source)),
			zap.Int("requests", len(snap.Bundle.Requests)),
			zap.Int("warnings", len(snap.Warnings)))
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "source", cfg.Data.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}
