package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/handler"
	"github.com/noah-isme/silverleaf-workload-api/internal/middleware"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
	"github.com/noah-isme/silverleaf-workload-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/silverleaf-workload-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/silverleaf-workload-api/pkg/middleware/requestid"
)

// routes bundles the handlers mounted by newRouter.
type routes struct {
	auth      *handler.AuthHandler
	dashboard *handler.DashboardHandler
	datasets  *handler.DatasetHandler
	exports   *handler.ExportHandler
	reports   *handler.ReportHandler
	metrics   *handler.MetricsHandler
	tokens    middleware.TokenValidator
	observer  middleware.HTTPObserver
	logger    *zap.Logger
}

func newRouter(cfg *config.Config, rt routes) *gin.Engine {
	if rt.logger == nil {
		rt.logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(rt.logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(rt.observer))

	r.GET("/health", rt.metrics.Health)
	r.GET("/ready", rt.metrics.Ready)
	r.GET("/metrics", rt.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Any("/api/auth/register", rt.auth.Register)
	r.Any("/api/auth/forgot", rt.auth.Forgot)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/login", rt.auth.Login)
	api.GET("/export/:token", rt.reports.DownloadReport)

	secured := api.Group("")
	secured.Use(middleware.JWT(rt.tokens))

	dashboard := secured.Group("/dashboard")
	dashboard.GET("", rt.dashboard.Overview)
	dashboard.GET("/requests", rt.dashboard.Requests)
	dashboard.GET("/team", rt.dashboard.Team)
	dashboard.GET("/calendar", rt.dashboard.Calendar)

	secured.GET("/dataset", rt.datasets.Info)
	datasetAdmin := secured.Group("/dataset", middleware.RequireRoles(models.RoleAdmin))
	datasetAdmin.POST("/reload", middleware.Audit(rt.logger, "reload", "dataset"), rt.datasets.Reload)
	datasetAdmin.POST("/upload", middleware.Audit(rt.logger, "upload", "dataset"), rt.datasets.Upload)
	datasetAdmin.DELETE("/override", middleware.Audit(rt.logger, "clear_override", "dataset"), rt.datasets.ClearOverride)

	secured.GET("/exports/:type", rt.exports.Download)
	secured.POST("/reports/generate", rt.reports.GenerateReport)
	secured.GET("/reports/status/:id", rt.reports.ReportStatus)

	secured.GET("/metrics/system", middleware.RequireRoles(models.RoleAdmin), rt.metrics.System)

	return r
}
