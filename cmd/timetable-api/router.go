package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/requestid"
)

type routerDeps struct {
	timetable *handler.TimetableHandler
	metrics   *handler.MetricsHandler
	verifier  *service.TokenVerifier
	observer  *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.observer))

	r.GET("/health", deps.metrics.Health)
	r.GET("/ready", deps.metrics.Ready)
	r.GET("/metrics", deps.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	api := r.Group(prefix)
	api.Use(internalmiddleware.JWT(deps.verifier))

	h := deps.timetable
	timetable := api.Group("/timetable")
	timetable.GET("/load-locked", h.LoadLocked)
	timetable.GET("/view", h.View)
	timetable.POST("/project", h.Project)

	admin := timetable.Group("")
	admin.Use(internalmiddleware.RequireRoles(models.RoleAdmin))
	admin.POST("/generate", h.Generate)
	admin.POST("/save", h.Save)
	admin.GET("/load-last", h.LoadLast)
	admin.GET("/solutions", h.ListSolutions)
	admin.GET("/solutions/:id/export", h.Export)
	admin.GET("/load/:id", h.LoadByID)
	admin.POST("/lock/:id", h.ToggleLock)

	return r
}
