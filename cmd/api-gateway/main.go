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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Ehud-Guzman/customerfeedback/api/swagger"
	"github.com/Ehud-Guzman/customerfeedback/internal/handler"
	"github.com/Ehud-Guzman/customerfeedback/internal/middleware"
	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	"github.com/Ehud-Guzman/customerfeedback/internal/repository"
	"github.com/Ehud-Guzman/customerfeedback/internal/service"
	"github.com/Ehud-Guzman/customerfeedback/pkg/cache"
	"github.com/Ehud-Guzman/customerfeedback/pkg/config"
	"github.com/Ehud-Guzman/customerfeedback/pkg/database"
	"github.com/Ehud-Guzman/customerfeedback/pkg/logger"
	corsmiddleware "github.com/Ehud-Guzman/customerfeedback/pkg/middleware/cors"
	reqidmiddleware "github.com/Ehud-Guzman/customerfeedback/pkg/middleware/requestid"
)

// @title Customer Feedback API
// @version 1.0.0
// @description Multi-tenant customer feedback collection and analytics
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr, repository.CacheBreakerConfig{
		ConsecutiveFailures: cfg.Analytics.BreakerFailure,
		OpenTimeout:         cfg.Analytics.BreakerTimeout,
		OnStateChange:       metricsSvc.SetCacheBreakerState,
	})
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled && redisClient != nil)

	analyticsRepo := repository.NewAnalyticsRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	qrTokenRepo := repository.NewQrTokenRepository(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)

	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	tenantSvc := service.NewTenantService(userRepo, orgRepo, service.NewMemoryTenantCache(cfg.Tenant.CacheTTL), logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, surveyRepo, cacheSvc, metricsSvc, logr, service.AnalyticsConfig{
		Location: cfg.Analytics.Location(),
		CacheTTL: cfg.Analytics.CacheTTL,
	})
	exportSvc := service.NewExportService(analyticsSvc, logr, nil, nil)
	submissionSvc := service.NewSubmissionService(surveyRepo, responseRepo, qrTokenRepo, cacheSvc, metricsSvc, validator.New(), logr)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, exportSvc)
	submissionHandler := handler.NewSubmissionHandler(submissionSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	public := api.Group("/public/q")
	public.GET("/:token", submissionHandler.PublicSurvey)
	public.POST("/:token/submit", submissionHandler.PublicSubmit)

	authed := api.Group("", middleware.JWT(authSvc), middleware.Tenant(tenantSvc))
	authed.GET("/analytics/system", middleware.RequireRoles(models.RoleSystemAdmin), metricsHandler.System)

	scoped := authed.Group("", middleware.RequireTenant())
	analytics := scoped.Group("/analytics", middleware.RequireRoles(models.RoleOrgAdmin, models.RoleSystemAdmin))
	analytics.GET("/overview", analyticsHandler.Overview)
	analytics.GET("/trends", analyticsHandler.Trends)
	analytics.GET("/surveys/:surveyId", analyticsHandler.Survey)
	analytics.GET("/surveys/:surveyId/export", analyticsHandler.Export)

	scoped.POST("/staff-feedback/submit",
		middleware.RequireRoles(models.RoleStaff, models.RoleOrgAdmin, models.RoleSystemAdmin),
		submissionHandler.StaffSubmit,
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
