package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/kiosklab/visita-gateway/api/swagger"
	"github.com/kiosklab/visita-gateway/internal/handler"
	"github.com/kiosklab/visita-gateway/internal/middleware"
	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/service"
	"github.com/kiosklab/visita-gateway/internal/upstream"
	"github.com/kiosklab/visita-gateway/pkg/cache"
	"github.com/kiosklab/visita-gateway/pkg/config"
	"github.com/kiosklab/visita-gateway/pkg/jobs"
	"github.com/kiosklab/visita-gateway/pkg/logger"
	corsmiddleware "github.com/kiosklab/visita-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/kiosklab/visita-gateway/pkg/middleware/requestid"
	"github.com/kiosklab/visita-gateway/pkg/storage"
)

// @title Visita Gateway API
// @version 1.0.0
// @description Backend-for-frontend gateway for the visitor management portal
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching and distributed scan locks disabled", zap.Error(err))
		redisClient = nil
	}
	store := cache.NewStore(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	client := upstream.New(cfg.Upstream, logr, metricsSvc)

	cacheSvc := service.NewCacheService(store, metricsSvc, cfg.Directory.CacheTTL, logr, redisClient != nil)

	directorySvc := service.NewDirectoryService(client, cacheSvc, cfg.Directory.CacheTTL, logr)
	visitSvc := service.NewVisitService(client, client, directorySvc, validate, logr)
	scanSvc := service.NewScanService(client, client, directorySvc, store, metricsSvc, validate, logr, cfg.Scanner.LockTTL)
	logRetry := jobs.NewQueue("visitor-log", func(ctx context.Context, task jobs.Task) error {
		visitorsID, _ := task.Payload.(string)
		if visitorsID == "" {
			return nil
		}
		return client.RecordVisitorLog(ctx, visitorsID)
	}, jobs.QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: 10 * time.Second, Logger: logr})
	logRetry.Start(context.Background())
	defer logRetry.Stop()

	registrationSvc := service.NewRegistrationService(client, logRetry, validate, logr)
	dashboardSvc := service.NewDashboardService(client, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	authSvc := service.NewAuthService(client, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	reportSvc := service.NewReportService(visitSvc, client, exportStore, signer, validate, logr)

	go cleanupExports(exportStore, cfg.Exports, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	visitHandler := handler.NewVisitHandler(visitSvc)
	scanHandler := handler.NewScanHandler(scanSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, authSvc, metricsSvc, routeHandlers{
		auth:         authHandler,
		visits:       visitHandler,
		scans:        scanHandler,
		registration: registrationHandler,
		directory:    directoryHandler,
		dashboard:    dashboardHandler,
		reports:      reportHandler,
		metrics:      metricsHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("gateway starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("gateway failed", "error", err)
	}
}

type routeHandlers struct {
	auth         *handler.AuthHandler
	visits       *handler.VisitHandler
	scans        *handler.ScanHandler
	registration *handler.RegistrationHandler
	directory    *handler.DirectoryHandler
	dashboard    *handler.DashboardHandler
	reports      *handler.ReportHandler
	metrics      *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, cfg *config.Config, authSvc *service.AuthService, metricsSvc *service.MetricsService, h routeHandlers) {
	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Metrics(metricsSvc))

	// Public surface: the kiosk registers walk-in visitors and reads the
	// directory without a session, and download links carry their own
	// signed token.
	api.POST("/auth/login", h.auth.Login)
	api.POST("/registrations", h.registration.Register)
	api.GET("/visitors/:id", h.registration.Visitor)
	api.GET("/offices", h.directory.Offices)
	api.GET("/professors", h.directory.Professors)
	api.GET("/services", h.directory.Services)
	api.GET("/reports/download/:token", h.reports.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", h.auth.Me)
	authed.POST("/auth/logout", h.auth.Logout)

	authed.GET("/dashboard", h.dashboard.Summary)

	visits := authed.Group("/visits")
	visits.GET("", h.visits.List)
	visits.GET("/today", h.visits.Today)
	visits.GET("/month", h.visits.Month)
	visits.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleGuard), h.visits.Create)

	scans := authed.Group("/scans")
	scans.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleDepartment, models.RoleFaculty), h.scans.Scan)
	scans.POST("/gate", middleware.RequireRoles(models.RoleAdmin, models.RoleGuard), h.scans.Gate)

	reports := authed.Group("/reports")
	reports.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleDepartment), h.reports.Generate)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/users", h.auth.CreateUser)
	admin.GET("/metrics/summary", h.metrics.Snapshot)

	admin.POST("/offices", h.directory.CreateOffice)
	admin.PUT("/offices/:id", h.directory.UpdateOffice)
	admin.DELETE("/offices/:id", h.directory.DeleteOffice)

	admin.POST("/professors", h.directory.CreateProfessor)
	admin.PUT("/professors/:id", h.directory.UpdateProfessor)
	admin.DELETE("/professors/:id", h.directory.DeleteProfessor)

	admin.POST("/services", h.directory.CreateService)
	admin.PUT("/services/:id", h.directory.UpdateService)
	admin.DELETE("/services/:id", h.directory.DeleteService)
}

// cleanupExports prunes generated report files once their download links
// have expired.
func cleanupExports(store *storage.LocalStorage, cfg config.ExportsConfig, logr *zap.Logger) {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		return
	}
	retention := cfg.SignedURLTTL
	if retention <= 0 {
		retention = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		removed, err := store.CleanupOlderThan(retention)
		if err != nil {
			logr.Warn("export cleanup failed", zap.Error(err))
			continue
		}
		if len(removed) > 0 {
			logr.Info("expired report exports removed", zap.Int("count", len(removed)))
		}
	}
}
