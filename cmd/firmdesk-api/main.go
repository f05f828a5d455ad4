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
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/firmdesk/firmdesk-api/api/swagger"
	"github.com/firmdesk/firmdesk-api/internal/handler"
	"github.com/firmdesk/firmdesk-api/internal/middleware"
	"github.com/firmdesk/firmdesk-api/internal/models"
	"github.com/firmdesk/firmdesk-api/internal/repository"
	"github.com/firmdesk/firmdesk-api/internal/service"
	"github.com/firmdesk/firmdesk-api/internal/store"
	"github.com/firmdesk/firmdesk-api/pkg/cache"
	"github.com/firmdesk/firmdesk-api/pkg/config"
	"github.com/firmdesk/firmdesk-api/pkg/database"
	"github.com/firmdesk/firmdesk-api/pkg/jobs"
	"github.com/firmdesk/firmdesk-api/pkg/logger"
	corsmiddleware "github.com/firmdesk/firmdesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/firmdesk/firmdesk-api/pkg/middleware/requestid"
)

// @title FirmDesk API
// @version 1.0.0
// @description Scheduling and calendar backend for the FirmDesk practice dashboard
// @BasePath /api/v1
// @schemes http https

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	snapshots := repository.NewSnapshotRepository(redisClient, cfg.Snapshot.Key, logr)
	bus := repository.NewEventBus(redisClient, cfg.Calendar.EventCreatedChannel, logr)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	clientRepo := repository.NewClientRepository(db)
	userRepo := repository.NewUserRepository(db)

	eventStore := store.NewEventStore(snapshots, logr)
	var seed []models.Event
	if cfg.Calendar.SeedEvents {
		seed = store.SeedEvents(time.Now())
	}
	if err := eventStore.Load(ctx, seed); err != nil {
		logr.Fatal("failed to load event store", zap.Error(err))
	}
	sources := store.NewSourceRegistry(store.SeedSources())

	metricsSvc := service.NewMetricsService(func() float64 {
		return float64(eventStore.Len())
	})

	validate := validator.New()
	calendarSvc := service.NewCalendarService(eventStore, sources, bus, validate, logr, nil)
	sourceSvc := service.NewSourceService(sources, cacheRepo, validate, logr)

	var analyticsSvc *service.AnalyticsService
	if cfg.Analytics.Enabled {
		analyticsSvc = service.NewAnalyticsService(eventStore, sources, cacheRepo, cfg.Analytics.CacheTTL, logr, nil)
	} else {
		analyticsSvc = service.NewAnalyticsService(eventStore, sources, nil, cfg.Analytics.CacheTTL, logr, nil)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	clientSvc := service.NewClientService(clientRepo, validate, logr)

	exportSvc := service.NewExportService(calendarSvc, analyticsSvc, "", validate, logr, nil)
	exportQueue := jobs.NewQueue("exports", exportSvc.Process, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportSvc.SetQueue(exportQueue)
	exportQueue.Start(ctx)
	defer exportQueue.Stop()

	// Mirror events announced by sibling processes into the local store.
	incoming := bus.Subscribe(ctx, cfg.Calendar.IngestBuffer)
	go eventStore.Run(ctx, incoming, func(_ models.Event, accepted bool) {
		metricsSvc.RecordIngest(accepted)
	})

	// Periodic write-back of externally ingested events.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Snapshot.FlushSchedule, func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := eventStore.FlushSnapshot(flushCtx)
		metricsSvc.RecordSnapshotFlush(err)
		if err != nil {
			logr.Warn("snapshot flush failed", zap.Error(err))
		}
	}); err != nil {
		logr.Fatal("invalid snapshot flush schedule", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	sourceHandler := handler.NewSourceHandler(sourceSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	clientHandler := handler.NewClientHandler(clientSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/calendar/day", calendarHandler.Day)
		authed.GET("/calendar/week", calendarHandler.Week)
		authed.GET("/calendar/month", calendarHandler.Month)
		authed.GET("/calendar/agenda", calendarHandler.Agenda)

		authed.GET("/events/:id", calendarHandler.GetEvent)

		staff := authed.Group("")
		staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
		{
			staff.POST("/events", calendarHandler.CreateEvent)
			staff.PUT("/events/:id", calendarHandler.UpdateEvent)
			staff.DELETE("/events/:id", calendarHandler.DeleteEvent)
			staff.POST("/events/:id/reschedule", calendarHandler.RescheduleEvent)

			staff.GET("/sources", sourceHandler.List)
			staff.POST("/sources/connect", sourceHandler.Connect)
			staff.POST("/sources/:id/toggle", sourceHandler.Toggle)
			staff.PUT("/sources/:id/color", sourceHandler.SetColor)
			staff.DELETE("/sources/:id", sourceHandler.Disconnect)

			staff.GET("/analytics", analyticsHandler.Report)

			staff.GET("/clients", clientHandler.List)
			staff.GET("/clients/:id", clientHandler.Get)
			staff.POST("/clients", clientHandler.Create)
			staff.PUT("/clients/:id", clientHandler.Update)

			if cfg.Exports.Enabled {
				staff.POST("/exports", exportHandler.Request)
				staff.GET("/exports/:id", exportHandler.Status)
				staff.GET("/exports/:id/download", exportHandler.Download)
			}
		}
	}
	// Calendar clients poll the feed without standard auth headers.
	api.GET("/calendar/feed.ics", middleware.OptionalJWT(authSvc), exportHandler.Feed)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if err := eventStore.FlushSnapshot(shutdownCtx); err != nil {
		logr.Warn("final snapshot flush failed", zap.Error(err))
	}
}
