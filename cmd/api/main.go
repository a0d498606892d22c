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

	_ "github.com/synco-dev/booking-admin-api/api/swagger"
	"github.com/synco-dev/booking-admin-api/internal/handler"
	"github.com/synco-dev/booking-admin-api/internal/middleware"
	"github.com/synco-dev/booking-admin-api/internal/repository"
	"github.com/synco-dev/booking-admin-api/internal/service"
	"github.com/synco-dev/booking-admin-api/pkg/cache"
	"github.com/synco-dev/booking-admin-api/pkg/config"
	"github.com/synco-dev/booking-admin-api/pkg/database"
	"github.com/synco-dev/booking-admin-api/pkg/jobs"
	"github.com/synco-dev/booking-admin-api/pkg/logger"
	"github.com/synco-dev/booking-admin-api/pkg/mailer"
	corsmiddleware "github.com/synco-dev/booking-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/synco-dev/booking-admin-api/pkg/middleware/requestid"
	"github.com/synco-dev/booking-admin-api/pkg/storage"
)

// @title Booking Admin API
// @version 1.0.0
// @description Administrative backend for the class booking platform
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	// Redis is optional: without it the API serves uncached.
	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
		defer cacheRepo.Close() //nolint:errcheck
	}

	uploadsStore, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Fatal("failed to init uploads storage", zap.Error(err))
	}
	exportsStore, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Fatal("failed to init exports storage", zap.Error(err))
	}

	mail := mailer.New(cfg.Mailer, logr)
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	venueRepo := repository.NewVenueRepository(db)
	termRepo := repository.NewTermRepository(db)
	termGroupRepo := repository.NewTermGroupRepository(db)
	scheduleRepo := repository.NewClassScheduleRepository(db)
	sessionRepo := repository.NewClassSessionRepository(db)
	exerciseRepo := repository.NewSessionExerciseRepository(db)
	planGroupRepo := repository.NewSessionPlanGroupRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	resolver := service.NewLevelsResolver(exerciseRepo, logr)
	assembler := service.NewViewAssembler(termRepo, termGroupRepo, planGroupRepo, resolver, logr)

	authSvc := service.NewAuthService(adminRepo, mail, validate, logr, service.AuthConfig{
		TokenSecret:      cfg.JWT.Secret,
		TokenExpiry:      cfg.JWT.Expiration,
		Issuer:           cfg.JWT.Issuer,
		ResetLinkBaseURL: cfg.Reset.LinkBaseURL,
		ResetTokenTTL:    cfg.Reset.TokenTTL,
	})
	adminSvc := service.NewAdminService(adminRepo, authSvc, uploadsStore, validate, logr)
	venueSvc := service.NewVenueService(venueRepo, assembler, cacheSvc, validate, logr)
	termSvc := service.NewTermService(termRepo, assembler, validate, logr)
	termGroupSvc := service.NewTermGroupService(termGroupRepo, validate, logr)
	exerciseSvc := service.NewSessionExerciseService(exerciseRepo, uploadsStore, validate, logr)
	planGroupSvc := service.NewSessionPlanGroupService(planGroupRepo, resolver, uploadsStore, validate, logr)
	scheduleSvc := service.NewClassScheduleService(scheduleRepo, sessionRepo, venueRepo, assembler, notificationRepo, cacheSvc, validate, logr)
	discountSvc := service.NewDiscountService(discountRepo, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, validate, logr)
	activitySvc := service.NewActivityService(activityRepo, logr)
	exportSvc := service.NewExportService(venueRepo, scheduleRepo, discountRepo, adminRepo, exportsStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue := jobs.NewQueue("exports", func(ctx context.Context, job jobs.Job) error {
		req, ok := job.Payload.(service.ExportRequest)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		exportSvc.Process(ctx, job.ID, req)
		return nil
	}, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	exportSvc.SetQueue(queue)

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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, routeDeps{
		auth:          handler.NewAuthHandler(authSvc),
		venues:        handler.NewVenueHandler(venueSvc),
		terms:         handler.NewTermHandler(termSvc),
		termGroups:    handler.NewTermGroupHandler(termGroupSvc),
		schedules:     handler.NewClassScheduleHandler(scheduleSvc),
		exercises:     handler.NewSessionExerciseHandler(exerciseSvc),
		planGroups:    handler.NewSessionPlanGroupHandler(planGroupSvc),
		discounts:     handler.NewDiscountHandler(discountSvc),
		admins:        handler.NewAdminHandler(adminSvc),
		notifications: handler.NewNotificationHandler(notificationSvc),
		activity:      handler.NewActivityHandler(activitySvc),
		exports:       handler.NewExportHandler(exportSvc),
		metrics:       handler.NewMetricsHandler(metricsSvc),
		authSvc:       authSvc,
		activitySvc:   activitySvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("forced shutdown", zap.Error(err))
	}
}

type routeDeps struct {
	auth          *handler.AuthHandler
	venues        *handler.VenueHandler
	terms         *handler.TermHandler
	termGroups    *handler.TermGroupHandler
	schedules     *handler.ClassScheduleHandler
	exercises     *handler.SessionExerciseHandler
	planGroups    *handler.SessionPlanGroupHandler
	discounts     *handler.DiscountHandler
	admins        *handler.AdminHandler
	notifications *handler.NotificationHandler
	activity      *handler.ActivityHandler
	exports       *handler.ExportHandler
	metrics       *handler.MetricsHandler
	authSvc       *service.AuthService
	activitySvc   *service.ActivityService
}

func registerRoutes(r *gin.Engine, cfg *config.Config, deps routeDeps) {
	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", deps.auth.Login)
	auth.POST("/forgot-password", deps.auth.ForgotPassword)
	auth.POST("/reset-password", deps.auth.ResetPassword)

	// The download token is its own credential, so the route stays public.
	api.GET("/exports/download/:token", deps.exports.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(deps.authSvc))

	audit := func(module, action string) gin.HandlerFunc {
		return middleware.Audit(deps.activitySvc, module, action)
	}

	venues := protected.Group("/venues")
	venues.GET("", deps.venues.List)
	venues.GET("/:id", deps.venues.Get)
	venues.POST("", audit("venues", "create"), deps.venues.Create)
	venues.PUT("/:id", audit("venues", "update"), deps.venues.Update)
	venues.DELETE("/:id", audit("venues", "delete"), deps.venues.Delete)

	terms := protected.Group("/terms")
	terms.GET("", deps.terms.List)
	terms.GET("/:id", deps.terms.Get)
	terms.POST("", audit("terms", "create"), deps.terms.Create)
	terms.PUT("/:id", audit("terms", "update"), deps.terms.Update)
	terms.DELETE("/:id", audit("terms", "delete"), deps.terms.Delete)

	termGroups := protected.Group("/term-groups")
	termGroups.GET("", deps.termGroups.List)
	termGroups.GET("/:id", deps.termGroups.Get)
	termGroups.POST("", audit("term-groups", "create"), deps.termGroups.Create)
	termGroups.PUT("/:id", audit("term-groups", "update"), deps.termGroups.Update)
	termGroups.DELETE("/:id", audit("term-groups", "delete"), deps.termGroups.Delete)

	schedules := protected.Group("/class-schedules")
	schedules.GET("", deps.schedules.List)
	schedules.GET("/:id", deps.schedules.Get)
	schedules.GET("/:id/cancelled", deps.schedules.ListCancelled)
	schedules.POST("", audit("class-schedules", "create"), deps.schedules.Create)
	schedules.POST("/:id/cancel", audit("class-schedules", "cancel-session"), deps.schedules.Cancel)
	schedules.PUT("/:id", audit("class-schedules", "update"), deps.schedules.Update)
	schedules.DELETE("/:id", audit("class-schedules", "delete"), deps.schedules.Delete)

	exercises := protected.Group("/session-exercises")
	exercises.GET("", deps.exercises.List)
	exercises.GET("/:id", deps.exercises.Get)
	exercises.POST("", audit("session-exercises", "create"), deps.exercises.Create)
	exercises.PUT("/:id", audit("session-exercises", "update"), deps.exercises.Update)
	exercises.DELETE("/:id", audit("session-exercises", "delete"), deps.exercises.Delete)

	planGroups := protected.Group("/session-plan-groups")
	planGroups.GET("", deps.planGroups.List)
	planGroups.GET("/:id", deps.planGroups.Get)
	planGroups.POST("", audit("session-plan-groups", "create"), deps.planGroups.Create)
	planGroups.PUT("/:id", audit("session-plan-groups", "update"), deps.planGroups.Update)
	planGroups.PATCH("/:id/banner", audit("session-plan-groups", "upload-banner"), deps.planGroups.UploadBanner)
	planGroups.DELETE("/:id", audit("session-plan-groups", "delete"), deps.planGroups.Delete)

	discounts := protected.Group("/discounts")
	discounts.GET("", deps.discounts.List)
	discounts.GET("/:id", deps.discounts.Get)
	discounts.POST("", audit("discounts", "create"), deps.discounts.Create)
	discounts.PUT("/:id", audit("discounts", "update"), deps.discounts.Update)
	discounts.DELETE("/:id", audit("discounts", "delete"), deps.discounts.Delete)

	admins := protected.Group("/admins")
	admins.GET("", deps.admins.List)
	admins.GET("/:id", deps.admins.Get)
	admins.POST("", audit("admins", "create"), deps.admins.Create)
	admins.PUT("/:id", audit("admins", "update"), deps.admins.Update)
	admins.PATCH("/:id/profile", audit("admins", "upload-profile"), deps.admins.UploadProfile)
	admins.PATCH("/:id/status", audit("admins", "set-status"), deps.admins.SetStatus)
	admins.DELETE("/:id", audit("admins", "delete"), deps.admins.Delete)

	notifications := protected.Group("/notifications")
	notifications.GET("", deps.notifications.List)
	notifications.POST("", audit("notifications", "create"), deps.notifications.Create)
	notifications.POST("/mark-read", deps.notifications.MarkRead)

	protected.GET("/activity", deps.activity.List)

	exports := protected.Group("/exports")
	exports.POST("", audit("exports", "request"), deps.exports.Request)
	exports.GET("/:id", deps.exports.Status)

	protected.GET("/metrics/snapshot", deps.metrics.Snapshot)
}
