package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/ejournal/backend/internal/application/audit"
	journalapp "github.com/ejournal/backend/internal/application/journal"
	presenceapp "github.com/ejournal/backend/internal/application/presence"
	qualityapp "github.com/ejournal/backend/internal/application/quality"
	siteapp "github.com/ejournal/backend/internal/application/site"
	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/journal"
	"github.com/ejournal/backend/internal/infrastructure/config"
	"github.com/ejournal/backend/internal/infrastructure/event"
	"github.com/ejournal/backend/internal/infrastructure/logger"
	"github.com/ejournal/backend/internal/infrastructure/persistence"
	"github.com/ejournal/backend/internal/infrastructure/scheduler"
	"github.com/ejournal/backend/internal/infrastructure/telemetry"
	"github.com/ejournal/backend/internal/interfaces/http/handler"
	"github.com/ejournal/backend/internal/interfaces/http/middleware"
	"github.com/ejournal/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting work journal engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize distributed tracing, no-op unless enabled
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database with zap-backed GORM logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel,
		logger.WithSlowThreshold(200*time.Millisecond),
		logger.WithIgnoreRecordNotFoundError(true),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.TraceSQL,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	siteRepo := persistence.NewGormSiteRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)
	violationRepo := persistence.NewGormViolationRepository(db.DB)
	auditRecordRepo := persistence.NewGormAuditRecordRepository(db.DB)

	// Geofence index and the proof validator share the engine tunables
	fences := geo.NewFenceIndex()
	validator := geo.NewValidator(geo.ValidatorConfig{
		BoundaryToleranceM:      cfg.Engine.BoundaryToleranceM,
		AccuracyCeilingM:        cfg.Engine.AccuracyCeilingM,
		RelaxedAccuracyCeilingM: cfg.Engine.RelaxedAccuracyCeilingM,
		ProofMaxAge:             cfg.Engine.ProofMaxAge,
	})

	// The technology sequence table may be overridden per deployment
	sequence := journal.DefaultSequenceTable()
	if len(cfg.Engine.SequenceTable) > 0 {
		sequence = make(journal.SequenceTable, len(cfg.Engine.SequenceTable))
		for workType, prereqs := range cfg.Engine.SequenceTable {
			deps := make([]journal.WorkType, 0, len(prereqs))
			for _, p := range prereqs {
				deps = append(deps, journal.WorkType(p))
			}
			sequence[journal.WorkType(workType)] = deps
		}
	}
	if err := sequence.Validate(); err != nil {
		log.Fatal("Invalid technology sequence table", zap.Error(err))
	}

	// Initialize application services
	siteService := siteapp.NewSiteService(siteRepo, sessionRepo, violationRepo, fences, log)
	sessionService := presenceapp.NewSessionService(sessionRepo, siteRepo, fences, validator,
		presenceapp.SessionServiceConfig{
			GraceWindow:  cfg.Engine.GraceWindow,
			LockWait:     cfg.Engine.LockWait,
			StaleTimeout: cfg.Engine.SessionStaleTimeout,
		}, log)
	entryService := journalapp.NewEntryService(entryRepo, siteRepo, fences, validator,
		sessionService, sequence, log)
	violationService := qualityapp.NewViolationService(violationRepo, entryRepo, log)

	// Initialize event bus and subscribe the audit trail to every event
	eventBus := event.NewInMemoryEventBus(log)
	trailHandler := auditapp.NewTrailHandler(auditRecordRepo, log)
	eventBus.Subscribe(trailHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	siteService.SetEventPublisher(eventBus)
	sessionService.SetEventPublisher(eventBus)
	entryService.SetEventPublisher(eventBus)
	violationService.SetEventPublisher(eventBus)

	// Load active site boundaries so claims can be verified immediately
	if err := siteService.WarmFenceIndex(context.Background()); err != nil {
		log.Fatal("Failed to warm fence index", zap.Error(err))
	}

	// Maintenance scheduler: overdue violation sweep and stale session reaper
	maintenanceScheduler := scheduler.NewMaintenanceScheduler(violationService, sessionService, log,
		scheduler.MaintenanceSchedulerConfig{
			Enabled:            cfg.Scheduler.Enabled,
			SweepInterval:      cfg.Scheduler.SweepInterval,
			SessionReapEnabled: cfg.Scheduler.SessionReapEnabled,
			SessionReapEvery:   cfg.Scheduler.SessionReapEvery,
			RunTimeout:         time.Minute,
		})
	if err := maintenanceScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := maintenanceScheduler.Stop(stopCtx); err != nil {
			log.Error("Error stopping maintenance scheduler", zap.Error(err))
		}
	}()
	if cfg.Scheduler.Enabled {
		log.Info("Maintenance scheduler started",
			zap.Duration("sweep_interval", cfg.Scheduler.SweepInterval),
			zap.Bool("session_reap_enabled", cfg.Scheduler.SessionReapEnabled),
			zap.Duration("session_reap_every", cfg.Scheduler.SessionReapEvery),
		)
	}

	// Initialize HTTP handlers
	siteHandler := handler.NewSiteHandler(siteService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	entryHandler := handler.NewEntryHandler(entryService)
	violationHandler := handler.NewViolationHandler(violationService)
	systemHandler := handler.NewSystemHandler()
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceScheduler)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Open a span per request (if telemetry enabled)
	// 4. Logger - Log requests
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	// 9. Person - Extract acting person from the gateway header
	// 10. TracingAttributeInjector - Tag the span with request id and person
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	personConfig := middleware.DefaultPersonConfig()
	personConfig.Logger = log
	engine.Use(middleware.PersonMiddlewareWithConfig(personConfig))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Initialize versioned router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	siteGroup := router.NewDomainGroup("sites", "/sites")
	siteGroup.POST("", siteHandler.Create)
	siteGroup.GET("", siteHandler.List)
	siteGroup.GET("/nearest", siteHandler.Nearest)
	siteGroup.GET("/:id", siteHandler.GetByID)
	siteGroup.PUT("/:id/boundary", siteHandler.PublishBoundary)
	siteGroup.POST("/:id/complete", siteHandler.Complete)
	siteGroup.POST("/:id/retire", siteHandler.Retire)
	siteGroup.GET("/:id/entries", entryHandler.ListBySite)
	siteGroup.GET("/:id/violations", violationHandler.ListBySite)

	presenceGroup := router.NewDomainGroup("presence", "/presence")
	presenceGroup.POST("/claims", sessionHandler.Claim)
	presenceGroup.POST("/sessions/:id/release", sessionHandler.Release)
	presenceGroup.GET("/sessions/:id", sessionHandler.GetByID)

	journalGroup := router.NewDomainGroup("journal", "/journal")
	journalGroup.POST("/entries", entryHandler.Submit)
	journalGroup.GET("/entries/:id", entryHandler.GetByID)
	journalGroup.GET("/entries/:id/violations", violationHandler.ListByEntry)

	qualityGroup := router.NewDomainGroup("quality", "/quality")
	qualityGroup.POST("/violations", violationHandler.Record)
	qualityGroup.POST("/violations/:id/resolve", violationHandler.Resolve)
	qualityGroup.GET("/violations/:id", violationHandler.GetByID)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/info", systemHandler.GetSystemInfo)
	systemGroup.GET("/ping", systemHandler.Ping)
	systemGroup.GET("/maintenance", maintenanceHandler.Status)
	systemGroup.POST("/maintenance/sweep", maintenanceHandler.TriggerSweep)

	r.Register(siteGroup).
		Register(presenceGroup).
		Register(journalGroup).
		Register(qualityGroup).
		Register(systemGroup)
	r.Setup()

	// Create HTTP server with timeouts from config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine so shutdown can be handled gracefully
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// healthHandler reports service and database health
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Error("Health check failed: database unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"checks": gin.H{
					"database": gin.H{"status": "error", "error": err.Error()},
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"checks": gin.H{
				"database": gin.H{"status": "ok"},
			},
		})
	}
}
