package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/avtriage/avtriage/internal/cache"
	"github.com/avtriage/avtriage/internal/config"
	"github.com/avtriage/avtriage/internal/logging"
	"github.com/avtriage/avtriage/internal/metrics"
	"github.com/avtriage/avtriage/internal/middleware"
	"github.com/avtriage/avtriage/internal/probe"
	"github.com/avtriage/avtriage/internal/tracing"
	"github.com/avtriage/avtriage/internal/upload"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
	}

	// Initialize report cache; the service works without it
	var reportCache ReportCache
	if cfg.Cache.Enabled {
		rc, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.TTL)
		if err != nil {
			log.Warnf("Report cache disabled, Redis unavailable: %v", err)
		} else {
			defer rc.Close()
			reportCache = rc
		}
	}

	api := &API{
		prober:    probe.NewProber(cfg.Probe.FFprobePath, cfg.Probe.Timeout),
		validator: upload.NewValidator(cfg.Upload.AllowedExtensions, cfg.Upload.MaxSizeBytes),
		saver:     upload.NewSaver(cfg.Upload.TempDir),
		cache:     reportCache,
		log:       log,
	}

	router := setupRouter(api, cfg, log)

	// Start metrics server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			log.Infof("Starting metrics server on port %d", cfg.Metrics.Port)
			if err := metricsServer.Start(); err != nil {
				log.ErrorWithErr("Metrics server failed", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			metricsServer.Shutdown(ctx)
		}()
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

func setupRouter(api *API, cfg *config.Config, log *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())

	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		router.Use(middleware.RateLimit(rl))
	}

	// Bound multipart memory; larger uploads spill to disk
	router.MaxMultipartMemory = 8 * 1024 * 1024

	router.GET("/ping", api.ping)
	router.POST("/analyze", api.analyze)

	return router
}
