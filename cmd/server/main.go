package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/bootstrap"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/auth"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/cache"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/scheduler"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/telemetry"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/middleware"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("Starting sales dashboard API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("warehouse", cfg.Warehouse.Backend),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("cache", cfg.Cache.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	dash, err := bootstrap.NewDashboard(ctx, cfg, log, mp)
	if err != nil {
		log.Fatal("Failed to initialize dashboard", zap.Error(err))
	}
	defer func() {
		if err := dash.Close(); err != nil {
			log.Error("Error closing data sources", zap.Error(err))
		}
	}()

	if tiered, ok := dash.Cache.(*cache.Tiered); ok {
		go func() {
			if err := tiered.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Cache invalidation listener stopped", zap.Error(err))
			}
		}()
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(scheduler.Config{
			Workers:         cfg.Scheduler.Workers,
			QueueSize:       cfg.Scheduler.QueueSize,
			JobTimeout:      cfg.Scheduler.JobTimeout,
			RetryAttempts:   cfg.Scheduler.RetryAttempts,
			RetryDelay:      cfg.Scheduler.RetryDelay,
			RefreshInterval: cfg.Scheduler.RefreshInterval,
			WarmOnStart:     cfg.Scheduler.WarmOnStart,
		}, scheduler.JobExecutorFunc(func(ctx context.Context, job *scheduler.Job) error {
			return dash.Service.Refresh(ctx, string(job.Dataset))
		}), log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	} else if cfg.Scheduler.WarmOnStart {
		go func() {
			if err := dash.Service.Warm(ctx); err != nil {
				log.Warn("Cache warm-up incomplete", zap.Error(err))
			}
		}()
	}

	var (
		jwtService *auth.JWTService
		keys       *auth.KeyRing
	)
	if cfg.Auth.Enabled {
		jwtService = auth.NewJWTService(cfg.Auth)
		keys = auth.NewKeyRing(cfg.Auth.AccessKeys)
		log.Info("Access gate enabled", zap.Int("viewers", keys.Len()))
	} else {
		log.Warn("Access gate disabled, the API is public")
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up validator", zap.Error(err))
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	engine := router.NewEngine(router.Deps{
		Config:      cfg,
		Logger:      log,
		Service:     dash.Service,
		Scheduler:   sched,
		JWT:         jwtService,
		Keys:        keys,
		Meter:       mp,
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down metrics", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracing", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
