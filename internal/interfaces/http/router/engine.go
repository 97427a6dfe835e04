package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/auth"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/scheduler"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/telemetry"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/handler"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/middleware"
)

const apiPrefix = "/api/v1"

// Deps holds everything the engine serves. Scheduler, Meter, RateLimiter,
// JWT and Keys are optional.
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Service     *dashboard.Service
	Scheduler   *scheduler.Scheduler
	JWT         *auth.JWTService
	Keys        *auth.KeyRing
	Meter       *telemetry.MeterProvider
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware stack and every route
func NewEngine(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// The request id must be set before anything logs.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log, func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", middleware.GetRequestID(c)))
	}))
	engine.Use(logger.GinMiddleware(log))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()
	engine.Use(middleware.Secure(security))

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(cors))

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if d.RateLimiter != nil {
		engine.Use(middleware.RateLimit(d.RateLimiter))
	}
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(d.Meter))

	systemHandler := handler.NewSystemHandler(d.Service, cfg.App.Name, cfg.App.Version)
	engine.GET("/health", systemHandler.Health)
	if d.Meter != nil {
		if h := d.Meter.Handler(); h != nil {
			path := cfg.Telemetry.MetricsPath
			if path == "" {
				path = "/metrics"
			}
			engine.GET(path, gin.WrapH(h))
		}
	}

	var gate []gin.HandlerFunc
	if cfg.Auth.Enabled && d.JWT != nil {
		gate = append(gate, middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService: d.JWT,
			SkipPaths: []string{
				apiPrefix + "/auth/token",
				apiPrefix + "/system/info",
				apiPrefix + "/system/ping",
			},
			Logger: log,
		}))
	}
	api := NewAPI(engine, apiPrefix, gate...)

	api.Mount(NewGroup("/system",
		GET("/info", systemHandler.GetSystemInfo),
		GET("/ping", systemHandler.Ping),
	))
	if d.JWT != nil && d.Keys != nil {
		authHandler := handler.NewAuthHandler(d.JWT, d.Keys)
		api.Mount(NewGroup("/auth", POST("/token", authHandler.IssueToken)))
	}

	overview := handler.NewOverviewHandler(d.Service)
	customers := handler.NewCustomerHandler(d.Service)
	products := handler.NewProductHandler(d.Service)
	predictions := handler.NewPredictionHandler(d.Service)
	basket := handler.NewBasketHandler(d.Service)
	admin := handler.NewAdminHandler(d.Service, d.Scheduler)

	api.Mount(
		NewGroup("/overview",
			GET("/kpis", overview.ListKPIs),
			GET("/kpis/:month", overview.GetMonth),
			GET("/compare", overview.Compare),
			GET("/trend", overview.Trend),
			GET("/summary", overview.Summary),
			GET("/insights", overview.Insights),
		),
		NewGroup("/customers",
			GET("", customers.List),
			GET("/segments", customers.Segments),
			GET("/top", customers.Top),
			GET("/:id", customers.Get),
		),
		NewGroup("/products",
			GET("/categories", products.Categories),
			GET("/categories/revenue", products.CategoryRevenue),
			GET("/rankings", products.Rankings),
			GET("/growth", products.Growth),
			GET("/seasonality", products.Seasonality),
			GET("/compare", products.Compare),
			GET("/insights", products.Insights),
			GET("/:code", products.Get),
		),
		NewGroup("/predictions",
			GET("/months", predictions.Months),
			GET("/customers", predictions.Customers),
			GET("/customers/:id/products", predictions.CustomerProducts),
			GET("/forecast", predictions.Forecast),
		),
		NewGroup("/basket",
			GET("/pairs", basket.Pairs),
			GET("/bundles", basket.Bundles),
			GET("/categories", basket.Categories),
			GET("/strength", basket.Strength),
			GET("/network", basket.Network),
			GET("/lift-histogram", basket.LiftHistogram),
			GET("/confidence-matrix", basket.ConfidenceMatrix),
			GET("/products", basket.Products),
			GET("/cross-sell/:code", basket.CrossSell),
			GET("/insights", basket.Insights),
		),
		NewGroup("/admin",
			POST("/refresh", admin.Refresh),
			GET("/jobs", admin.Jobs),
			GET("/jobs/:id", admin.Job),
		),
	)
	log.Debug("API routes registered", zap.Strings("routes", api.Routes()))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	return engine
}
