package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

const healthCheckTimeout = 5 * time.Second

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	svc       *dashboard.Service
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(svc *dashboard.Service, name, version string) *SystemHandler {
	return &SystemHandler{
		svc:       svc,
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name                  string `json:"name"`
	Version               string `json:"version"`
	GoVersion             string `json:"go_version"`
	Uptime                string `json:"uptime"`
	PredictionsConfigured bool   `json:"predictions_configured"`
}

// CacheHealth reports cache counters
type CacheHealth struct {
	Backend  string  `json:"backend"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Entries  int64   `json:"entries"`
	HitRatio float64 `json:"hit_ratio"`
}

// HealthResponse reports the service and its warehouse connection
type HealthResponse struct {
	Status    string      `json:"status"`
	Warehouse string      `json:"warehouse"`
	Cache     CacheHealth `json:"cache"`
	Timestamp string      `json:"timestamp"`
}

// Health checks the warehouse connection. It answers 503 when the warehouse
// is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	stats := h.svc.CacheStats()
	resp := HealthResponse{
		Status:    "healthy",
		Warehouse: "up",
		Cache: CacheHealth{
			Backend:  stats.Backend,
			Hits:     stats.Hits,
			Misses:   stats.Misses,
			Entries:  stats.Entries,
			HitRatio: stats.HitRatio(),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := h.svc.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Warehouse = "down"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.NewSuccessResponse(resp))
}

// GetSystemInfo returns version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:                  h.name,
		Version:               h.version,
		GoVersion:             runtime.Version(),
		Uptime:                time.Since(h.startTime).Round(time.Second).String(),
		PredictionsConfigured: h.svc.PredictionsConfigured(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping answers without touching any data source
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
