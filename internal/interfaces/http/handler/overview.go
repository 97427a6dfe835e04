package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

// OverviewHandler serves the monthly KPI views
type OverviewHandler struct {
	BaseHandler
	svc *dashboard.Service
}

// NewOverviewHandler creates a new OverviewHandler
func NewOverviewHandler(svc *dashboard.Service) *OverviewHandler {
	return &OverviewHandler{svc: svc}
}

// ListKPIs returns every month, most recent first
func (h *OverviewHandler) ListKPIs(c *gin.Context) {
	kpis, err := h.svc.ListKPIs(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, kpis, len(kpis), 0)
}

// GetMonth returns one month. "latest" selects the most recent one.
func (h *OverviewHandler) GetMonth(c *gin.Context) {
	key := c.Param("month")
	if key == "latest" {
		key = ""
	}
	kpi, err := h.svc.GetMonth(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kpi)
}

// Compare compares two months
func (h *OverviewHandler) Compare(c *gin.Context) {
	var q dto.CompareMonthsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	cmp, err := h.svc.CompareMonths(c.Request.Context(), q.First, q.Second)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cmp)
}

// Trend returns revenue per month in chronological order
func (h *OverviewHandler) Trend(c *gin.Context) {
	trend, err := h.svc.RevenueTrend(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, trend, len(trend), 0)
}

// Summary returns the all-time statistics
func (h *OverviewHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sum)
}

// Insights returns the generated business insights
func (h *OverviewHandler) Insights(c *gin.Context) {
	insights, err := h.svc.Insights(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, insights, len(insights), 0)
}
