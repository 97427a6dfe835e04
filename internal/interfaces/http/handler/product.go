package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

// ProductHandler serves product analytics
type ProductHandler struct {
	BaseHandler
	svc *dashboard.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(svc *dashboard.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Categories lists product categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, categories, len(categories), 0)
}

// Rankings ranks products by a metric
func (h *ProductHandler) Rankings(c *gin.Context) {
	var q dto.RankingQuery
	if !h.BindQuery(c, &q) {
		return
	}
	ranking, err := h.svc.Rankings(c.Request.Context(), q.Metric, q.Category, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ranking)
}

// CategoryRevenue returns revenue per category
func (h *ProductHandler) CategoryRevenue(c *gin.Context) {
	breakdown, err := h.svc.CategoryRevenue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, breakdown, len(breakdown), 0)
}

// Growth returns the fastest growing products
func (h *ProductHandler) Growth(c *gin.Context) {
	var q dto.LimitQuery
	if !h.BindQuery(c, &q) {
		return
	}
	products, err := h.svc.TopGrowing(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, products, len(products), q.Limit)
}

// Seasonality returns monthly demand patterns for ?codes=, or for the top
// products when none are given
func (h *ProductHandler) Seasonality(c *gin.Context) {
	points, err := h.svc.Seasonality(c.Request.Context(), splitCodes(c.Query("codes")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, points, len(points), 0)
}

// Compare compares the monthly demand of several products
func (h *ProductHandler) Compare(c *gin.Context) {
	var q dto.ProductCompareQuery
	if !h.BindQuery(c, &q) {
		return
	}
	cmp, err := h.svc.CompareProducts(c.Request.Context(), splitCodes(q.Codes), q.Months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, cmp, len(cmp), 0)
}

// Insights returns market level product statistics
func (h *ProductHandler) Insights(c *gin.Context) {
	mi, err := h.svc.MarketInsights(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mi)
}

// Get returns one product with its history
func (h *ProductHandler) Get(c *gin.Context) {
	var q dto.ProductDetailQuery
	if !h.BindQuery(c, &q) {
		return
	}
	detail, err := h.svc.GetProduct(c.Request.Context(), c.Param("code"), q.PredictionMonth)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}
