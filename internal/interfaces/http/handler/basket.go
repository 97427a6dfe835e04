package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

// BasketHandler serves market basket analysis
type BasketHandler struct {
	BaseHandler
	svc *dashboard.Service
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(svc *dashboard.Service) *BasketHandler {
	return &BasketHandler{svc: svc}
}

// Pairs returns every association rule
func (h *BasketHandler) Pairs(c *gin.Context) {
	pairs, err := h.svc.BasketPairs(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, pairs, len(pairs), 0)
}

// Bundles returns the best scoring bundles
func (h *BasketHandler) Bundles(c *gin.Context) {
	var q dto.LimitQuery
	if !h.BindQuery(c, &q) {
		return
	}
	bundles, err := h.svc.TopBundles(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bundles)
}

// Categories returns cross-sell statistics per category relationship
func (h *BasketHandler) Categories(c *gin.Context) {
	stats, err := h.svc.CategoryCrossSell(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Strength returns the pair count per association strength
func (h *BasketHandler) Strength(c *gin.Context) {
	dist, err := h.svc.StrengthDistribution(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, dist, len(dist), 0)
}

// Network returns the association graph
func (h *BasketHandler) Network(c *gin.Context) {
	var q dto.NetworkQuery
	if !h.BindQuery(c, &q) {
		return
	}
	net, err := h.svc.Network(c.Request.Context(), q.MinLift)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, net)
}

// LiftHistogram returns the lift distribution
func (h *BasketHandler) LiftHistogram(c *gin.Context) {
	bins, err := h.svc.LiftHistogram(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, bins, len(bins), 0)
}

// ConfidenceMatrix returns the confidence heatmap
func (h *BasketHandler) ConfidenceMatrix(c *gin.Context) {
	m, err := h.svc.ConfidenceMatrix(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, m)
}

// Products lists products with cross-sell rules
func (h *BasketHandler) Products(c *gin.Context) {
	products, err := h.svc.BasketProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, products, len(products), 0)
}

// CrossSell returns recommendations for one product
func (h *BasketHandler) CrossSell(c *gin.Context) {
	var q dto.LimitQuery
	if !h.BindQuery(c, &q) {
		return
	}
	recs, err := h.svc.CrossSell(c.Request.Context(), c.Param("code"), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recs)
}

// Insights returns market level basket statistics
func (h *BasketHandler) Insights(c *gin.Context) {
	sum, err := h.svc.BasketSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sum)
}
