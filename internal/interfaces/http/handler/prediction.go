package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

// PredictionHandler serves the forecast views
type PredictionHandler struct {
	BaseHandler
	svc *dashboard.Service
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(svc *dashboard.Service) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

// Months lists the published prediction months
func (h *PredictionHandler) Months(c *gin.Context) {
	months, err := h.svc.PredictionMonths(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, months, len(months), 0)
}

// Customers lists customers with purchase history
func (h *PredictionHandler) Customers(c *gin.Context) {
	customers, err := h.svc.ForecastCustomers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, customers, len(customers), 0)
}

// CustomerProducts lists the products a customer has bought
func (h *PredictionHandler) CustomerProducts(c *gin.Context) {
	products, err := h.svc.CustomerProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, products, len(products), 0)
}

// Forecast returns one customer-product forecast
func (h *PredictionHandler) Forecast(c *gin.Context) {
	var q dto.ForecastQuery
	if !h.BindQuery(c, &q) {
		return
	}
	fc, err := h.svc.Forecast(c.Request.Context(), q.Month, q.Customer, q.Product)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fc)
}
