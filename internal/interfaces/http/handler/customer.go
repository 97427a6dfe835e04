package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

// CustomerHandler serves customer segmentation
type CustomerHandler struct {
	BaseHandler
	svc *dashboard.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(svc *dashboard.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// List returns customers by revenue, optionally for one segment
func (h *CustomerHandler) List(c *gin.Context) {
	var q dto.CustomerListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	customers, err := h.svc.ListCustomers(c.Request.Context(), q.Segment, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BaseHandler.List(c, customers, len(customers), q.Limit)
}

// Segments returns the customer count per segment
func (h *CustomerHandler) Segments(c *gin.Context) {
	segments, err := h.svc.Segments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BaseHandler.List(c, segments, len(segments), 0)
}

// Top returns the highest revenue customers
func (h *CustomerHandler) Top(c *gin.Context) {
	var q dto.LimitQuery
	if !h.BindQuery(c, &q) {
		return
	}
	customers, err := h.svc.TopCustomers(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BaseHandler.List(c, customers, len(customers), q.Limit)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.svc.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}
