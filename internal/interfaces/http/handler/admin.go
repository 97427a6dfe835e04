package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/scheduler"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/middleware"
)

const defaultRecentJobs = 20

// RefreshResult reports a dataset refreshed inline
type RefreshResult struct {
	Dataset string `json:"dataset"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// AdminHandler triggers cache refreshes and reports job state
type AdminHandler struct {
	BaseHandler
	svc   *dashboard.Service
	sched *scheduler.Scheduler
}

// NewAdminHandler creates a new AdminHandler. sched may be nil, in which
// case refreshes run inline.
func NewAdminHandler(svc *dashboard.Service, sched *scheduler.Scheduler) *AdminHandler {
	return &AdminHandler{svc: svc, sched: sched}
}

// Refresh queues a refresh job per dataset, or refreshes inline when the
// scheduler is not running
func (h *AdminHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	datasets, err := scheduler.ParseDatasets(req.Datasets)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	if h.sched == nil || !h.sched.Running() {
		h.refreshInline(c, datasets)
		return
	}

	jobs, err := h.sched.Submit(scheduler.TriggerManual, datasets...)
	if err != nil {
		h.schedulerError(c, err)
		return
	}
	h.Accepted(c, jobs)
}

func (h *AdminHandler) refreshInline(c *gin.Context, datasets []scheduler.Dataset) {
	log := logger.Enrich(c.Request.Context(), logger.GetGinLogger(c))
	results := make([]RefreshResult, 0, len(datasets))
	failed := 0
	for _, d := range datasets {
		res := RefreshResult{Dataset: string(d), Status: string(scheduler.JobStatusSuccess)}
		if err := h.svc.Refresh(c.Request.Context(), string(d)); err != nil {
			log.Warn("Inline refresh failed", zap.String("dataset", string(d)), zap.Error(err))
			res.Status = string(scheduler.JobStatusFailed)
			res.Error = err.Error()
			failed++
		}
		results = append(results, res)
	}
	if failed == len(datasets) {
		c.JSON(http.StatusBadGateway, dto.Response{
			Success: false,
			Data:    results,
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeUpstream,
				Message:   "Every refresh failed",
				RequestID: middleware.GetRequestID(c),
			},
		})
		return
	}
	h.List(c, results, len(results), 0)
}

// Jobs lists recent refresh jobs
func (h *AdminHandler) Jobs(c *gin.Context) {
	var q dto.LimitQuery
	if !h.BindQuery(c, &q) {
		return
	}
	if h.sched == nil {
		h.List(c, []scheduler.JobInfo{}, 0, q.Limit)
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultRecentJobs
	}
	jobs := h.sched.Recent(limit)
	h.List(c, jobs, len(jobs), limit)
}

// Job returns one refresh job
func (h *AdminHandler) Job(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Job id must be a UUID")
		return
	}
	if h.sched == nil {
		h.NotFound(c, "Job not found")
		return
	}
	info, err := h.sched.Job(id)
	if err != nil {
		h.schedulerError(c, err)
		return
	}
	h.Success(c, info)
}

func (h *AdminHandler) schedulerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.NotFound(c, "Job not found")
	case errors.Is(err, scheduler.ErrJobQueueFull), errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, err.Error())
	case errors.Is(err, scheduler.ErrUnknownDataset):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
	default:
		h.HandleError(c, err)
	}
}
