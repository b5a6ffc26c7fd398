// Package handler exposes the leads module over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devscout_backend/internal/exports"
	"devscout_backend/internal/leads/acquisition"
	"devscout_backend/internal/leads/domain"
	"devscout_backend/internal/leads/outreach"
	"devscout_backend/internal/leads/qualification"
	"devscout_backend/internal/leads/repository"
	"devscout_backend/internal/leads/transport"
	"devscout_backend/platform/httpkit"
	"devscout_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgLeadNotFound     = "lead not found"
)

type Handler struct {
	repo          *repository.Repository
	acquisition   *acquisition.Service
	qualification *qualification.Service
	outreach      *outreach.Service
	exports       *exports.Service
	validate      *validator.Validator

	defaultStartPage int
	defaultPageCount int
}

func New(repo *repository.Repository, acq *acquisition.Service, qual *qualification.Service,
	out *outreach.Service, exp *exports.Service, validate *validator.Validator,
	defaultStartPage, defaultPageCount int) *Handler {
	return &Handler{
		repo:             repo,
		acquisition:      acq,
		qualification:    qual,
		outreach:         out,
		exports:          exp,
		validate:         validate,
		defaultStartPage: defaultStartPage,
		defaultPageCount: defaultPageCount,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)

	rg.POST("/acquire", h.Acquire)
	rg.POST("/qualify", h.Qualify)
	rg.POST("/send", h.SendBatch)
	rg.POST("/:id/send", h.SendOne)

	rg.POST("/:id/request-approval", h.RequestApproval)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)

	rg.POST("/export", h.Export)
}

// RegisterPublicRoutes mounts the unauthenticated approval link endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads/approve", h.HandleApprovalToken)
	rg.GET("/leads/reject", h.HandleApprovalToken)
}

func (h *Handler) List(c *gin.Context) {
	status := domain.LeadStatus(c.Query("status"))
	leads, err := h.repo.ListAll(c.Request.Context(), status)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}
	if leads == nil {
		leads = []*domain.Lead{}
	}
	httpkit.OK(c, leads)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, msgLeadNotFound, nil)
			return
		}
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.repo.UpdateStatus(c.Request.Context(), id, domain.LeadStatus(req.Status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, msgLeadNotFound, nil)
			return
		}
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"status": req.Status})
}

func (h *Handler) Acquire(c *gin.Context) {
	var req transport.AcquireRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}
	if req.StartPage == 0 {
		req.StartPage = h.defaultStartPage
	}
	if req.PageCount == 0 {
		req.PageCount = h.defaultPageCount
	}

	result, err := h.acquisition.Run(c.Request.Context(), req.StartPage, req.PageCount)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Qualify(c *gin.Context) {
	if h.qualification == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "scoring is not configured", nil)
		return
	}

	var req transport.QualifyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	result, err := h.qualification.ScoreBatch(c.Request.Context(), req.Limit)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) SendBatch(c *gin.Context) {
	var req transport.SendRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}
	if req.Limit == 0 {
		req.Limit = 25
	}

	result, err := h.outreach.SendBatch(c.Request.Context(), req.Limit, req.DryRun)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) SendOne(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	dryRun := c.Query("dry_run") == "true"

	result, err := h.outreach.SendLead(c.Request.Context(), id, dryRun)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, msgLeadNotFound, nil)
			return
		}
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) RequestApproval(c *gin.Context) {
	h.approvalAction(c, h.outreach.RequestApproval)
}

func (h *Handler) Approve(c *gin.Context) {
	h.approvalAction(c, h.outreach.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.approvalAction(c, h.outreach.Reject)
}

func (h *Handler) approvalAction(c *gin.Context, action func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := action(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, msgLeadNotFound, nil)
			return
		}
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"result": "recorded"})
}

func (h *Handler) Export(c *gin.Context) {
	if h.exports == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "exports are not configured", nil)
		return
	}
	objectName, err := h.exports.ExportLeads(c.Request.Context())
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"object": objectName})
}

func (h *Handler) HandleApprovalToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing token", nil)
		return
	}

	action, err := h.outreach.HandleToken(c.Request.Context(), token)
	if err != nil {
		httpkit.DomainError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"action": action, "result": "recorded"})
}
