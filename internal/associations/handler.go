package associations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
	"sandra-backend/internal/shared/server/middleware"
	"sandra-backend/internal/shared/server/respond"
	"sandra-backend/internal/ws"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches association routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/associations", h.assign)
	rg.GET("/candidates/:id/associations", h.listForCandidate)
	rg.GET("/jobs/:id/associations", h.listForJob)
	rg.PUT("/associations/:id/status", h.updateStatus)
	rg.DELETE("/associations/:id", h.remove)
}

type assignRequest struct {
	CandidateID string `json:"candidateId" binding:"required"`
	JobID       string `json:"jobId" binding:"required"`
}

func (h *Handler) assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidateId and jobId are required", nil)
		return
	}

	companyID := middleware.CompanyIDFromContext(c)
	userID := middleware.UserIDFromContext(c)

	created, err := h.Svc.Assign(c.Request.Context(), companyID, req.CandidateID, req.JobID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, candidates.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		case errors.Is(err, ErrInactiveParty):
			respond.Error(c, http.StatusConflict, "invalid_state", err.Error(), nil)
		case errors.Is(err, ErrAlreadyAssigned):
			respond.Error(c, http.StatusConflict, "already_assigned", "candidate already assigned to job", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to assign candidate", nil)
		}
		return
	}

	c.Set("candidateId", created.CandidateID)
	c.Set("jobId", created.JobID)
	ws.NotifyChanged(created.CompanyID, "candidateJobs", created.ID, "created")
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) listForCandidate(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	candidateID := c.Param("id")

	out, err := h.Svc.ListForCandidate(c.Request.Context(), companyID, candidateID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list associations", nil)
		return
	}
	c.Set("candidateId", candidateID)
	respond.OK(c, out)
}

func (h *Handler) listForJob(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	jobID := c.Param("id")

	out, err := h.Svc.ListForJob(c.Request.Context(), companyID, jobID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list associations", nil)
		return
	}
	c.Set("jobId", jobID)
	respond.OK(c, out)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "status is required", nil)
		return
	}

	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("id")

	updated, err := h.Svc.UpdateStatus(c.Request.Context(), companyID, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "association not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to update association", nil)
		}
		return
	}

	ws.NotifyChanged(updated.CompanyID, "candidateJobs", updated.ID, "updated")
	respond.OK(c, updated)
}

func (h *Handler) remove(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("id")

	if err := h.Svc.Remove(c.Request.Context(), companyID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "association not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to remove association", nil)
		return
	}

	ws.NotifyChanged(companyID, "candidateJobs", id, "deleted")
	c.Status(http.StatusNoContent)
}
