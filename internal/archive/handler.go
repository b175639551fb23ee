package archive

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sandra-backend/internal/shared/server/middleware"
	"sandra-backend/internal/shared/server/respond"
	"sandra-backend/internal/ws"
)

// Handler exposes the archive engine over HTTP. The engine returns a
// Result plus a classified error; the handler raises the error into a
// status code and passes the Result through.
type Handler struct {
	Engine *Engine
}

// NewHandler constructs a Handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

// RegisterRoutes attaches lifecycle routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/archive", h.archiveJob)
	rg.POST("/jobs/:id/close", h.closeJob)
	rg.POST("/candidates/:id/archive", h.archiveCandidate)
	rg.POST("/candidates/:id/restore", h.restoreCandidate)
	rg.DELETE("/jobs/:id/permanent", h.deleteJob)
	rg.DELETE("/candidates/:id/permanent", h.deleteCandidate)
}

type archiveRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

type closeRequest struct {
	HiredCandidateID string `json:"hiredCandidateId"`
	Notes            string `json:"notes"`
}

func (h *Handler) archiveJob(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "reason is required", nil)
		return
	}

	jobID := c.Param("id")
	companyID := middleware.CompanyIDFromContext(c)
	actorID := middleware.UserIDFromContext(c)

	res, err := h.Engine.ArchiveJob(c.Request.Context(), jobID, actorID, companyID, Reason(req.Reason), req.Notes)
	if err != nil {
		respondEngineError(c, err, "failed to archive job")
		return
	}

	c.Set("jobId", jobID)
	ws.NotifyChanged(companyID, "jobs", jobID, "archived")
	respond.OK(c, res)
}

func (h *Handler) closeJob(c *gin.Context) {
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	jobID := c.Param("id")
	companyID := middleware.CompanyIDFromContext(c)
	actorID := middleware.UserIDFromContext(c)

	res, err := h.Engine.CloseJob(c.Request.Context(), jobID, req.HiredCandidateID, actorID, companyID, req.Notes)
	if err != nil {
		respondEngineError(c, err, "failed to close job")
		return
	}

	c.Set("jobId", jobID)
	ws.NotifyChanged(companyID, "jobs", jobID, "closed")
	ws.NotifyChanged(companyID, "candidateJobs", jobID, "pruned")
	respond.OK(c, res)
}

func (h *Handler) archiveCandidate(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "reason is required", nil)
		return
	}

	candidateID := c.Param("id")
	companyID := middleware.CompanyIDFromContext(c)
	actorID := middleware.UserIDFromContext(c)

	res, err := h.Engine.ArchiveCandidate(c.Request.Context(), candidateID, actorID, companyID, Reason(req.Reason), req.Notes)
	if err != nil {
		respondEngineError(c, err, "failed to archive candidate")
		return
	}

	c.Set("candidateId", candidateID)
	ws.NotifyChanged(companyID, "candidates", candidateID, "archived")
	respond.OK(c, res)
}

func (h *Handler) restoreCandidate(c *gin.Context) {
	candidateID := c.Param("id")
	companyID := middleware.CompanyIDFromContext(c)
	actorID := middleware.UserIDFromContext(c)

	res, err := h.Engine.RestoreCandidate(c.Request.Context(), candidateID, actorID, companyID)
	if err != nil {
		respondEngineError(c, err, "failed to restore candidate")
		return
	}

	c.Set("candidateId", candidateID)
	ws.NotifyChanged(companyID, "candidates", candidateID, "restored")
	ws.NotifyChanged(companyID, "candidateJobs", candidateID, "pruned")
	respond.OK(c, res)
}

func (h *Handler) deleteJob(c *gin.Context) {
	h.permanentlyDelete(c, TypeJob, "jobs")
}

func (h *Handler) deleteCandidate(c *gin.Context) {
	h.permanentlyDelete(c, TypeCandidate, "candidates")
}

func (h *Handler) permanentlyDelete(c *gin.Context, entityType EntityType, collection string) {
	id := c.Param("id")
	companyID := middleware.CompanyIDFromContext(c)
	actorID := middleware.UserIDFromContext(c)

	res, err := h.Engine.PermanentlyDelete(c.Request.Context(), id, entityType, actorID, companyID)
	if err != nil {
		respondEngineError(c, err, "failed to delete "+string(entityType))
		return
	}

	ws.NotifyChanged(companyID, collection, id, "deleted")
	respond.OK(c, res)
}

func respondEngineError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrAccessDenied):
		respond.Error(c, http.StatusForbidden, "access_denied", "invalid company access", nil)
	case errors.Is(err, ErrInvalidState):
		respond.Error(c, http.StatusConflict, "invalid_state", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "entity changed concurrently, retry", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", fallback, nil)
	}
}
