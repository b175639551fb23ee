package notes

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

// Handler wires HTTP handlers to the service. Notes are nested under their
// parent entity routes.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches note routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates/:id/notes", h.listFor(EntityCandidate))
	rg.POST("/candidates/:id/notes", h.createFor(EntityCandidate))
	rg.PUT("/candidates/:id/notes/:noteId", h.update)
	rg.DELETE("/candidates/:id/notes/:noteId", h.remove)

	rg.GET("/jobs/:id/notes", h.listFor(EntityJob))
	rg.POST("/jobs/:id/notes", h.createFor(EntityJob))
	rg.PUT("/jobs/:id/notes/:noteId", h.update)
	rg.DELETE("/jobs/:id/notes/:noteId", h.remove)
}

type noteRequest struct {
	Content string `json:"content"`
}

func (h *Handler) createFor(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req noteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}

		companyID := middleware.CompanyIDFromContext(c)
		authorID := middleware.UserIDFromContext(c)
		entityID := c.Param("id")

		n, err := h.Svc.Create(c.Request.Context(), companyID, entityType, entityID, authorID, req.Content)
		if err != nil {
			writeError(c, err, "failed to create note")
			return
		}

		ws.NotifyChanged(n.CompanyID, "notes", n.ID, "created")
		respond.JSON(c, http.StatusCreated, n)
	}
}

func (h *Handler) listFor(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := middleware.CompanyIDFromContext(c)
		entityID := c.Param("id")

		out, err := h.Svc.List(c.Request.Context(), companyID, entityType, entityID)
		if err != nil {
			writeError(c, err, "failed to list notes")
			return
		}
		respond.OK(c, out)
	}
}

func (h *Handler) update(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("noteId")

	n, err := h.Svc.Update(c.Request.Context(), companyID, id, req.Content)
	if err != nil {
		writeError(c, err, "failed to update note")
		return
	}

	ws.NotifyChanged(n.CompanyID, "notes", n.ID, "updated")
	respond.OK(c, n)
}

func (h *Handler) remove(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("noteId")

	if err := h.Svc.Delete(c.Request.Context(), companyID, id); err != nil {
		writeError(c, err, "failed to delete note")
		return
	}

	ws.NotifyChanged(companyID, "notes", id, "deleted")
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "note not found", nil)
	case errors.Is(err, candidates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", fallback, nil)
	}
}
