package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sandra-backend/internal/shared/server/middleware"
	"sandra-backend/internal/shared/server/respond"
)

// Handler serves the read side of the activity feed. Writes happen only
// through the Reporter.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches activity routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.list)
}

func (h *Handler) list(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)

	filter := ListFilter{
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		filter.Limit = limit
	}

	out, err := h.Svc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list activity", nil)
		return
	}
	respond.OK(c, out)
}
