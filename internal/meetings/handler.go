package meetings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches meeting routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/meetings", h.create)
	rg.GET("/meetings", h.list)
	rg.GET("/meetings/:id", h.get)
	rg.PUT("/meetings/:id", h.update)
	rg.DELETE("/meetings/:id", h.remove)
}

type meetingRequest struct {
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	CandidateID string    `json:"candidateId"`
	JobID       string    `json:"jobId"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Location    string    `json:"location"`
	MeetingLink string    `json:"meetingLink"`
	Notes       string    `json:"notes"`
	Attendees   []string  `json:"attendees"`
}

func (req meetingRequest) toMeeting() Meeting {
	return Meeting{
		Title:       req.Title,
		Type:        req.Type,
		CandidateID: req.CandidateID,
		JobID:       req.JobID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		MeetingLink: req.MeetingLink,
		Notes:       req.Notes,
		Attendees:   req.Attendees,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req meetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	m := req.toMeeting()
	m.CompanyID = middleware.CompanyIDFromContext(c)
	m.CreatedBy = middleware.UserIDFromContext(c)

	created, err := h.Svc.Create(c.Request.Context(), m)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create meeting", nil)
		return
	}

	if created.CandidateID != "" {
		c.Set("candidateId", created.CandidateID)
	}
	ws.NotifyChanged(created.CompanyID, "meetings", created.ID, "created")
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)

	filter := ListFilter{
		CandidateID: c.Query("candidateId"),
		JobID:       c.Query("jobId"),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "from must be RFC 3339", nil)
			return
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "to must be RFC 3339", nil)
			return
		}
		filter.To = t
	}

	out, err := h.Svc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list meetings", nil)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("id")

	m, err := h.Svc.Get(c.Request.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "meeting not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load meeting", nil)
		return
	}
	respond.OK(c, m)
}

func (h *Handler) update(c *gin.Context) {
	var req meetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	m := req.toMeeting()
	m.ID = c.Param("id")
	m.CompanyID = middleware.CompanyIDFromContext(c)

	updated, err := h.Svc.Update(c.Request.Context(), m)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "meeting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to update meeting", nil)
		}
		return
	}

	ws.NotifyChanged(updated.CompanyID, "meetings", updated.ID, "updated")
	respond.OK(c, updated)
}

func (h *Handler) remove(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), companyID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "meeting not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to delete meeting", nil)
		return
	}

	ws.NotifyChanged(companyID, "meetings", id, "deleted")
	c.Status(http.StatusNoContent)
}
