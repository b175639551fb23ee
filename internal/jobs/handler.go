package jobs

import (
	"errors"
	"net/http"

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

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", h.update)
}

type jobRequest struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Department   string   `json:"department"`
	Reference    string   `json:"reference"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	ContactName  string   `json:"contactName"`
	ContactEmail string   `json:"contactEmail"`
	TeamID       string   `json:"teamId"`
}

func (h *Handler) create(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	job := Job{
		CompanyID:    middleware.CompanyIDFromContext(c),
		TeamID:       req.TeamID,
		Title:        req.Title,
		Company:      req.Company,
		Department:   req.Department,
		Reference:    req.Reference,
		Location:     req.Location,
		Type:         req.Type,
		Description:  req.Description,
		Requirements: req.Requirements,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		CreatedBy:    middleware.UserIDFromContext(c),
	}

	created, err := h.Svc.Create(c.Request.Context(), job)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create job", nil)
		return
	}

	c.Set("jobId", created.ID)
	ws.NotifyChanged(created.CompanyID, "jobs", created.ID, "created")
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	filter := ListFilter{Status: c.Query("status")}

	out, err := h.Svc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list jobs", nil)
		return
	}

	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("id")

	job, err := h.Svc.Get(c.Request.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load job", nil)
		return
	}

	c.Set("jobId", job.ID)
	respond.OK(c, job)
}

func (h *Handler) update(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	job := Job{
		ID:           c.Param("id"),
		CompanyID:    middleware.CompanyIDFromContext(c),
		Title:        req.Title,
		Company:      req.Company,
		Department:   req.Department,
		Reference:    req.Reference,
		Location:     req.Location,
		Type:         req.Type,
		Description:  req.Description,
		Requirements: req.Requirements,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		UpdatedBy:    middleware.UserIDFromContext(c),
	}

	updated, err := h.Svc.Update(c.Request.Context(), job)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to update job", nil)
		}
		return
	}

	c.Set("jobId", updated.ID)
	ws.NotifyChanged(updated.CompanyID, "jobs", updated.ID, "updated")
	respond.OK(c, updated)
}
