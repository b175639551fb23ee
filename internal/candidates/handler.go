package candidates

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

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates", h.create)
	rg.GET("/candidates", h.list)
	rg.GET("/candidates/:id", h.get)
	rg.PUT("/candidates/:id", h.update)
	rg.PUT("/candidates/:id/stage", h.updateStage)
}

type candidateRequest struct {
	Name       string       `json:"name"`
	Surname    string       `json:"surname"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Position   string       `json:"position"`
	Company    string       `json:"company"`
	Location   string       `json:"location"`
	Stage      string       `json:"stage"`
	Rating     int          `json:"rating"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Languages  []Language   `json:"languages"`
	Source     string       `json:"source"`
	CVURL      string       `json:"cvUrl"`
	TeamID     string       `json:"teamId"`
}

func (req candidateRequest) toCandidate() Candidate {
	return Candidate{
		TeamID:     req.TeamID,
		Name:       req.Name,
		Surname:    req.Surname,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		Company:    req.Company,
		Location:   req.Location,
		Stage:      req.Stage,
		Rating:     req.Rating,
		Skills:     req.Skills,
		Experience: req.Experience,
		Education:  req.Education,
		Languages:  req.Languages,
		Source:     req.Source,
		CVURL:      req.CVURL,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cand := req.toCandidate()
	cand.CompanyID = middleware.CompanyIDFromContext(c)
	cand.CreatedBy = middleware.UserIDFromContext(c)

	created, err := h.Svc.Create(c.Request.Context(), cand)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create candidate", nil)
		return
	}

	c.Set("candidateId", created.ID)
	ws.NotifyChanged(created.CompanyID, "candidates", created.ID, "created")
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	filter := ListFilter{
		Status: c.Query("status"),
		Stage:  c.Query("stage"),
	}

	out, err := h.Svc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list candidates", nil)
		return
	}

	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("id")

	cand, err := h.Svc.Get(c.Request.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load candidate", nil)
		return
	}

	c.Set("candidateId", cand.ID)
	respond.OK(c, cand)
}

func (h *Handler) update(c *gin.Context) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cand := req.toCandidate()
	cand.ID = c.Param("id")
	cand.CompanyID = middleware.CompanyIDFromContext(c)
	cand.UpdatedBy = middleware.UserIDFromContext(c)

	updated, err := h.Svc.Update(c.Request.Context(), cand)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, ErrArchivedCandidate):
			respond.Error(c, http.StatusConflict, "invalid_state", "candidate is archived", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to update candidate", nil)
		}
		return
	}

	c.Set("candidateId", updated.ID)
	ws.NotifyChanged(updated.CompanyID, "candidates", updated.ID, "updated")
	respond.OK(c, updated)
}

type stageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

func (h *Handler) updateStage(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "stage is required", nil)
		return
	}

	companyID := middleware.CompanyIDFromContext(c)
	id := c.Param("id")
	userID := middleware.UserIDFromContext(c)

	updated, err := h.Svc.UpdateStage(c.Request.Context(), companyID, id, req.Stage, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, ErrArchivedCandidate):
			respond.Error(c, http.StatusConflict, "invalid_state", "candidate is archived", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to update stage", nil)
		}
		return
	}

	c.Set("candidateId", updated.ID)
	ws.NotifyChanged(updated.CompanyID, "candidates", updated.ID, "updated")
	respond.OK(c, updated)
}
