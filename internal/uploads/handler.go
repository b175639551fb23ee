package uploads

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sandra-backend/internal/candidates"
	"sandra-backend/internal/shared/server/middleware"
	"sandra-backend/internal/shared/server/respond"
	"sandra-backend/internal/shared/telemetry"
	"sandra-backend/internal/shared/util"
)

const presignExpires = 15 * time.Minute

// Handler serves CV uploads. Direct multipart uploads go through the object
// store; presigned uploads are available only when an S3 presign client is
// configured.
type Handler struct {
	Svc     *Service
	Presign *s3.PresignClient
	Bucket  string
	Prefix  string
}

// NewHandler constructs a Handler. presign may be nil when uploads go
// through the API directly.
func NewHandler(svc *Service, presign *s3.PresignClient, bucket, prefix string) *Handler {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Handler{Svc: svc, Presign: presign, Bucket: bucket, Prefix: prefix}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/:id/cv", h.uploadCV)
	rg.GET("/candidates/:id/cv", h.downloadCV)
	rg.POST("/uploads/presign", h.presign)
}

func (h *Handler) uploadCV(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	candidateID := c.Param("id")
	userID := middleware.UserIDFromContext(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	result, err := h.Svc.UploadCV(c.Request.Context(), companyID, candidateID, userID,
		header.Filename, contentType, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadContentType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "content type is not allowed", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds upload limit", nil)
		case errors.Is(err, candidates.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, ErrArchivedCandidate):
			respond.Error(c, http.StatusConflict, "invalid_state", "candidate is archived", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to store cv", nil)
		}
		return
	}

	c.Set("candidateId", candidateID)
	respond.JSON(c, http.StatusCreated, result)
}

func (h *Handler) downloadCV(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	candidateID := c.Param("id")

	body, err := h.Svc.OpenCV(c.Request.Context(), companyID, candidateID)
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load cv", nil)
		return
	}
	defer body.Close()

	c.Set("candidateId", candidateID)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		telemetry.Warn("uploads.stream_failed", map[string]any{
			"candidate_id": candidateID,
			"error":        err.Error(),
		})
	}
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	S3Key            string `json:"s3Key"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

func (h *Handler) presign(c *gin.Context) {
	if h.Presign == nil {
		respond.Error(c, http.StatusNotImplemented, "not_configured", "presigned uploads are not configured", nil)
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "contentType is not allowed", nil)
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sizeBytes exceeds limit", nil)
		return
	}

	sanitized, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid fileName", nil)
		return
	}

	companyID := middleware.CompanyIDFromContext(c)
	key := path.Join(h.Prefix, companyID, uuid.NewString(), uuid.NewString()+"-"+sanitized)

	out, err := h.Presign.PresignPutObject(c.Request.Context(), &s3.PutObjectInput{
		Bucket: aws.String(h.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		telemetry.Error("uploads.presign_failed", map[string]any{
			"bucket":     h.Bucket,
			"key":        key,
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to generate upload url", nil)
		return
	}

	respond.JSON(c, http.StatusOK, presignResponse{
		UploadURL:        out.URL,
		S3Key:            key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}
