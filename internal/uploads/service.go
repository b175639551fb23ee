package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"

	"sandra-backend/internal/candidates"
	"sandra-backend/internal/extract"
	"sandra-backend/internal/shared/storage/object"
	"sandra-backend/internal/shared/telemetry"
)

const maxUploadBytes = 5 << 20

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

var (
	// ErrTooLarge is returned for payloads over the upload limit.
	ErrTooLarge = errors.New("file exceeds upload limit")
	// ErrBadContentType is returned for disallowed content types.
	ErrBadContentType = errors.New("content type not allowed")
	// ErrArchivedCandidate is returned when uploading to an archived
	// candidate.
	ErrArchivedCandidate = errors.New("candidate is archived")
)

// UploadResult describes a stored CV.
type UploadResult struct {
	StorageKey    string `json:"storageKey"`
	SizeBytes     int64  `json:"sizeBytes"`
	MimeType      string `json:"mimeType"`
	ExtractedText string `json:"extractedText,omitempty"`
}

// Service stores candidate CVs and links them to the candidate record.
type Service struct {
	Store      object.ObjectStore
	Candidates candidates.Repo
}

// UploadCV stores the file, extracts its text for search, and records the
// storage key on the candidate. Extraction is best-effort; an unreadable
// file still uploads.
func (s *Service) UploadCV(ctx context.Context, companyID, candidateID, userID, fileName, contentType string, size int64, r io.Reader) (UploadResult, error) {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return UploadResult{}, ErrBadContentType
	}
	if size <= 0 || size > maxUploadBytes {
		return UploadResult{}, ErrTooLarge
	}

	cand, err := s.Candidates.GetByID(ctx, companyID, candidateID)
	if err != nil {
		return UploadResult{}, err
	}
	if cand.Status == candidates.StatusArchived {
		return UploadResult{}, ErrArchivedCandidate
	}

	key, written, mimeType, err := s.Store.Save(ctx, companyID, fileName, io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("store cv: %w", err)
	}
	if written > maxUploadBytes {
		return UploadResult{}, ErrTooLarge
	}

	result := UploadResult{
		StorageKey: key,
		SizeBytes:  written,
		MimeType:   mimeType,
	}

	text, err := extract.Text(ctx, s.Store, key, contentType, fileName)
	if err != nil {
		telemetry.Warn("uploads.extract_failed", map[string]any{
			"candidate_id": candidateID,
			"key":          key,
			"error":        err.Error(),
		})
	} else {
		result.ExtractedText = text
	}

	cand.CVURL = key
	cand.UpdatedBy = userID
	if err := s.Candidates.Update(ctx, cand); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}

// OpenCV streams the candidate's stored CV.
func (s *Service) OpenCV(ctx context.Context, companyID, candidateID string) (io.ReadCloser, error) {
	cand, err := s.Candidates.GetByID(ctx, companyID, candidateID)
	if err != nil {
		return nil, err
	}
	if cand.CVURL == "" {
		return nil, candidates.ErrNotFound
	}
	return s.Store.Open(ctx, cand.CVURL)
}
