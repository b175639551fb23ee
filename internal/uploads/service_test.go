package uploads

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"sandra-backend/internal/candidates"
	localstore "sandra-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) (*Service, *candidates.MemoryRepo) {
	t.Helper()
	repo := candidates.NewMemoryRepo()
	if err := repo.Create(context.Background(), candidates.Candidate{
		ID:        "cand-1",
		CompanyID: "acme",
		Name:      "Ada",
		Stage:     candidates.StageNew,
		Status:    candidates.StatusActive,
		Active:    true,
		Version:   1,
	}); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	return &Service{Store: localstore.New(t.TempDir()), Candidates: repo}, repo
}

func TestUploadCVLinksCandidate(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	body := strings.NewReader("%PDF-1.4 fake resume content")
	res, err := svc.UploadCV(ctx, "acme", "cand-1", "user-1", "resume.pdf", "application/pdf", int64(body.Len()), body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.StorageKey == "" || res.SizeBytes == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	cand, err := repo.GetByID(ctx, "acme", "cand-1")
	if err != nil {
		t.Fatalf("reload candidate: %v", err)
	}
	if cand.CVURL != res.StorageKey {
		t.Fatalf("expected cv key on candidate, got %q", cand.CVURL)
	}

	rc, err := svc.OpenCV(ctx, "acme", "cand-1")
	if err != nil {
		t.Fatalf("open cv: %v", err)
	}
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read cv: %v", err)
	}
	if !strings.Contains(string(stored), "fake resume content") {
		t.Fatalf("stored content mismatch")
	}
}

func TestUploadCVGuards(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	body := strings.NewReader("content")

	if _, err := svc.UploadCV(ctx, "acme", "cand-1", "user-1", "x.exe", "application/x-msdownload", 7, body); !errors.Is(err, ErrBadContentType) {
		t.Fatalf("expected bad content type, got %v", err)
	}
	if _, err := svc.UploadCV(ctx, "acme", "cand-1", "user-1", "x.pdf", "application/pdf", maxUploadBytes+1, body); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
	if _, err := svc.UploadCV(ctx, "acme", "missing", "user-1", "x.pdf", "application/pdf", 7, body); !errors.Is(err, candidates.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	cand, err := repo.GetByID(ctx, "acme", "cand-1")
	if err != nil {
		t.Fatalf("load candidate: %v", err)
	}
	cand.Status = candidates.StatusArchived
	cand.Active = false
	if _, err := repo.ApplyLifecycle(ctx, cand, cand.Version); err != nil {
		t.Fatalf("archive candidate: %v", err)
	}
	if _, err := svc.UploadCV(ctx, "acme", "cand-1", "user-1", "x.pdf", "application/pdf", 7, body); !errors.Is(err, ErrArchivedCandidate) {
		t.Fatalf("expected archived candidate, got %v", err)
	}
}

func TestOpenCVWithoutUpload(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.OpenCV(context.Background(), "acme", "cand-1"); !errors.Is(err, candidates.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
