package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
	"sandra-backend/internal/users"
)

type notesFixture struct {
	svc   *Service
	cands *candidates.MemoryRepo
	jobs  *jobs.MemoryRepo
}

func newNotesFixture(t *testing.T) *notesFixture {
	t.Helper()
	f := &notesFixture{
		cands: candidates.NewMemoryRepo(),
		jobs:  jobs.NewMemoryRepo(),
	}
	userRepo := users.NewMemoryRepo()
	f.svc = &Service{Repo: NewMemoryRepo(), Candidates: f.cands, Jobs: f.jobs, Users: userRepo}

	ctx := context.Background()
	if err := userRepo.Upsert(ctx, users.User{
		ID:        "user-1",
		CompanyID: "acme",
		Name:      "Jane",
		Surname:   "Doe",
		Email:     "jane@acme.com",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := f.cands.Create(ctx, candidates.Candidate{
		ID:        "cand-1",
		CompanyID: "acme",
		Name:      "Ada",
		Surname:   "Lovelace",
		Stage:     candidates.StageNew,
		Status:    candidates.StatusActive,
		Active:    true,
		Version:   1,
	}); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	if err := f.jobs.Create(ctx, jobs.Job{
		ID:        "job-1",
		CompanyID: "acme",
		Title:     "Backend Engineer",
		Status:    jobs.StatusActive,
		Active:    true,
		Version:   1,
	}); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return f
}

func TestCreateNoteResolvesAuthor(t *testing.T) {
	f := newNotesFixture(t)
	ctx := context.Background()

	n, err := f.svc.Create(ctx, "acme", EntityCandidate, "cand-1", "user-1", "Strong system design round.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected generated id")
	}
	if n.AuthorName != "Jane Doe" {
		t.Fatalf("expected resolved author name, got %q", n.AuthorName)
	}
	if n.EntityType != EntityCandidate || n.EntityID != "cand-1" {
		t.Fatalf("unexpected entity binding %+v", n)
	}
}

func TestCreateNoteValidation(t *testing.T) {
	f := newNotesFixture(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		entityType string
		entityID   string
		content    string
	}{
		{"empty content", EntityCandidate, "cand-1", "   "},
		{"missing entity id", EntityCandidate, "", "note"},
		{"unknown entity type", "meeting", "m-1", "note"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, "acme", tc.entityType, tc.entityID, "user-1", tc.content)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestCreateNoteUnknownParent(t *testing.T) {
	f := newNotesFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, "acme", EntityCandidate, "missing", "user-1", "note"); !errors.Is(err, candidates.ErrNotFound) {
		t.Fatalf("expected candidate not found, got %v", err)
	}
	if _, err := f.svc.Create(ctx, "acme", EntityJob, "missing", "user-1", "note"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected job not found, got %v", err)
	}
	// Cross-company access reads like a missing parent.
	if _, err := f.svc.Create(ctx, "globex", EntityJob, "job-1", "user-1", "note"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected job not found for other company, got %v", err)
	}
}

func TestListNotesNewestFirst(t *testing.T) {
	f := newNotesFixture(t)
	ctx := context.Background()

	repo := f.svc.Repo.(*MemoryRepo)
	base := time.Now().UTC()
	seed := []Note{
		{ID: "n-1", CompanyID: "acme", EntityType: EntityJob, EntityID: "job-1", Content: "first", CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "n-2", CompanyID: "acme", EntityType: EntityJob, EntityID: "job-1", Content: "second", CreatedAt: base.Add(-time.Hour)},
		{ID: "n-3", CompanyID: "acme", EntityType: EntityCandidate, EntityID: "cand-1", Content: "other entity", CreatedAt: base},
		{ID: "n-4", CompanyID: "globex", EntityType: EntityJob, EntityID: "job-1", Content: "other company", CreatedAt: base},
	}
	for _, n := range seed {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("seed note: %v", err)
		}
	}

	out, err := f.svc.List(ctx, "acme", EntityJob, "job-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(out))
	}
	if out[0].ID != "n-2" || out[1].ID != "n-1" {
		t.Fatalf("expected newest first, got %q then %q", out[0].ID, out[1].ID)
	}
}

func TestUpdateNoteContent(t *testing.T) {
	f := newNotesFixture(t)
	ctx := context.Background()

	n, err := f.svc.Create(ctx, "acme", EntityJob, "job-1", "user-1", "draft")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Update(ctx, "acme", n.ID, "final")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "final" {
		t.Fatalf("expected updated content, got %q", updated.Content)
	}
	if updated.AuthorName != "Jane Doe" {
		t.Fatalf("update must preserve the author, got %q", updated.AuthorName)
	}

	if _, err := f.svc.Update(ctx, "globex", n.ID, "hijack"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for other company, got %v", err)
	}
}

func TestDeleteNoteScopedToCompany(t *testing.T) {
	f := newNotesFixture(t)
	ctx := context.Background()

	n, err := f.svc.Create(ctx, "acme", EntityCandidate, "cand-1", "user-1", "to remove")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(ctx, "globex", n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for other company, got %v", err)
	}
	if err := f.svc.Delete(ctx, "acme", n.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	out, err := f.svc.List(ctx, "acme", EntityCandidate, "cand-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no notes after delete, got %d", len(out))
	}
}
