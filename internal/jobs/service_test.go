package jobs

import (
	"context"
	"errors"
	"testing"
)

func TestCreateStartsActive(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	created, err := svc.Create(context.Background(), Job{
		Title:     "Backend Engineer",
		Company:   "Acme Inc",
		CompanyID: "acme",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.Status != StatusActive || created.Visibility != VisibilityActive || !created.Active {
		t.Fatalf("expected active job, got %+v", created)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	if _, err := svc.Create(ctx, Job{CompanyID: "acme"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing title, got %v", err)
	}
	if _, err := svc.Create(ctx, Job{Title: "X"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing company, got %v", err)
	}
}

func TestGetIsCompanyScoped(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	created, err := svc.Create(ctx, Job{Title: "Backend Engineer", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "acme", created.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.Get(ctx, "globex", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for other company, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	ctx := context.Background()

	active, err := svc.Create(ctx, Job{Title: "Active role", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	archived, err := svc.Create(ctx, Job{Title: "Old role", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	closedJob := archived
	closedJob.Status = StatusArchived
	closedJob.Visibility = VisibilityArchived
	closedJob.Active = false
	if _, err := repo.ApplyLifecycle(ctx, closedJob, archived.Version); err != nil {
		t.Fatalf("archive job: %v", err)
	}

	got, err := svc.List(ctx, "acme", ListFilter{Status: StatusActive})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("expected only the active job, got %+v", got)
	}

	if _, err := svc.List(ctx, "acme", ListFilter{Status: "pending"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
