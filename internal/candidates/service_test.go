package candidates

import (
	"context"
	"errors"
	"testing"

	"sandra-backend/internal/activity"
)

func newTestService() (*Service, *activity.MemoryRepo) {
	feed := activity.NewMemoryRepo()
	reporter := activity.NewReporter(&activity.Service{Repo: feed})
	return &Service{Repo: NewMemoryRepo(), Activity: reporter}, feed
}

func TestCreateDefaultsToEntryStage(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), Candidate{
		Name:      "Ada",
		Surname:   "Lovelace",
		CompanyID: "acme",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.Stage != StageNew {
		t.Fatalf("expected stage %q, got %q", StageNew, created.Stage)
	}
	if created.Status != StatusActive || !created.Active {
		t.Fatalf("expected active candidate, got %+v", created)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		c    Candidate
	}{
		{"missing name", Candidate{CompanyID: "acme"}},
		{"missing company", Candidate{Name: "Ada"}},
		{"rating out of range", Candidate{Name: "Ada", CompanyID: "acme", Rating: MaxRating + 1}},
		{"unknown stage", Candidate{Name: "Ada", CompanyID: "acme", Stage: "limbo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.c); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestUpdateStageRecordsActivity(t *testing.T) {
	svc, feed := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, Candidate{Name: "Ada", Surname: "Lovelace", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStage(ctx, "acme", created.ID, "interview", "user-1")
	if err != nil {
		t.Fatalf("update stage: %v", err)
	}
	if updated.Stage != "interview" {
		t.Fatalf("expected interview stage, got %q", updated.Stage)
	}

	entries, err := feed.List(ctx, "acme", activity.ListFilter{})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != activity.TypeStageChanged {
		t.Fatalf("expected one stage_changed entry, got %+v", entries)
	}
	if entries[0].Metadata["fromStage"] != StageNew || entries[0].Metadata["toStage"] != "interview" {
		t.Fatalf("unexpected stage metadata: %+v", entries[0].Metadata)
	}
}

func TestUpdateStageSameStageIsNoOp(t *testing.T) {
	svc, feed := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, Candidate{Name: "Ada", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStage(ctx, "acme", created.ID, StageNew, "user-1"); err != nil {
		t.Fatalf("update stage: %v", err)
	}

	entries, err := feed.List(ctx, "acme", activity.ListFilter{})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("no-op stage change must not log, got %+v", entries)
	}
}

func TestUpdateRejectsArchivedCandidate(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	ctx := context.Background()

	created, err := svc.Create(ctx, Candidate{Name: "Ada", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	archived := created
	archived.Status = StatusArchived
	archived.Visibility = VisibilityArchived
	archived.Active = false
	if _, err := repo.ApplyLifecycle(ctx, archived, created.Version); err != nil {
		t.Fatalf("archive candidate: %v", err)
	}

	if _, err := svc.Update(ctx, created); !errors.Is(err, ErrArchivedCandidate) {
		t.Fatalf("expected archived error on update, got %v", err)
	}
	if _, err := svc.UpdateStage(ctx, "acme", created.ID, "interview", "user-1"); !errors.Is(err, ErrArchivedCandidate) {
		t.Fatalf("expected archived error on stage change, got %v", err)
	}
}

func TestUpdatePreservesStage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, Candidate{Name: "Ada", CompanyID: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateStage(ctx, "acme", created.ID, "offer", "user-1"); err != nil {
		t.Fatalf("update stage: %v", err)
	}

	edit := created
	edit.Name = "Augusta Ada"
	edit.Stage = StageNew
	updated, err := svc.Update(ctx, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Augusta Ada" {
		t.Fatalf("expected renamed candidate, got %q", updated.Name)
	}
	if updated.Stage != "offer" {
		t.Fatalf("profile update must not move the stage, got %q", updated.Stage)
	}
}

func TestListValidatesFilter(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.List(context.Background(), "acme", ListFilter{Status: "pending"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.List(context.Background(), "acme", ListFilter{Stage: "limbo"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
