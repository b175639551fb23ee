package activity

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type staticUserLookup struct {
	info UserDisplayInfo
	err  error
}

func (l staticUserLookup) UserDisplayInfo(ctx context.Context, companyID, userID string) (UserDisplayInfo, error) {
	return l.info, l.err
}

type staticEntityLookup struct {
	info EntityInfo
	err  error
}

func (l staticEntityLookup) Snapshot(ctx context.Context, companyID, entityType, entityID string) (EntityInfo, error) {
	return l.info, l.err
}

func TestLogEnrichesAndDescribes(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo: repo,
		Users: staticUserLookup{info: UserDisplayInfo{
			Name:       "Jane Doe",
			Email:      "jane@acme.com",
			Role:       "recruiter",
			Department: "talent",
		}},
		Entities: staticEntityLookup{info: EntityInfo{Name: "Backend Engineer", Department: "engineering"}},
	}

	a, err := svc.Log(context.Background(), Event{
		Type:       TypeJobArchived,
		UserID:     "user-1",
		CompanyID:  "acme",
		EntityType: EntityJob,
		EntityID:   "job-1",
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}
	if a.User.Name != "Jane Doe" || a.User.Role != "recruiter" || a.User.Department != "talent" {
		t.Fatalf("expected enriched user, got %+v", a.User)
	}
	if a.Entity == nil || a.Entity.Name != "Backend Engineer" || a.Entity.Department != "engineering" {
		t.Fatalf("expected entity snapshot, got %+v", a.Entity)
	}
	if a.Entity.Type != EntityJob {
		t.Fatalf("expected entity type %q, got %q", EntityJob, a.Entity.Type)
	}
	if a.Description != "Jane Doe archived job Backend Engineer" {
		t.Fatalf("unexpected description %q", a.Description)
	}
}

func TestLogValidation(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	cases := []struct {
		name string
		e    Event
	}{
		{"missing type", Event{UserID: "user-1", CompanyID: "acme"}},
		{"missing user", Event{Type: TypeJobArchived, CompanyID: "acme"}},
		{"missing company", Event{Type: TypeJobArchived, UserID: "user-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Log(ctx, tc.e); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestLogFallsBackOnFailedUserLookup(t *testing.T) {
	svc := &Service{
		Repo:  NewMemoryRepo(),
		Users: staticUserLookup{err: fmt.Errorf("user store down")},
	}

	a, err := svc.Log(context.Background(), Event{
		Type:      TypeCandidateArchived,
		UserID:    "user-1",
		CompanyID: "acme",
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if a.User.Name != "Unknown User" {
		t.Fatalf("expected placeholder user, got %+v", a.User)
	}
}

func TestLogPrefersEntityNameFromMetadata(t *testing.T) {
	svc := &Service{
		Repo:     NewMemoryRepo(),
		Entities: staticEntityLookup{err: fmt.Errorf("entity gone")},
	}

	// Delete events carry the name because the entity no longer exists.
	a, err := svc.Log(context.Background(), Event{
		Type:       TypeCandidateDeleted,
		UserID:     "user-1",
		CompanyID:  "acme",
		EntityType: EntityCandidate,
		EntityID:   "cand-1",
		Metadata:   map[string]any{"entityName": "Ada Lovelace"},
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if a.Entity == nil || a.Entity.Name != "Ada Lovelace" {
		t.Fatalf("expected metadata name snapshot, got %+v", a.Entity)
	}
	if a.Description != "Unknown User permanently deleted candidate Ada Lovelace" {
		t.Fatalf("unexpected description %q", a.Description)
	}
}

func TestStageChangedDescription(t *testing.T) {
	svc := &Service{
		Repo:     NewMemoryRepo(),
		Users:    staticUserLookup{info: UserDisplayInfo{Name: "Jane Doe"}},
		Entities: staticEntityLookup{info: EntityInfo{Name: "Ada Lovelace"}},
	}

	a, err := svc.Log(context.Background(), Event{
		Type:       TypeStageChanged,
		UserID:     "user-1",
		CompanyID:  "acme",
		EntityType: EntityCandidate,
		EntityID:   "cand-1",
		Metadata:   map[string]any{"fromStage": "new", "toStage": "interview"},
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if a.Description != "Jane Doe moved Ada Lovelace from new to interview" {
		t.Fatalf("unexpected description %q", a.Description)
	}
}

func TestListFiltersByEntity(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	ctx := context.Background()

	events := []Event{
		{Type: TypeJobArchived, UserID: "user-1", CompanyID: "acme", EntityType: EntityJob, EntityID: "job-1"},
		{Type: TypeCandidateArchived, UserID: "user-1", CompanyID: "acme", EntityType: EntityCandidate, EntityID: "cand-1"},
		{Type: TypeJobArchived, UserID: "user-1", CompanyID: "globex", EntityType: EntityJob, EntityID: "job-9"},
	}
	for _, e := range events {
		if _, err := svc.Log(ctx, e); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	all, err := svc.List(ctx, "acme", ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 company entries, got %d", len(all))
	}

	jobsOnly, err := svc.List(ctx, "acme", ListFilter{EntityType: EntityJob, EntityID: "job-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobsOnly) != 1 || jobsOnly[0].EntityID != "job-1" {
		t.Fatalf("expected the job entry, got %+v", jobsOnly)
	}
}

type failingRepo struct{}

func (failingRepo) Insert(ctx context.Context, a Activity) error {
	return fmt.Errorf("insert failed")
}

func (failingRepo) List(ctx context.Context, companyID string, f ListFilter) ([]Activity, error) {
	return nil, fmt.Errorf("list failed")
}

func TestReporterSwallowsErrors(t *testing.T) {
	r := NewReporter(&Service{Repo: failingRepo{}})
	r.Report(context.Background(), Event{Type: TypeJobArchived, UserID: "user-1", CompanyID: "acme"})

	var nilReporter *Reporter
	nilReporter.Report(context.Background(), Event{Type: TypeJobArchived, UserID: "user-1", CompanyID: "acme"})
}
