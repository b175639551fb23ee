package meetings

import (
	"context"
	"errors"
	"testing"
	"time"

	"sandra-backend/internal/activity"
)

func newTestService() (*Service, *activity.MemoryRepo) {
	feed := activity.NewMemoryRepo()
	reporter := activity.NewReporter(&activity.Service{Repo: feed})
	return &Service{Repo: NewMemoryRepo(), Activity: reporter}, feed
}

func TestCreateDefaultsEndTime(t *testing.T) {
	svc, _ := newTestService()
	starts := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), Meeting{
		Title:     "Intro call",
		CompanyID: "acme",
		Type:      TypeCall,
		StartsAt:  starts,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !created.EndsAt.Equal(starts.Add(30 * time.Minute)) {
		t.Fatalf("expected 30 minute default, got %v", created.EndsAt)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	starts := time.Now().UTC()

	cases := []struct {
		name string
		m    Meeting
	}{
		{"missing title", Meeting{CompanyID: "acme", StartsAt: starts}},
		{"missing company", Meeting{Title: "x", StartsAt: starts}},
		{"missing start", Meeting{Title: "x", CompanyID: "acme"}},
		{"bad type", Meeting{Title: "x", CompanyID: "acme", StartsAt: starts, Type: "party"}},
		{"end before start", Meeting{Title: "x", CompanyID: "acme", StartsAt: starts, EndsAt: starts.Add(-time.Hour)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.m); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestInterviewWithCandidateLogsActivity(t *testing.T) {
	svc, feed := newTestService()
	ctx := context.Background()
	starts := time.Now().UTC().Add(24 * time.Hour)

	if _, err := svc.Create(ctx, Meeting{
		Title:       "Technical interview",
		CompanyID:   "acme",
		Type:        TypeInterview,
		CandidateID: "cand-1",
		JobID:       "job-1",
		StartsAt:    starts,
		CreatedBy:   "user-1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := feed.List(ctx, "acme", activity.ListFilter{})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != activity.TypeInterviewScheduled {
		t.Fatalf("expected one interview_scheduled entry, got %+v", entries)
	}
	if entries[0].EntityID != "cand-1" {
		t.Fatalf("expected candidate attribution, got %+v", entries[0])
	}
}

func TestNonInterviewDoesNotLog(t *testing.T) {
	svc, feed := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, Meeting{
		Title:       "Sync",
		CompanyID:   "acme",
		Type:        TypeCall,
		CandidateID: "cand-1",
		StartsAt:    time.Now().UTC(),
		CreatedBy:   "user-1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := feed.List(ctx, "acme", activity.ListFilter{})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("calls must not log interview activity, got %+v", entries)
	}
}

func TestListFiltersByTimeWindow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, Meeting{
			Title:     "Meeting",
			CompanyID: "acme",
			StartsAt:  base.AddDate(0, 0, i),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	from := base.AddDate(0, 0, 1)
	got, err := svc.List(ctx, "acme", ListFilter{From: from})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 meetings from %v, got %d", from, len(got))
	}
}
