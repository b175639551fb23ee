package users

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertFromAuthRoundTrip(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user := User{
		ID:        "google:123",
		CompanyID: "acme-com",
		Email:     "jane@acme.com",
		Name:      "Jane",
		Surname:   "Doe",
		Role:      "member",
	}
	if err := svc.UpsertFromAuth(ctx, user); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := svc.GetByID(ctx, "google:123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CompanyID != "acme-com" || got.DisplayName() != "Jane Doe" {
		t.Fatalf("unexpected user: %+v", got)
	}

	// Upsert again with new profile data.
	user.Name = "Janet"
	if err := svc.UpsertFromAuth(ctx, user); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = svc.GetByID(ctx, "google:123")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Name != "Janet" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
}

func TestUpsertFromAuthValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{Email: "x@y.com", CompanyID: "c"}); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if err := svc.UpsertFromAuth(ctx, User{ID: "u", CompanyID: "c"}); err == nil {
		t.Fatalf("expected error for missing email")
	}
	if err := svc.UpsertFromAuth(ctx, User{ID: "u", Email: "x@y.com"}); err == nil {
		t.Fatalf("expected error for missing company")
	}
}

func TestGetByIDUnknownUser(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	if got := (User{}).DisplayName(); got != "Unknown User" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := (User{Name: "Jane"}).DisplayName(); got != "Jane" {
		t.Fatalf("expected first name only, got %q", got)
	}
}
