package auth

import (
	"testing"
	"time"
)

func TestCompanyFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"jane@acme.com", "acme-com"},
		{"jane@mail.acme.co.uk", "mail-acme-co-uk"},
		{"JANE@ACME.COM", "acme-com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
	}
	for _, tc := range cases {
		if got := companyFromEmail(tc.email); got != tc.want {
			t.Fatalf("companyFromEmail(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestStateStoreConsumeOnce(t *testing.T) {
	s := newStateStore()
	s.put("state-1", time.Now().Add(time.Minute))

	if !s.consume("state-1") {
		t.Fatalf("expected first consume to succeed")
	}
	if s.consume("state-1") {
		t.Fatalf("state must be single use")
	}
	if s.consume("unknown") {
		t.Fatalf("unknown state must not validate")
	}

	s.put("state-2", time.Now().Add(-time.Minute))
	if s.consume("state-2") {
		t.Fatalf("expired state must not validate")
	}
}
