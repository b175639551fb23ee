package archive

import (
	"testing"

	"sandra-backend/internal/associations"
)

func assocList(ids ...string) []associations.CandidateJob {
	out := make([]associations.CandidateJob, 0, len(ids))
	for _, id := range ids {
		out = append(out, associations.CandidateJob{ID: id, CandidateID: "cand-" + id})
	}
	return out
}

func TestAssociationsForRestoreDeletesAll(t *testing.T) {
	got := associationsForRestore(assocList("a", "b", "c"))
	if len(got) != 3 {
		t.Fatalf("expected 3 deletions, got %v", got)
	}
}

func TestAssociationsForCloseJobSparesHiredCandidate(t *testing.T) {
	list := []associations.CandidateJob{
		{ID: "a", CandidateID: "cand-1"},
		{ID: "b", CandidateID: "cand-hired"},
		{ID: "c", CandidateID: "cand-2"},
	}
	got := associationsForCloseJob(list, "cand-hired")
	if len(got) != 2 {
		t.Fatalf("expected 2 deletions, got %v", got)
	}
	for _, id := range got {
		if id == "b" {
			t.Fatalf("hired candidate's association must be kept")
		}
	}
}

func TestAssociationsForCloseJobWithoutHireDeletesAll(t *testing.T) {
	got := associationsForCloseJob(assocList("a", "b"), "")
	if len(got) != 2 {
		t.Fatalf("expected 2 deletions, got %v", got)
	}
}
