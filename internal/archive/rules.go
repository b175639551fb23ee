package archive

import "sandra-backend/internal/associations"

// Association consistency rules. Pure functions from the live association
// set to the ids that must be deleted in the same batch as the lifecycle
// transition. Archiving preserves history and deletes nothing, so its
// batches carry no association deletes and it has no rule here; restore,
// permanent delete and close prune.

// associationsForRestore deletes every association of the restored
// candidate. The candidate re-enters the pipeline with a clean slate.
func associationsForRestore(list []associations.CandidateJob) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

// associationsForDelete deletes every association referencing the removed
// entity, whichever side it is on.
func associationsForDelete(list []associations.CandidateJob) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

// associationsForCloseJob deletes the closed job's associations except the
// hired candidate's, which stays as the placement record.
func associationsForCloseJob(list []associations.CandidateJob, hiredCandidateID string) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		if hiredCandidateID != "" && a.CandidateID == hiredCandidateID {
			continue
		}
		ids = append(ids, a.ID)
	}
	return ids
}
