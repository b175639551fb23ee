package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sandra-backend/internal/activity"
	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
	"sandra-backend/internal/shared/metrics"
	"sandra-backend/internal/shared/telemetry"
	"sandra-backend/internal/users"
)

// Notifier announces committed transitions to external workflow automation.
// Implementations must not block the caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, event, companyID string, payload map[string]any)
}

// Engine is the lifecycle state machine for jobs and candidates. Every
// operation validates company ownership, reads current state, computes the
// association deltas and commits one atomic batch. Activity logging and
// webhook notification happen after the commit and never fail the
// operation.
type Engine struct {
	store    Store
	users    users.Repo
	activity *activity.Reporter
	notifier Notifier
}

// NewEngine constructs an Engine. users, reporter and notifier may be nil;
// the engine then skips name enrichment, logging or notification.
func NewEngine(store Store, userRepo users.Repo, reporter *activity.Reporter, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		users:    userRepo,
		activity: reporter,
		notifier: notifier,
	}
}

// ArchiveJob soft-deactivates a job with a recorded reason. Associations
// are preserved; archived jobs keep their pipeline history until deleted.
func (e *Engine) ArchiveJob(ctx context.Context, jobID, actorID, companyID string, reason Reason, notes string) (Result, error) {
	start := time.Now()

	if err := validateActor(actorID, companyID); err != nil {
		return e.fail(err)
	}
	if jobID == "" {
		return e.fail(fmt.Errorf("%w: jobId is required", ErrValidation))
	}
	if !reason.Valid() {
		return e.fail(fmt.Errorf("%w: unknown archive reason %q", ErrValidation, reason))
	}

	job, err := e.store.GetJob(ctx, jobID)
	if err != nil {
		return e.fail(classifyRead(err, "job"))
	}
	if job.CompanyID != companyID {
		return e.fail(ErrAccessDenied)
	}
	if job.Status == jobs.StatusArchived {
		return e.fail(fmt.Errorf("%w: job is already archived", ErrInvalidState))
	}

	now := time.Now().UTC()
	job.Status = jobs.StatusArchived
	job.Visibility = jobs.VisibilityArchived
	job.Active = false
	job.Archive = &jobs.ArchiveMetadata{
		ArchivedAt:     now,
		ArchivedBy:     actorID,
		ArchivedByName: e.actorName(ctx, companyID, actorID),
		Reason:         string(reason),
		Notes:          notes,
	}
	job.UpdatedAt = now
	job.UpdatedBy = actorID

	batch := Batch{
		CompanyID: companyID,
		JobUpdate: &JobUpdate{Job: job, ExpectedVersion: job.Version},
	}
	if err := e.commit(ctx, batch); err != nil {
		return e.fail(err)
	}

	e.report(ctx, activity.Event{
		Type:       activity.TypeJobArchived,
		UserID:     actorID,
		CompanyID:  companyID,
		EntityType: activity.EntityJob,
		EntityID:   jobID,
		Metadata: map[string]any{
			"entityName": job.Title,
			"reason":     string(reason),
			"notes":      notes,
		},
	})
	e.notify(ctx, "job.archived", companyID, map[string]any{
		"jobId":    jobID,
		"jobTitle": job.Title,
		"reason":   string(reason),
	})

	return e.succeed(start, Result{
		Success: true,
		Metadata: map[string]string{
			"jobTitle":   job.Title,
			"jobCompany": job.Company,
		},
	}), nil
}

// ArchiveCandidate soft-deactivates a candidate with a recorded reason.
// Associations are preserved.
func (e *Engine) ArchiveCandidate(ctx context.Context, candidateID, actorID, companyID string, reason Reason, notes string) (Result, error) {
	start := time.Now()

	if err := validateActor(actorID, companyID); err != nil {
		return e.fail(err)
	}
	if candidateID == "" {
		return e.fail(fmt.Errorf("%w: candidateId is required", ErrValidation))
	}
	if !reason.Valid() {
		return e.fail(fmt.Errorf("%w: unknown archive reason %q", ErrValidation, reason))
	}

	cand, err := e.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return e.fail(classifyRead(err, "candidate"))
	}
	if cand.CompanyID != companyID {
		return e.fail(ErrAccessDenied)
	}
	if cand.Status == candidates.StatusArchived {
		return e.fail(fmt.Errorf("%w: candidate is already archived", ErrInvalidState))
	}

	now := time.Now().UTC()
	cand.Status = candidates.StatusArchived
	cand.Visibility = candidates.VisibilityArchived
	cand.Active = false
	cand.Archive = &candidates.ArchiveMetadata{
		ArchivedAt:     now,
		ArchivedBy:     actorID,
		ArchivedByName: e.actorName(ctx, companyID, actorID),
		Reason:         string(reason),
		Notes:          notes,
	}
	cand.UpdatedAt = now
	cand.UpdatedBy = actorID

	batch := Batch{
		CompanyID:       companyID,
		CandidateUpdate: &CandidateUpdate{Candidate: cand, ExpectedVersion: cand.Version},
	}
	if err := e.commit(ctx, batch); err != nil {
		return e.fail(err)
	}

	name := cand.FullName()
	e.report(ctx, activity.Event{
		Type:       activity.TypeCandidateArchived,
		UserID:     actorID,
		CompanyID:  companyID,
		EntityType: activity.EntityCandidate,
		EntityID:   candidateID,
		Metadata: map[string]any{
			"entityName": name,
			"reason":     string(reason),
			"notes":      notes,
		},
	})
	e.notify(ctx, "candidate.archived", companyID, map[string]any{
		"candidateId":   candidateID,
		"candidateName": name,
		"reason":        string(reason),
	})

	return e.succeed(start, Result{
		Success:  true,
		Metadata: map[string]string{"candidateName": name},
	}), nil
}

// RestoreCandidate reactivates an archived candidate. All of the
// candidate's associations are deleted in the same batch; the candidate
// re-enters the pipeline at the entry stage with no job links.
func (e *Engine) RestoreCandidate(ctx context.Context, candidateID, actorID, companyID string) (Result, error) {
	start := time.Now()

	if err := validateActor(actorID, companyID); err != nil {
		return e.fail(err)
	}
	if candidateID == "" {
		return e.fail(fmt.Errorf("%w: candidateId is required", ErrValidation))
	}

	cand, err := e.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return e.fail(classifyRead(err, "candidate"))
	}
	if cand.CompanyID != companyID {
		return e.fail(ErrAccessDenied)
	}
	if cand.Status != candidates.StatusArchived {
		return e.fail(fmt.Errorf("%w: candidate is not archived", ErrInvalidState))
	}

	assocs, err := e.store.AssociationsByCandidate(ctx, companyID, candidateID)
	if err != nil {
		return e.fail(fmt.Errorf("%w: %v", ErrStore, err))
	}
	toDelete := associationsForRestore(assocs)

	now := time.Now().UTC()
	cand.Status = candidates.StatusActive
	cand.Visibility = candidates.VisibilityActive
	cand.Active = true
	cand.Stage = candidates.StageNew
	cand.Archive = nil
	cand.UpdatedAt = now
	cand.UpdatedBy = actorID

	batch := Batch{
		CompanyID:          companyID,
		CandidateUpdate:    &CandidateUpdate{Candidate: cand, ExpectedVersion: cand.Version},
		AssociationDeletes: toDelete,
	}
	if err := e.commit(ctx, batch); err != nil {
		return e.fail(err)
	}
	metrics.AddAssociationsPruned(len(toDelete))

	name := cand.FullName()
	e.report(ctx, activity.Event{
		Type:       activity.TypeCandidateRestored,
		UserID:     actorID,
		CompanyID:  companyID,
		EntityType: activity.EntityCandidate,
		EntityID:   candidateID,
		Metadata: map[string]any{
			"entityName":          name,
			"removedAssociations": len(toDelete),
		},
	})
	e.notify(ctx, "candidate.restored", companyID, map[string]any{
		"candidateId":   candidateID,
		"candidateName": name,
	})

	return e.succeed(start, Result{
		Success:             true,
		RemovedAssociations: len(toDelete),
		Metadata:            map[string]string{"candidateName": name},
	}), nil
}

// PermanentlyDelete removes an entity and every association referencing it.
// Irreversible, allowed from any lifecycle state.
func (e *Engine) PermanentlyDelete(ctx context.Context, id string, entityType EntityType, actorID, companyID string) (Result, error) {
	start := time.Now()

	if err := validateActor(actorID, companyID); err != nil {
		return e.fail(err)
	}
	if id == "" {
		return e.fail(fmt.Errorf("%w: id is required", ErrValidation))
	}

	switch entityType {
	case TypeJob:
		return e.deleteJob(ctx, start, id, actorID, companyID)
	case TypeCandidate:
		return e.deleteCandidate(ctx, start, id, actorID, companyID)
	}
	return e.fail(fmt.Errorf("%w: unknown entity type %q", ErrValidation, entityType))
}

func (e *Engine) deleteJob(ctx context.Context, start time.Time, id, actorID, companyID string) (Result, error) {
	job, err := e.store.GetJob(ctx, id)
	if err != nil {
		return e.fail(classifyRead(err, "job"))
	}
	if job.CompanyID != companyID {
		return e.fail(ErrAccessDenied)
	}

	assocs, err := e.store.AssociationsByJob(ctx, companyID, id)
	if err != nil {
		return e.fail(fmt.Errorf("%w: %v", ErrStore, err))
	}
	toDelete := associationsForDelete(assocs)

	batch := Batch{
		CompanyID:          companyID,
		JobDelete:          &EntityDelete{CompanyID: companyID, ID: id, ExpectedVersion: job.Version},
		AssociationDeletes: toDelete,
	}
	if err := e.commit(ctx, batch); err != nil {
		return e.fail(err)
	}
	metrics.AddAssociationsPruned(len(toDelete))

	e.report(ctx, activity.Event{
		Type:       activity.TypeJobDeleted,
		UserID:     actorID,
		CompanyID:  companyID,
		EntityType: activity.EntityJob,
		EntityID:   id,
		Metadata: map[string]any{
			"entityName":          job.Title,
			"removedAssociations": len(toDelete),
		},
	})
	e.notify(ctx, "job.deleted", companyID, map[string]any{
		"jobId":    id,
		"jobTitle": job.Title,
	})

	return e.succeed(start, Result{
		Success:             true,
		RemovedAssociations: len(toDelete),
		Metadata: map[string]string{
			"jobTitle":   job.Title,
			"jobCompany": job.Company,
		},
	}), nil
}

func (e *Engine) deleteCandidate(ctx context.Context, start time.Time, id, actorID, companyID string) (Result, error) {
	cand, err := e.store.GetCandidate(ctx, id)
	if err != nil {
		return e.fail(classifyRead(err, "candidate"))
	}
	if cand.CompanyID != companyID {
		return e.fail(ErrAccessDenied)
	}

	assocs, err := e.store.AssociationsByCandidate(ctx, companyID, id)
	if err != nil {
		return e.fail(fmt.Errorf("%w: %v", ErrStore, err))
	}
	toDelete := associationsForDelete(assocs)

	batch := Batch{
		CompanyID:          companyID,
		CandidateDelete:    &EntityDelete{CompanyID: companyID, ID: id, ExpectedVersion: cand.Version},
		AssociationDeletes: toDelete,
	}
	if err := e.commit(ctx, batch); err != nil {
		return e.fail(err)
	}
	metrics.AddAssociationsPruned(len(toDelete))

	name := cand.FullName()
	e.report(ctx, activity.Event{
		Type:       activity.TypeCandidateDeleted,
		UserID:     actorID,
		CompanyID:  companyID,
		EntityType: activity.EntityCandidate,
		EntityID:   id,
		Metadata: map[string]any{
			"entityName":          name,
			"removedAssociations": len(toDelete),
		},
	})
	e.notify(ctx, "candidate.deleted", companyID, map[string]any{
		"candidateId":   id,
		"candidateName": name,
	})

	return e.succeed(start, Result{
		Success:             true,
		RemovedAssociations: len(toDelete),
		Metadata:            map[string]string{"candidateName": name},
	}), nil
}

// CloseJob archives the job and prunes its associations in one batch,
// keeping only the hired candidate's link as the placement record. With no
// hired candidate the job is closed as cancelled and all links are removed.
func (e *Engine) CloseJob(ctx context.Context, jobID, hiredCandidateID, actorID, companyID, notes string) (Result, error) {
	start := time.Now()

	if err := validateActor(actorID, companyID); err != nil {
		return e.fail(err)
	}
	if jobID == "" {
		return e.fail(fmt.Errorf("%w: jobId is required", ErrValidation))
	}

	job, err := e.store.GetJob(ctx, jobID)
	if err != nil {
		return e.fail(classifyRead(err, "job"))
	}
	if job.CompanyID != companyID {
		return e.fail(ErrAccessDenied)
	}
	if job.Status == jobs.StatusArchived {
		return e.fail(fmt.Errorf("%w: job is already archived", ErrInvalidState))
	}

	reason := ReasonPositionCancelled
	if hiredCandidateID != "" {
		hired, err := e.store.GetCandidate(ctx, hiredCandidateID)
		if err != nil {
			return e.fail(classifyRead(err, "candidate"))
		}
		if hired.CompanyID != companyID {
			return e.fail(ErrAccessDenied)
		}
		reason = ReasonHired
	}

	assocs, err := e.store.AssociationsByJob(ctx, companyID, jobID)
	if err != nil {
		return e.fail(fmt.Errorf("%w: %v", ErrStore, err))
	}
	toDelete := associationsForCloseJob(assocs, hiredCandidateID)

	now := time.Now().UTC()
	job.Status = jobs.StatusArchived
	job.Visibility = jobs.VisibilityArchived
	job.Active = false
	job.Archive = &jobs.ArchiveMetadata{
		ArchivedAt:     now,
		ArchivedBy:     actorID,
		ArchivedByName: e.actorName(ctx, companyID, actorID),
		Reason:         string(reason),
		Notes:          notes,
	}
	job.UpdatedAt = now
	job.UpdatedBy = actorID

	batch := Batch{
		CompanyID:          companyID,
		JobUpdate:          &JobUpdate{Job: job, ExpectedVersion: job.Version},
		AssociationDeletes: toDelete,
	}
	if err := e.commit(ctx, batch); err != nil {
		return e.fail(err)
	}
	metrics.AddAssociationsPruned(len(toDelete))

	e.report(ctx, activity.Event{
		Type:       activity.TypeJobClosed,
		UserID:     actorID,
		CompanyID:  companyID,
		EntityType: activity.EntityJob,
		EntityID:   jobID,
		Metadata: map[string]any{
			"entityName":          job.Title,
			"hiredCandidateId":    hiredCandidateID,
			"removedAssociations": len(toDelete),
		},
	})
	e.notify(ctx, "job.closed", companyID, map[string]any{
		"jobId":            jobID,
		"jobTitle":         job.Title,
		"hiredCandidateId": hiredCandidateID,
	})

	return e.succeed(start, Result{
		Success:             true,
		RemovedAssociations: len(toDelete),
		Metadata: map[string]string{
			"jobTitle":   job.Title,
			"jobCompany": job.Company,
		},
	}), nil
}

func (e *Engine) commit(ctx context.Context, b Batch) error {
	err := e.store.Commit(ctx, b)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) {
		metrics.IncArchiveConflict()
		return err
	}
	telemetry.Error("archive.store_error", map[string]any{
		"company_id": b.CompanyID,
		"error":      err.Error(),
	})
	return fmt.Errorf("%w: %v", ErrStore, err)
}

func (e *Engine) actorName(ctx context.Context, companyID, actorID string) string {
	if e.users == nil {
		return "Unknown User"
	}
	u, err := e.users.GetByID(ctx, actorID)
	if err != nil || (u.CompanyID != "" && u.CompanyID != companyID) {
		return "Unknown User"
	}
	return u.DisplayName()
}

func (e *Engine) report(ctx context.Context, ev activity.Event) {
	e.activity.Report(ctx, ev)
}

func (e *Engine) notify(ctx context.Context, event, companyID string, payload map[string]any) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(ctx, event, companyID, payload)
}

func (e *Engine) fail(err error) (Result, error) {
	metrics.IncArchiveOpFailed()
	return Result{Success: false}, err
}

func (e *Engine) succeed(start time.Time, res Result) Result {
	metrics.IncArchiveOp()
	metrics.ObserveArchiveOpDurationMs(float64(time.Since(start).Milliseconds()))
	return res
}

func validateActor(actorID, companyID string) error {
	if actorID == "" {
		return fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if companyID == "" {
		return fmt.Errorf("%w: company context is required", ErrValidation)
	}
	return nil
}

// classifyRead maps a store read failure onto the error taxonomy.
func classifyRead(err error, entity string) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, entity)
	}
	telemetry.Error("archive.store_error", map[string]any{"error": err.Error()})
	return fmt.Errorf("%w: %v", ErrStore, err)
}
