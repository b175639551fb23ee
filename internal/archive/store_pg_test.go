package archive

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"sandra-backend/internal/jobs"
)

func TestPGStoreGetJobNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, company_id, title, company, status, version").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "title", "company", "status", "version"}))

	store := &PGStore{DB: db}
	_, err = store.GetJob(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreCommitJobUpdateInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	job := jobs.Job{
		ID:         "job-1",
		CompanyID:  "acme",
		Status:     jobs.StatusArchived,
		Visibility: jobs.VisibilityArchived,
		Active:     false,
		Archive: &jobs.ArchiveMetadata{
			ArchivedAt:     now,
			ArchivedBy:     "user-1",
			ArchivedByName: "Jane Doe",
			Reason:         string(ReasonExpired),
		},
		UpdatedAt: now,
		UpdatedBy: "user-1",
		Version:   3,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs SET").
		WithArgs(
			job.ID, job.CompanyID, job.Status, job.Visibility, job.Active,
			job.Archive.ArchivedAt, job.Archive.ArchivedBy, job.Archive.ArchivedByName,
			job.Archive.Reason, job.Archive.Notes,
			job.UpdatedAt, job.UpdatedBy, int64(3),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM candidate_jobs WHERE company_id").
		WithArgs("acme", "assoc-1", "assoc-2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	store := &PGStore{DB: db}
	batch := Batch{
		CompanyID:          "acme",
		JobUpdate:          &JobUpdate{Job: job, ExpectedVersion: 3},
		AssociationDeletes: []string{"assoc-1", "assoc-2"},
	}
	if err := store.Commit(context.Background(), batch); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreCommitVersionMismatchRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	store := &PGStore{DB: db}
	batch := Batch{
		CompanyID:          "acme",
		JobUpdate:          &JobUpdate{Job: jobs.Job{ID: "job-1", CompanyID: "acme"}, ExpectedVersion: 2},
		AssociationDeletes: []string{"assoc-1"},
	}
	err = store.Commit(context.Background(), batch)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreCommitDeletesAssociationsInChunks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ids := make([]string, deleteChunkSize+5)
	for i := range ids {
		ids[i] = fmt.Sprintf("assoc-%d", i)
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM jobs WHERE id").
		WithArgs("job-1", "acme", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM candidate_jobs WHERE company_id").
		WillReturnResult(sqlmock.NewResult(0, int64(deleteChunkSize)))
	mock.ExpectExec("DELETE FROM candidate_jobs WHERE company_id").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	store := &PGStore{DB: db}
	batch := Batch{
		CompanyID:          "acme",
		JobDelete:          &EntityDelete{CompanyID: "acme", ID: "job-1", ExpectedVersion: 1},
		AssociationDeletes: ids,
	}
	if err := store.Commit(context.Background(), batch); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
