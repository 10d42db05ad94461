package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	res := Resume{
		ID:          "r-1",
		ProfileID:   "p-1",
		FileName:    "resume.pdf",
		StorageKey:  "secure_resumes/abc/123_resume.pdf",
		ContentType: PDFContentType,
		SizeBytes:   42,
		UploadedAt:  time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(res.ID, res.ProfileID, res.FileName, res.StorageKey, res.ContentType, res.SizeBytes, res.UploadedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), res); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByProfileNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	cols := []string{"id", "profile_id", "file_name", "storage_key", "content_type", "size_bytes", "uploaded_at"}
	mock.ExpectQuery("SELECT (.+) FROM resumes WHERE profile_id = \\$1 ORDER BY uploaded_at DESC").
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r-2", "p-1", "b.pdf", "k2", PDFContentType, 2, newer).
			AddRow("r-1", "p-1", "a.pdf", "k1", PDFContentType, 1, older))

	repo := &PGRepo{DB: db}
	got, err := repo.ListByProfile(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("ListByProfile: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r-2" || !got[1].UploadedAt.Equal(older) {
		t.Fatalf("unexpected resumes %+v", got)
	}
}

func TestPGRepoGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM resumes WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
