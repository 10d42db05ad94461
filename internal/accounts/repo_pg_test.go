package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	acct := Account{
		ID:        "acct-1",
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(acct.ID, acct.Username, acct.Email, "", "", nil, false, acct.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if err := repo.Create(context.Background(), acct); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByUsernameScansNullPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "email", "first_name", "last_name", "password_hash", "is_admin", "created_at"}).
		AddRow("acct-1", "google:123", "g@example.com", "Grace", "Hopper", nil, false, created)
	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("google:123").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	acct, err := repo.GetByUsername(context.Background(), "google:123")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if acct.PasswordHash != "" || acct.FullName() != "Grace Hopper" || !acct.CreatedAt.Equal(created) {
		t.Fatalf("unexpected account %+v", acct)
	}
}

func TestPGRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM accounts").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
