package profiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"resume-matcher/internal/shared/storage/db"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	emailConstraint     = "profiles_email_key"
	accountConstraint   = "profiles_account_id_fkey"
	collegeConstraint   = "profiles_college_id_fkey"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetOrCreate inserts p unless the account already has a profile and returns
// the stored row. The insert and read share one transaction.
func (r *PGRepo) GetOrCreate(ctx context.Context, p Profile) (Profile, bool, error) {
	const insert = `
INSERT INTO profiles (id, account_id, name, email, college_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (account_id) DO NOTHING`
	var (
		stored  Profile
		created bool
	)
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insert,
			p.ID,
			p.AccountID,
			p.Name,
			nullableString(p.Email),
			p.CollegeID,
			p.CreatedAt,
		)
		if err != nil {
			return mapError(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		created = n == 1
		stored, err = getByAccount(ctx, tx, p.AccountID)
		return err
	})
	if err != nil {
		return Profile{}, false, err
	}
	return stored, created, nil
}

func (r *PGRepo) GetByAccount(ctx context.Context, accountID string) (Profile, error) {
	return getByAccount(ctx, r.DB, accountID)
}

func getByAccount(ctx context.Context, q rowQuerier, accountID string) (Profile, error) {
	const query = `
SELECT id, account_id, name, email, college_id, created_at
FROM profiles
WHERE account_id = $1`
	var p Profile
	var email sql.NullString
	var collegeID sql.NullString
	err := q.QueryRowContext(ctx, query, accountID).Scan(
		&p.ID,
		&p.AccountID,
		&p.Name,
		&email,
		&collegeID,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if email.Valid {
		p.Email = email.String
	}
	if collegeID.Valid {
		p.CollegeID = &collegeID.String
	}
	return p, nil
}

func (r *PGRepo) Update(ctx context.Context, p Profile) error {
	const query = `
UPDATE profiles
SET name = $2, email = $3, college_id = $4
WHERE account_id = $1`
	res, err := r.DB.ExecContext(ctx, query, p.AccountID, p.Name, nullableString(p.Email), p.CollegeID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE account_id = $1`, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ClearCollege(ctx context.Context, collegeID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE profiles SET college_id = NULL WHERE college_id = $1`, collegeID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == uniqueViolation && pgErr.ConstraintName == emailConstraint:
		return ErrEmailTaken
	case pgErr.Code == foreignKeyViolation && pgErr.ConstraintName == collegeConstraint:
		return ErrUnknownCollege
	case pgErr.Code == foreignKeyViolation && pgErr.ConstraintName == accountConstraint:
		return ErrNoAccount
	default:
		return err
	}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
