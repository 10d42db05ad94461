package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres. Deleting an account cascades to its
// profile and resumes through foreign keys.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, acct Account) error {
	const query = `
INSERT INTO accounts (id, username, email, first_name, last_name, password_hash, is_admin, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		acct.ID,
		acct.Username,
		acct.Email,
		acct.FirstName,
		acct.LastName,
		nullableString(acct.PasswordHash),
		acct.IsAdmin,
		acct.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUsernameTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Account, error) {
	const query = `
SELECT id, username, email, first_name, last_name, password_hash, is_admin, created_at
FROM accounts
WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (Account, error) {
	const query = `
SELECT id, username, email, first_name, last_name, password_hash, is_admin, created_at
FROM accounts
WHERE username = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, username))
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
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

func (r *PGRepo) scanOne(row *sql.Row) (Account, error) {
	var acct Account
	var passwordHash sql.NullString
	err := row.Scan(
		&acct.ID,
		&acct.Username,
		&acct.Email,
		&acct.FirstName,
		&acct.LastName,
		&passwordHash,
		&acct.IsAdmin,
		&acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	if passwordHash.Valid {
		acct.PasswordHash = passwordHash.String
	}
	return acct, nil
}

// External accounts have no password; NULL keeps them out of password login.
func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
