package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (id, profile_id, file_name, storage_key, content_type, size_bytes, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.ProfileID,
		res.FileName,
		res.StorageKey,
		res.ContentType,
		res.SizeBytes,
		res.UploadedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT id, profile_id, file_name, storage_key, content_type, size_bytes, uploaded_at
FROM resumes
WHERE id = $1`
	var res Resume
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.ProfileID,
		&res.FileName,
		&res.StorageKey,
		&res.ContentType,
		&res.SizeBytes,
		&res.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

func (r *PGRepo) ListByProfile(ctx context.Context, profileID string) ([]Resume, error) {
	const query = `
SELECT id, profile_id, file_name, storage_key, content_type, size_bytes, uploaded_at
FROM resumes
WHERE profile_id = $1
ORDER BY uploaded_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		var res Resume
		if err := rows.Scan(
			&res.ID,
			&res.ProfileID,
			&res.FileName,
			&res.StorageKey,
			&res.ContentType,
			&res.SizeBytes,
			&res.UploadedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteByProfile(ctx context.Context, profileID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE profile_id = $1`, profileID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
