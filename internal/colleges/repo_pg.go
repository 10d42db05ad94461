package colleges

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres. Profiles referencing a deleted
// college have their college_id set to NULL by the foreign key.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, college College) error {
	const query = `
INSERT INTO colleges (id, name, department, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, college.ID, college.Name, college.Department, college.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (College, error) {
	const query = `
SELECT id, name, department, created_at
FROM colleges
WHERE id = $1`
	var college College
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&college.ID, &college.Name, &college.Department, &college.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return College{}, ErrNotFound
		}
		return College{}, err
	}
	return college, nil
}

func (r *PGRepo) List(ctx context.Context) ([]College, error) {
	const query = `
SELECT id, name, department, created_at
FROM colleges
ORDER BY name, department`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]College, 0)
	for rows.Next() {
		var college College
		if err := rows.Scan(&college.ID, &college.Name, &college.Department, &college.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, college)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM colleges WHERE id = $1`, id)
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
