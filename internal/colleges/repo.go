package colleges

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("college not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Repo interface {
	Create(ctx context.Context, college College) error
	GetByID(ctx context.Context, id string) (College, error)
	List(ctx context.Context) ([]College, error)
	Delete(ctx context.Context, id string) error
}
