package resumes

import "context"

// Repo persists resume metadata. Bytes live in the object store.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	ListByProfile(ctx context.Context, profileID string) ([]Resume, error)
	DeleteByProfile(ctx context.Context, profileID string) (int, error)
}
