package profiles

import "context"

// Repo persists profiles. AccountID is unique; Email is unique when non-empty.
type Repo interface {
	// GetOrCreate inserts p unless a profile already exists for p.AccountID,
	// and returns the stored profile.
	GetOrCreate(ctx context.Context, p Profile) (Profile, bool, error)
	GetByAccount(ctx context.Context, accountID string) (Profile, error)
	Update(ctx context.Context, p Profile) error
	DeleteByAccount(ctx context.Context, accountID string) error
	ClearCollege(ctx context.Context, collegeID string) (int, error)
}
