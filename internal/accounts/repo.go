package accounts

import "context"

// Repo persists accounts. Usernames are unique.
type Repo interface {
	Create(ctx context.Context, acct Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	Delete(ctx context.Context, id string) error
}
