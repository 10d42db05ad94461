package profiles

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu        sync.Mutex
	byAccount map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byAccount: make(map[string]Profile)}
}

func (r *MemoryRepo) GetOrCreate(ctx context.Context, p Profile) (Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byAccount[p.AccountID]; ok {
		return clone(existing), false, nil
	}
	if r.emailTakenLocked(p.Email, p.AccountID) {
		return Profile{}, false, ErrEmailTaken
	}
	r.byAccount[p.AccountID] = clone(p)
	return clone(p), true, nil
}

func (r *MemoryRepo) GetByAccount(ctx context.Context, accountID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byAccount[accountID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byAccount[p.AccountID]
	if !ok {
		return ErrNotFound
	}
	if r.emailTakenLocked(p.Email, p.AccountID) {
		return ErrEmailTaken
	}
	existing.Name = p.Name
	existing.Email = p.Email
	existing.CollegeID = p.CollegeID
	r.byAccount[p.AccountID] = clone(existing)
	return nil
}

func (r *MemoryRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byAccount[accountID]; !ok {
		return ErrNotFound
	}
	delete(r.byAccount, accountID)
	return nil
}

func (r *MemoryRepo) ClearCollege(ctx context.Context, collegeID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, p := range r.byAccount {
		if p.CollegeID != nil && *p.CollegeID == collegeID {
			p.CollegeID = nil
			r.byAccount[id] = p
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) emailTakenLocked(email, accountID string) bool {
	if email == "" {
		return false
	}
	for id, p := range r.byAccount {
		if id != accountID && p.Email == email {
			return true
		}
	}
	return false
}

func clone(p Profile) Profile {
	if p.CollegeID != nil {
		id := *p.CollegeID
		p.CollegeID = &id
	}
	return p
}
