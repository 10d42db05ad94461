package colleges

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	colleges map[string]College
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{colleges: make(map[string]College)}
}

func (r *MemoryRepo) Create(ctx context.Context, college College) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colleges[college.ID] = college
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (College, error) {
	if err := ctx.Err(); err != nil {
		return College{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	college, ok := r.colleges[id]
	if !ok {
		return College{}, ErrNotFound
	}
	return college, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]College, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]College, 0, len(r.colleges))
	for _, college := range r.colleges {
		out = append(out, college)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Department < out[j].Department
	})
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.colleges[id]; !ok {
		return ErrNotFound
	}
	delete(r.colleges, id)
	return nil
}
