package colleges

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/shared/validate"
)

// DeletedHook runs after a college is removed.
type DeletedHook func(ctx context.Context, collegeID string) error

type Service struct {
	Repo      Repo
	onDeleted []DeletedHook
	now       func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// OnDeleted registers a hook. Register hooks before serving traffic.
func (s *Service) OnDeleted(h DeletedHook) {
	s.onDeleted = append(s.onDeleted, h)
}

func (s *Service) Create(ctx context.Context, name, department string) (College, error) {
	college := College{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		Department: strings.TrimSpace(department),
		CreatedAt:  s.now().UTC(),
	}
	if err := validate.Struct(college); err != nil {
		return College{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.Repo.Create(ctx, college); err != nil {
		return College{}, err
	}
	return college, nil
}

func (s *Service) Get(ctx context.Context, id string) (College, error) {
	if strings.TrimSpace(id) == "" {
		return College{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]College, error) {
	return s.Repo.List(ctx)
}

// Delete removes the college. Hooks detach referencing profiles.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, h := range s.onDeleted {
		if err := h(ctx, id); err != nil {
			return fmt.Errorf("college %s deleted, detach failed: %w", id, err)
		}
	}
	return nil
}
