package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/colleges"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/shared/validate"
)

// CollegeLookup resolves college ids for assignment.
type CollegeLookup interface {
	Get(ctx context.Context, id string) (colleges.College, error)
}

// AccountLookup reports whether an account still exists.
type AccountLookup interface {
	Exists(ctx context.Context, accountID string) (bool, error)
}

type Service struct {
	Repo     Repo
	Colleges CollegeLookup
	// Accounts, when set, stops profiles being created for deleted accounts.
	Accounts AccountLookup
	now      func() time.Time
}

func NewService(repo Repo, lookup CollegeLookup) *Service {
	return &Service{Repo: repo, Colleges: lookup, now: time.Now}
}

// GetOrCreate returns the owner's profile, creating it with defaults on first
// use. Calling it any number of times yields the same profile.
func (s *Service) GetOrCreate(ctx context.Context, owner Owner) (Profile, error) {
	if strings.TrimSpace(owner.AccountID) == "" {
		return Profile{}, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if s.Accounts != nil {
		ok, err := s.Accounts.Exists(ctx, owner.AccountID)
		if err != nil {
			return Profile{}, fmt.Errorf("check account: %w", err)
		}
		if !ok {
			return Profile{}, ErrNoAccount
		}
	}
	p := Profile{
		ID:        uuid.NewString(),
		AccountID: owner.AccountID,
		Name:      owner.DefaultName(),
		Email:     strings.TrimSpace(owner.Email),
		CreatedAt: s.now().UTC(),
	}
	stored, created, err := s.Repo.GetOrCreate(ctx, p)
	if errors.Is(err, ErrEmailTaken) {
		// Another profile already claims the account email; start without one.
		telemetry.Warn("profiles.default_email_taken", map[string]any{
			"account_id": owner.AccountID,
		})
		p.Email = ""
		stored, created, err = s.Repo.GetOrCreate(ctx, p)
	}
	if err != nil {
		return Profile{}, err
	}
	if created {
		telemetry.Info("profiles.created", map[string]any{
			"account_id": stored.AccountID,
			"profile_id": stored.ID,
		})
	}
	return stored, nil
}

// Provision is the account-created hook.
func (s *Service) Provision(ctx context.Context, owner Owner) error {
	_, err := s.GetOrCreate(ctx, owner)
	return err
}

func (s *Service) Get(ctx context.Context, accountID string) (Profile, error) {
	if strings.TrimSpace(accountID) == "" {
		return Profile{}, ErrNotFound
	}
	return s.Repo.GetByAccount(ctx, accountID)
}

type UpdateInput struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"omitempty,email"`
	CollegeID *string `json:"collegeId"`
}

// Update replaces name, email and college. A nil CollegeID clears the college.
func (s *Service) Update(ctx context.Context, accountID string, in UpdateInput) (Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.checkCollege(ctx, in.CollegeID); err != nil {
		return Profile{}, err
	}

	p, err := s.Get(ctx, accountID)
	if err != nil {
		return Profile{}, err
	}
	p.Name = in.Name
	p.Email = in.Email
	p.CollegeID = in.CollegeID
	if err := s.Repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// AssignCollege sets or clears (nil) the profile's college.
func (s *Service) AssignCollege(ctx context.Context, accountID string, collegeID *string) (Profile, error) {
	if err := s.checkCollege(ctx, collegeID); err != nil {
		return Profile{}, err
	}
	p, err := s.Get(ctx, accountID)
	if err != nil {
		return Profile{}, err
	}
	p.CollegeID = collegeID
	if err := s.Repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) checkCollege(ctx context.Context, collegeID *string) error {
	if collegeID == nil {
		return nil
	}
	if s.Colleges == nil {
		return ErrUnknownCollege
	}
	if _, err := s.Colleges.Get(ctx, *collegeID); err != nil {
		if errors.Is(err, colleges.ErrNotFound) {
			return ErrUnknownCollege
		}
		return err
	}
	return nil
}

// DeleteByAccount removes the account's profile. A missing profile is not an error.
func (s *Service) DeleteByAccount(ctx context.Context, accountID string) error {
	err := s.Repo.DeleteByAccount(ctx, accountID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// ClearCollege detaches every profile from a deleted college.
func (s *Service) ClearCollege(ctx context.Context, collegeID string) error {
	n, err := s.Repo.ClearCollege(ctx, collegeID)
	if err != nil {
		return err
	}
	if n > 0 {
		telemetry.Info("profiles.college_cleared", map[string]any{
			"college_id": collegeID,
			"profiles":   n,
		})
	}
	return nil
}
