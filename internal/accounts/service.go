package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-matcher/internal/shared/auth"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/shared/validate"
)

// CreatedHook runs after an account is stored.
type CreatedHook func(ctx context.Context, acct Account) error

// DeletedHook runs after an account is removed.
type DeletedHook func(ctx context.Context, accountID string) error

// Service registers, authenticates and removes accounts.
type Service struct {
	Repo    Repo
	Signer  *auth.Signer
	Revoker auth.Revoker
	admins  map[string]struct{}
	now     func() time.Time

	mu        sync.RWMutex
	onCreated []CreatedHook
	onDeleted []DeletedHook
}

func NewService(repo Repo, signer *auth.Signer, revoker auth.Revoker, adminUsernames []string) *Service {
	admins := make(map[string]struct{}, len(adminUsernames))
	for _, name := range adminUsernames {
		if name = strings.TrimSpace(name); name != "" {
			admins[name] = struct{}{}
		}
	}
	return &Service{
		Repo:    repo,
		Signer:  signer,
		Revoker: revoker,
		admins:  admins,
		now:     time.Now,
	}
}

// OnCreated registers a hook. Hooks run in registration order.
func (s *Service) OnCreated(h CreatedHook) {
	s.mu.Lock()
	s.onCreated = append(s.onCreated, h)
	s.mu.Unlock()
}

// OnDeleted registers a hook. Hooks run in registration order.
func (s *Service) OnDeleted(h DeletedHook) {
	s.mu.Lock()
	s.onDeleted = append(s.onDeleted, h)
	s.mu.Unlock()
}

type RegisterInput struct {
	Username  string `json:"username" form:"username" validate:"required,max=150,excludesall=:"`
	Email     string `json:"email" form:"email" validate:"omitempty,email"`
	Password  string `json:"password" form:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" form:"firstName" validate:"max=150"`
	LastName  string `json:"lastName" form:"lastName" validate:"max=150"`
}

// Register creates a password account and runs the created hooks. When a hook
// fails the account is still returned together with an ErrHookFailed error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validate.Struct(in); err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	_, admin := s.admins[in.Username]
	acct := Account{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		IsAdmin:      admin,
		CreatedAt:    s.now().UTC(),
	}
	return s.create(ctx, acct)
}

// EnsureExternal returns the account bound to provider:subject, creating it on
// first sight. External accounts cannot log in with a password.
func (s *Service) EnsureExternal(ctx context.Context, provider, subject, email, name string) (Account, error) {
	provider = strings.TrimSpace(provider)
	subject = strings.TrimSpace(subject)
	if provider == "" || subject == "" {
		return Account{}, fmt.Errorf("%w: provider and subject are required", ErrInvalidInput)
	}
	username := provider + ":" + subject

	acct, err := s.Repo.GetByUsername(ctx, username)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	acct = Account{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     strings.TrimSpace(email),
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		CreatedAt: s.now().UTC(),
	}
	acct, err = s.create(ctx, acct)
	if errors.Is(err, ErrUsernameTaken) {
		// Lost a race with a concurrent callback for the same subject.
		return s.Repo.GetByUsername(ctx, username)
	}
	return acct, err
}

func (s *Service) create(ctx context.Context, acct Account) (Account, error) {
	if err := s.Repo.Create(ctx, acct); err != nil {
		return Account{}, err
	}

	s.mu.RLock()
	hooks := append([]CreatedHook(nil), s.onCreated...)
	s.mu.RUnlock()

	var hookErrs []error
	for _, h := range hooks {
		if err := h(ctx, acct); err != nil {
			telemetry.Error("accounts.created_hook_failed", map[string]any{
				"account_id": acct.ID,
				"err":        err,
			})
			hookErrs = append(hookErrs, err)
		}
	}
	if len(hookErrs) > 0 {
		return acct, fmt.Errorf("%w: %w", ErrHookFailed, errors.Join(hookErrs...))
	}
	return acct, nil
}

// Login checks the password and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (Account, string, error) {
	acct, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, "", ErrInvalidCredentials
		}
		return Account{}, "", err
	}
	if acct.PasswordHash == "" {
		return Account{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return Account{}, "", ErrInvalidCredentials
	}
	token, err := s.Issue(acct)
	if err != nil {
		return Account{}, "", err
	}
	return acct, token, nil
}

// Issue signs a session token for acct.
func (s *Service) Issue(acct Account) (string, error) {
	if s.Signer == nil {
		return "", errors.New("token signer not configured")
	}
	return s.Signer.Sign(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: acct.ID},
		Username:         acct.Username,
		Email:            acct.Email,
		Name:             acct.DisplayName(),
		IsAdmin:          acct.IsAdmin,
	})
}

// Logout revokes the token described by claims until it would have expired.
func (s *Service) Logout(ctx context.Context, claims auth.Claims) error {
	if s.Revoker == nil || claims.ID == "" {
		return nil
	}
	until := s.now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.Revoker.Revoke(ctx, claims.ID, until)
}

func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	if strings.TrimSpace(id) == "" {
		return Account{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Exists reports whether the account is still stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Delete removes the account then runs the deleted hooks.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.RLock()
	hooks := append([]DeletedHook(nil), s.onDeleted...)
	s.mu.RUnlock()

	for _, h := range hooks {
		if err := h(ctx, id); err != nil {
			return fmt.Errorf("%w: %w", ErrHookFailed, err)
		}
	}
	return nil
}

// LoginExternal ensures the external account and signs a session for it.
func (s *Service) LoginExternal(ctx context.Context, provider, subject, email, name string) (string, error) {
	acct, err := s.EnsureExternal(ctx, provider, subject, email, name)
	if err != nil && !errors.Is(err, ErrHookFailed) {
		return "", err
	}
	return s.Issue(acct)
}
