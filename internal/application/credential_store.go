package application

import (
	"context"
	"strings"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/helpers"
	"github.com/oksasatya/student-manager/pkg/validation"
)

// NewIdentity is the input for creating an identity. Password is plaintext
// and never leaves this package except as a bcrypt hash.
type NewIdentity struct {
	Name     string      `json:"name" validate:"required,personname"`
	Email    string      `json:"email" validate:"required,email,max=254"`
	Password string      `json:"password" validate:"required,strongpwd"`
	Role     entity.Role `json:"role" validate:"required,oneof=admin user"`
}

// IdentityChanges is a partial identity update. Nil fields are untouched.
type IdentityChanges struct {
	Name     *string         `json:"name,omitempty" validate:"omitempty,personname"`
	Email    *string         `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Password *PasswordChange `json:"-" validate:"-"`
}

func (c *IdentityChanges) IsEmpty() bool {
	return c == nil || (c.Name == nil && c.Email == nil && c.Password == nil)
}

// PasswordChange is an approved, already hashed new password for one
// identity. Only ApprovePasswordChange can build one.
type PasswordChange struct {
	identityID string
	hash       string
}

// CredentialStore owns identities: normalization, validation, hashing and
// password verification on top of an IdentityRepository.
type CredentialStore struct {
	repo repository.IdentityRepository
}

func NewCredentialStore(repo repository.IdentityRepository) *CredentialStore {
	return &CredentialStore{repo: repo}
}

// Bind returns a store that writes through repo, typically a transaction's.
func (s *CredentialStore) Bind(repo repository.IdentityRepository) *CredentialStore {
	return &CredentialStore{repo: repo}
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// Prepare validates in and returns an unsaved identity with its password
// hashed. Hashing happens here so callers can do it before opening a
// transaction.
func (s *CredentialStore) Prepare(in NewIdentity) (*entity.Identity, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &entity.Identity{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role}, nil
}

// Insert persists a prepared identity and fills its id and timestamps.
func (s *CredentialStore) Insert(ctx context.Context, i *entity.Identity) error {
	return s.repo.Create(ctx, i)
}

// Create validates, hashes and stores a new identity. The result carries no
// password hash.
func (s *CredentialStore) Create(ctx context.Context, in NewIdentity) (*entity.Identity, error) {
	i, err := s.Prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.Insert(ctx, i); err != nil {
		return nil, err
	}
	return i.Sanitized(), nil
}

// FindByID returns the stored identity including its hash.
func (s *CredentialStore) FindByID(ctx context.Context, id string) (*entity.Identity, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByEmail returns the stored identity including its hash.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// VerifyPassword compares candidate with the stored bcrypt hash.
func (s *CredentialStore) VerifyPassword(i *entity.Identity, candidate string) bool {
	if i == nil || i.PasswordHash == "" || candidate == "" {
		return false
	}
	return helpers.CompareHashAndPassword(i.PasswordHash, candidate)
}

// ApprovePasswordChange verifies the current password of i and hashes next.
func (s *CredentialStore) ApprovePasswordChange(i *entity.Identity, current, next string) (*PasswordChange, error) {
	if current == "" {
		return nil, apperror.Field("currentPassword", "is required to change the password")
	}
	if !validation.StrongPassword(next) {
		return nil, apperror.Field("password", "must be at least 6 characters with uppercase, lowercase, number and special character")
	}
	if !s.VerifyPassword(i, current) {
		return nil, apperror.Unauthenticated("current password is incorrect")
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &PasswordChange{identityID: i.ID, hash: hash}, nil
}

// NormalizeChanges trims and validates c in place.
func (s *CredentialStore) NormalizeChanges(c *IdentityChanges) error {
	if c == nil {
		return nil
	}
	c.Name = trimPtr(c.Name)
	if c.Email != nil {
		e := normalizeEmail(*c.Email)
		c.Email = &e
	}
	return validation.Struct(c)
}

// Update applies c to the identity id.
func (s *CredentialStore) Update(ctx context.Context, id string, c IdentityChanges) (*entity.Identity, error) {
	if err := s.NormalizeChanges(&c); err != nil {
		return nil, err
	}
	patch := entity.IdentityPatch{Name: c.Name, Email: c.Email}
	if c.Password != nil {
		if c.Password.identityID != id {
			return nil, apperror.Forbidden("password change was approved for another account")
		}
		patch.PasswordHash = &c.Password.hash
	}
	i, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return i.Sanitized(), nil
}

// Delete removes the identity; the store removes its profile with it.
func (s *CredentialStore) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// ListByRole returns identities of role newest first, without hashes.
func (s *CredentialStore) ListByRole(ctx context.Context, role entity.Role) ([]*entity.Identity, error) {
	list, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	for k, i := range list {
		list[k] = i.Sanitized()
	}
	return list, nil
}
