package repository

import (
	"context"

	"github.com/oksasatya/student-manager/internal/domain/entity"
)

// IdentityRepository persists identities. Lookups by email are
// case-insensitive. Missing rows are apperror NotFound, uniqueness
// violations apperror Conflict.
type IdentityRepository interface {
	Create(ctx context.Context, i *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	Update(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error)
	// Delete removes the identity and, through the store, its profile.
	Delete(ctx context.Context, id string) (bool, error)
	// ListByRole returns identities newest first.
	ListByRole(ctx context.Context, role entity.Role) ([]*entity.Identity, error)
}
