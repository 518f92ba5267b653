package repository

import (
	"context"

	"github.com/oksasatya/student-manager/internal/domain/entity"
)

// ProfileRepository persists profiles keyed by their owning identity.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByIdentity(ctx context.Context, identityID string) (*entity.Profile, error)
	ListByIdentities(ctx context.Context, identityIDs []string) ([]*entity.Profile, error)
	Update(ctx context.Context, identityID string, patch entity.ProfilePatch) (*entity.Profile, error)
	// Delete removes at most one row; deleting a missing profile is not an error.
	Delete(ctx context.Context, identityID string) (bool, error)
}
