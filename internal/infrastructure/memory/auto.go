package memory

import (
	"context"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
)

// autoIdentities and autoProfiles run every call in its own transaction.
type autoIdentities struct{ s *Store }

func (a autoIdentities) Create(ctx context.Context, i *entity.Identity) error {
	return a.s.RunInTx(ctx, func(tx repository.Stores) error {
		return tx.Identities().Create(ctx, i)
	})
}

func (a autoIdentities) GetByID(ctx context.Context, id string) (out *entity.Identity, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		out, err = tx.Identities().GetByID(ctx, id)
		return err
	})
	return out, err
}

func (a autoIdentities) GetByEmail(ctx context.Context, email string) (out *entity.Identity, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		out, err = tx.Identities().GetByEmail(ctx, email)
		return err
	})
	return out, err
}

func (a autoIdentities) Update(ctx context.Context, id string, patch entity.IdentityPatch) (out *entity.Identity, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		out, err = tx.Identities().Update(ctx, id, patch)
		return err
	})
	return out, err
}

func (a autoIdentities) Delete(ctx context.Context, id string) (deleted bool, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		deleted, err = tx.Identities().Delete(ctx, id)
		return err
	})
	return deleted, err
}

func (a autoIdentities) ListByRole(ctx context.Context, role entity.Role) (out []*entity.Identity, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		out, err = tx.Identities().ListByRole(ctx, role)
		return err
	})
	return out, err
}

type autoProfiles struct{ s *Store }

func (a autoProfiles) Create(ctx context.Context, p *entity.Profile) error {
	return a.s.RunInTx(ctx, func(tx repository.Stores) error {
		return tx.Profiles().Create(ctx, p)
	})
}

func (a autoProfiles) GetByIdentity(ctx context.Context, identityID string) (out *entity.Profile, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		out, err = tx.Profiles().GetByIdentity(ctx, identityID)
		return err
	})
	return out, err
}

func (a autoProfiles) ListByIdentities(ctx context.Context, identityIDs []string) (out []*entity.Profile, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		out, err = tx.Profiles().ListByIdentities(ctx, identityIDs)
		return err
	})
	return out, err
}

func (a autoProfiles) Update(ctx context.Context, identityID string, patch entity.ProfilePatch) (out *entity.Profile, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		out, err = tx.Profiles().Update(ctx, identityID, patch)
		return err
	})
	return out, err
}

func (a autoProfiles) Delete(ctx context.Context, identityID string) (deleted bool, err error) {
	err = a.s.RunInTx(ctx, func(tx repository.Stores) error {
		deleted, err = tx.Profiles().Delete(ctx, identityID)
		return err
	})
	return deleted, err
}
