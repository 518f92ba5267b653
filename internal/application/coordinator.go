package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/helpers"
)

// LinkedPair is an identity with its student profile. On update results a
// nil part means that part was not touched.
type LinkedPair struct {
	Identity *entity.Identity `json:"user"`
	Profile  *entity.Profile  `json:"student"`
}

// Coordinator is the only writer that changes an identity and its profile
// in one operation. Every method runs in a single transaction.
type Coordinator struct {
	UOW         repository.UnitOfWork
	Credentials *CredentialStore
	Profiles    *ProfileStore
	Logger      *logrus.Logger
}

func NewCoordinator(uow repository.UnitOfWork, creds *CredentialStore, profiles *ProfileStore, logger *logrus.Logger) *Coordinator {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &Coordinator{UOW: uow, Credentials: creds, Profiles: profiles, Logger: logger}
}

func errEmailMismatch() error {
	return apperror.Field("student.email", "must match the account email")
}

// CreateLinkedPair creates a standard identity and its profile. Either both
// rows exist afterwards or neither does.
func (c *Coordinator) CreateLinkedPair(ctx context.Context, ni NewIdentity, np NewProfile) (*LinkedPair, error) {
	ni.Role = entity.RoleStandard
	if normalizeEmail(ni.Email) != normalizeEmail(np.Email) {
		return nil, errEmailMismatch()
	}
	identity, err := c.Credentials.Prepare(ni)
	if err != nil {
		return nil, err
	}
	profile, err := c.Profiles.Prepare("", np)
	if err != nil {
		return nil, err
	}

	err = c.UOW.RunInTx(ctx, func(tx repository.Stores) error {
		if err := c.Credentials.Bind(tx.Identities()).Insert(ctx, identity); err != nil {
			return err
		}
		profile.IdentityID = identity.ID
		return c.Profiles.Bind(tx.Profiles()).Insert(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	linkedCreates.Add(1)
	return &LinkedPair{Identity: identity.Sanitized(), Profile: profile}, nil
}

// UpdateLinkedPair applies the non-empty parts of ic and pp to identityID.
// An identity-only update never touches the profile store, except that an
// email change on a standard identity is copied to its profile, and the
// result then carries that profile even though pp was empty. Otherwise
// untouched parts are nil in the result. A profile email that would differ
// from the identity email is rejected.
func (c *Coordinator) UpdateLinkedPair(ctx context.Context, identityID string, ic *IdentityChanges, pp *entity.ProfilePatch) (*LinkedPair, error) {
	var changes IdentityChanges
	if ic != nil {
		changes = *ic
	}
	var patch entity.ProfilePatch
	if pp != nil {
		patch = *pp
	}
	if err := c.Credentials.NormalizeChanges(&changes); err != nil {
		return nil, err
	}
	if err := c.Profiles.NormalizePatch(&patch); err != nil {
		return nil, err
	}
	if changes.IsEmpty() && patch.IsEmpty() {
		return nil, apperror.Validation("no updatable fields provided", nil)
	}
	if changes.Password != nil && changes.Password.identityID != identityID {
		return nil, apperror.Forbidden("password change was approved for another account")
	}

	var out LinkedPair
	err := c.UOW.RunInTx(ctx, func(tx repository.Stores) error {
		out = LinkedPair{}
		creds := c.Credentials.Bind(tx.Identities())
		profiles := c.Profiles.Bind(tx.Profiles())
		p := patch

		current, err := creds.FindByID(ctx, identityID)
		if err != nil {
			return err
		}
		email := current.Email
		if changes.Email != nil && *changes.Email != current.Email {
			email = *changes.Email
			if current.Role == entity.RoleStandard {
				if p.Email != nil && *p.Email != email {
					return errEmailMismatch()
				}
				p.Email = &email
			}
		}
		if p.Email != nil && *p.Email != email {
			return errEmailMismatch()
		}

		if !changes.IsEmpty() {
			if out.Identity, err = creds.Update(ctx, identityID, changes); err != nil {
				return err
			}
		}
		if !p.IsEmpty() {
			if out.Profile, err = profiles.Update(ctx, identityID, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			txConflicts.Add(1)
		}
		return nil, err
	}
	return &out, nil
}

// DeleteIdentityCascade deletes the profile and then the identity in one
// transaction. Deleting a missing identity reports false and no error. A
// write conflict is retried once.
func (c *Coordinator) DeleteIdentityCascade(ctx context.Context, identityID string) (bool, error) {
	deleted, err := c.deleteOnce(ctx, identityID)
	if errors.Is(err, apperror.ErrConflict) {
		txConflicts.Add(1)
		c.Logger.WithField("identity_id", identityID).Warn("cascade delete conflicted, retrying")
		deleted, err = c.deleteOnce(ctx, identityID)
	}
	if err != nil {
		return false, err
	}
	if deleted {
		cascadeDeletes.Add(1)
	}
	return deleted, nil
}

func (c *Coordinator) deleteOnce(ctx context.Context, identityID string) (deleted bool, err error) {
	err = c.UOW.RunInTx(ctx, func(tx repository.Stores) error {
		if _, err := c.Profiles.Bind(tx.Profiles()).Delete(ctx, identityID); err != nil {
			return err
		}
		deleted, err = c.Credentials.Bind(tx.Identities()).Delete(ctx, identityID)
		return err
	})
	return deleted, err
}
