package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/helpers"
)

// StudentUpdate is what an administrator may change on a standard identity.
type StudentUpdate struct {
	Name    *string
	Email   *string
	Profile *entity.ProfilePatch
}

// AdminService manages standard identities on behalf of administrators.
type AdminService struct {
	Credentials   *CredentialStore
	Profiles      *ProfileStore
	Coordinator   *Coordinator
	Notifications *Notifications
	Logger        *logrus.Logger
}

func NewAdminService(creds *CredentialStore, profiles *ProfileStore, coord *Coordinator, notes *Notifications, logger *logrus.Logger) *AdminService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AdminService{Credentials: creds, Profiles: profiles, Coordinator: coord, Notifications: notes, Logger: logger}
}

// ListStudents returns every standard identity with its profile, newest
// first.
func (s *AdminService) ListStudents(ctx context.Context) ([]LinkedPair, error) {
	identities, err := s.Credentials.ListByRole(ctx, entity.RoleStandard)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(identities))
	for _, i := range identities {
		ids = append(ids, i.ID)
	}
	profiles, err := s.Profiles.ListByIdentities(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOwner := make(map[string]*entity.Profile, len(profiles))
	for _, p := range profiles {
		byOwner[p.IdentityID] = p
	}

	out := make([]LinkedPair, 0, len(identities))
	for _, i := range identities {
		out = append(out, LinkedPair{Identity: i, Profile: byOwner[i.ID]})
	}
	return out, nil
}

func (s *AdminService) target(ctx context.Context, id string) (*entity.Identity, error) {
	i, err := s.Credentials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i.Role != entity.RoleStandard {
		return nil, apperror.Forbidden("only student accounts can be managed")
	}
	return i, nil
}

func (s *AdminService) UpdateStudent(ctx context.Context, id string, in StudentUpdate) (*LinkedPair, error) {
	if _, err := s.target(ctx, id); err != nil {
		return nil, err
	}
	pair, err := s.Coordinator.UpdateLinkedPair(ctx, id, &IdentityChanges{Name: in.Name, Email: in.Email}, in.Profile)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("identity_id", id).Info("student updated by admin")
	return pair, nil
}

// DeleteStudent removes a standard identity and its profile. Deleting an
// id that no longer exists reports false and no error.
func (s *AdminService) DeleteStudent(ctx context.Context, id string) (bool, error) {
	i, err := s.target(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	deleted, err := s.Coordinator.DeleteIdentityCascade(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.Logger.WithField("identity_id", id).Info("student deleted by admin")
		s.Notifications.AccountDeleted(ctx, i)
	}
	return deleted, nil
}
