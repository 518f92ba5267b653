package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/helpers"
)

// PasswordUpdate asks for a new password; Current must verify first.
type PasswordUpdate struct {
	Current string
	New     string
}

// StudentSelfUpdate is what a standard identity may change on itself.
type StudentSelfUpdate struct {
	Name      *string
	FirstName *string
	LastName  *string
	Phone     *string
	Password  *PasswordUpdate
}

// AdminSelfUpdate is what an administrator may change on itself.
type AdminSelfUpdate struct {
	Name     *string
	Email    *string
	Password *PasswordUpdate
}

// AccountService is self-service on the caller's own identity. The
// identity id always comes from the verified session.
type AccountService struct {
	Credentials   *CredentialStore
	Profiles      *ProfileStore
	Coordinator   *Coordinator
	Notifications *Notifications
	Logger        *logrus.Logger
}

func NewAccountService(creds *CredentialStore, profiles *ProfileStore, coord *Coordinator, notes *Notifications, logger *logrus.Logger) *AccountService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AccountService{Credentials: creds, Profiles: profiles, Coordinator: coord, Notifications: notes, Logger: logger}
}

func (s *AccountService) load(ctx context.Context, id string, role entity.Role) (*entity.Identity, error) {
	i, err := s.Credentials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i.Role != role {
		return nil, apperror.Forbidden("account has a different role")
	}
	return i, nil
}

func (s *AccountService) approve(i *entity.Identity, pu *PasswordUpdate) (*PasswordChange, error) {
	if pu == nil {
		return nil, nil
	}
	return s.Credentials.ApprovePasswordChange(i, pu.Current, pu.New)
}

// GetStudent returns the caller's identity and profile.
func (s *AccountService) GetStudent(ctx context.Context, id string) (*LinkedPair, error) {
	i, err := s.load(ctx, id, entity.RoleStandard)
	if err != nil {
		return nil, err
	}
	p, err := s.Profiles.FindByIdentity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LinkedPair{Identity: i.Sanitized(), Profile: p}, nil
}

// UpdateStudent always goes through the coordinator, even for profile-only
// changes.
func (s *AccountService) UpdateStudent(ctx context.Context, id string, in StudentSelfUpdate) (*LinkedPair, error) {
	i, err := s.load(ctx, id, entity.RoleStandard)
	if err != nil {
		return nil, err
	}
	pc, err := s.approve(i, in.Password)
	if err != nil {
		return nil, err
	}
	changes := &IdentityChanges{Name: in.Name, Password: pc}
	patch := &entity.ProfilePatch{FirstName: in.FirstName, LastName: in.LastName, Phone: in.Phone}

	pair, err := s.Coordinator.UpdateLinkedPair(ctx, id, changes, patch)
	if err != nil {
		return nil, err
	}
	if pc != nil {
		s.Logger.WithField("identity_id", id).Info("password changed")
		s.Notifications.PasswordChanged(ctx, i)
	}
	return pair, nil
}

// DeleteStudent removes the caller's identity and profile.
func (s *AccountService) DeleteStudent(ctx context.Context, id string) error {
	i, err := s.load(ctx, id, entity.RoleStandard)
	if err != nil {
		return err
	}
	return s.delete(ctx, i)
}

func (s *AccountService) GetAdmin(ctx context.Context, id string) (*entity.Identity, error) {
	i, err := s.load(ctx, id, entity.RolePrivileged)
	if err != nil {
		return nil, err
	}
	return i.Sanitized(), nil
}

func (s *AccountService) UpdateAdmin(ctx context.Context, id string, in AdminSelfUpdate) (*entity.Identity, error) {
	i, err := s.load(ctx, id, entity.RolePrivileged)
	if err != nil {
		return nil, err
	}
	pc, err := s.approve(i, in.Password)
	if err != nil {
		return nil, err
	}
	pair, err := s.Coordinator.UpdateLinkedPair(ctx, id, &IdentityChanges{Name: in.Name, Email: in.Email, Password: pc}, nil)
	if err != nil {
		return nil, err
	}
	if pc != nil {
		s.Logger.WithField("identity_id", id).Info("password changed")
		s.Notifications.PasswordChanged(ctx, pair.Identity)
	}
	return pair.Identity, nil
}

func (s *AccountService) DeleteAdmin(ctx context.Context, id string) error {
	i, err := s.load(ctx, id, entity.RolePrivileged)
	if err != nil {
		return err
	}
	return s.delete(ctx, i)
}

func (s *AccountService) delete(ctx context.Context, i *entity.Identity) error {
	deleted, err := s.Coordinator.DeleteIdentityCascade(ctx, i.ID)
	if err != nil {
		return err
	}
	if deleted {
		s.Logger.WithField("identity_id", i.ID).Info("account deleted")
		s.Notifications.AccountDeleted(ctx, i)
	}
	return nil
}
