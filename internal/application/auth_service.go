package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/helpers"
)

var errInvalidCredentials = apperror.Unauthenticated("invalid email or password")

// Revocations is the optional server-side deny-list of session token ids.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, exp time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService covers sign-up, sign-in, session verification and sign-out.
type AuthService struct {
	Credentials   *CredentialStore
	Coordinator   *Coordinator
	JWT           *helpers.JWTManager
	Revocations   Revocations
	AdminCode     string
	Notifications *Notifications
	Logger        *logrus.Logger
}

func NewAuthService(creds *CredentialStore, coord *Coordinator, jwt *helpers.JWTManager, revocations Revocations, adminCode string, notes *Notifications, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AuthService{
		Credentials:   creds,
		Coordinator:   coord,
		JWT:           jwt,
		Revocations:   revocations,
		AdminCode:     adminCode,
		Notifications: notes,
		Logger:        logger,
	}
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnCompare spends the same bcrypt time as a real check so unknown emails
// are not distinguishable by latency.
func burnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = helpers.HashPassword("dummy-password-for-timing")
	})
	_ = helpers.CompareHashAndPassword(dummyHash, password)
}

// SignUpPrivileged creates an administrator. code must equal the configured
// admin sign-up code; an unset code disables the route.
func (s *AuthService) SignUpPrivileged(ctx context.Context, in NewIdentity, code string) (*entity.Identity, error) {
	if s.AdminCode == "" || subtle.ConstantTimeCompare([]byte(code), []byte(s.AdminCode)) != 1 {
		s.Logger.WithField("email", normalizeEmail(in.Email)).Warn("admin sign-up with invalid code")
		return nil, apperror.Forbidden("invalid admin secret code")
	}
	in.Role = entity.RolePrivileged
	i, err := s.Credentials.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("identity_id", i.ID).Info("admin signed up")
	return i, nil
}

// SignUpStandard creates a standard identity with its profile on behalf of
// an administrator.
func (s *AuthService) SignUpStandard(ctx context.Context, ni NewIdentity, np NewProfile) (*LinkedPair, error) {
	pair, err := s.Coordinator.CreateLinkedPair(ctx, ni, np)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("identity_id", pair.Identity.ID).Info("student account created")
	s.Notifications.AccountCreated(ctx, pair)
	return pair, nil
}

// SignIn verifies credentials and issues a session token. Unknown email and
// wrong password fail the same way.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*entity.Identity, helpers.IssuedToken, error) {
	i, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, helpers.IssuedToken{}, err
		}
		burnCompare(password)
		signInFailures.Add(1)
		return nil, helpers.IssuedToken{}, errInvalidCredentials
	}
	if !s.Credentials.VerifyPassword(i, password) {
		signInFailures.Add(1)
		s.Logger.WithField("identity_id", i.ID).Info("sign-in rejected")
		return nil, helpers.IssuedToken{}, errInvalidCredentials
	}
	tok, err := s.JWT.Issue(i.ID, i.Role.String())
	if err != nil {
		return nil, helpers.IssuedToken{}, apperror.Internal(err)
	}
	signIns.Add(1)
	return i.Sanitized(), tok, nil
}

// VerifySession validates token and, when a deny-list is configured, that
// it was not revoked. A deny-list outage does not lock users out.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*helpers.Claims, error) {
	claims, err := s.JWT.Verify(token)
	if err != nil {
		return nil, err
	}
	if !entity.Role(claims.Role).Valid() {
		return nil, apperror.Unauthenticated("invalid session token")
	}
	if s.Revocations != nil && claims.ID != "" {
		revoked, err := s.Revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.Logger.WithError(err).Warn("revocation check failed, accepting token")
		} else if revoked {
			return nil, apperror.Unauthenticated("session revoked")
		}
	}
	return claims, nil
}

// SignOut revokes token when a deny-list is configured. Clearing the cookie
// is the caller's job.
func (s *AuthService) SignOut(ctx context.Context, token string) {
	if s.Revocations == nil || token == "" {
		return
	}
	claims, err := s.JWT.Verify(token)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	if err := s.Revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.Logger.WithError(err).WithField("identity_id", claims.IdentityID).Warn("revoke session failed")
	}
}
