package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-manager/config"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/internal/infrastructure/memory"
	"github.com/oksasatya/student-manager/pkg/helpers"
	"github.com/oksasatya/student-manager/pkg/mailer"
)

const testAdminCode = "letmein"

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (r *recordingNotifier) Notify(_ context.Context, job mailer.EmailJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *recordingNotifier) templates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.Template)
	}
	return out
}

type testApp struct {
	store    *memory.Store
	creds    *CredentialStore
	profiles *ProfileStore
	coord    *Coordinator
	auth     *AuthService
	account  *AccountService
	admin    *AdminService
	jwt      *helpers.JWTManager
	notes    *recordingNotifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithUOW(t, memory.New(), nil)
}

// newTestAppWithUOW wires services over uow; store must back uow.
func newTestAppWithUOW(t *testing.T, store *memory.Store, uow repository.UnitOfWork) *testApp {
	t.Helper()
	if uow == nil {
		uow = store
	}
	logger := helpers.NopLogger()
	creds := NewCredentialStore(store.Identities())
	profiles := NewProfileStore(store.Profiles())
	coord := NewCoordinator(uow, creds, profiles, logger)
	jwt := helpers.NewJWTManager("test-secret-test-secret-test-secret", time.Hour)
	rec := &recordingNotifier{}
	notes := &Notifications{Cfg: &config.Config{AppName: "student-manager", MailSendEnabled: true}, Notifier: rec, Logger: logger}

	return &testApp{
		store:    store,
		creds:    creds,
		profiles: profiles,
		coord:    coord,
		auth:     NewAuthService(creds, coord, jwt, nil, testAdminCode, notes, logger),
		account:  NewAccountService(creds, profiles, coord, notes, logger),
		admin:    NewAdminService(creds, profiles, coord, notes, logger),
		jwt:      jwt,
		notes:    rec,
	}
}

func amitIdentity() NewIdentity {
	return NewIdentity{Name: "Amit", Email: "a@x.com", Password: "Abc123!@"}
}

func amitProfile() NewProfile {
	return NewProfile{
		FirstName:        "Amit",
		LastName:         "Kumar",
		Course:           "CS",
		Phone:            "+91 9876543210",
		EnrollmentNumber: "IN-2025-001",
		AdmissionDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:            "a@x.com",
	}
}

func (a *testApp) seedStudent(t *testing.T, email, enrollment string) *LinkedPair {
	t.Helper()
	ni, np := amitIdentity(), amitProfile()
	ni.Email, np.Email, np.EnrollmentNumber = email, email, enrollment
	pair, err := a.coord.CreateLinkedPair(context.Background(), ni, np)
	require.NoError(t, err)
	return pair
}

func (a *testApp) seedAdmin(t *testing.T, email string) string {
	t.Helper()
	i, err := a.auth.SignUpPrivileged(context.Background(),
		NewIdentity{Name: "Root", Email: email, Password: "Root123!@"}, testAdminCode)
	require.NoError(t, err)
	return i.ID
}

func strPtr(s string) *string { return &s }
