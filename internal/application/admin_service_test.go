package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/infrastructure/memory"
	"github.com/oksasatya/student-manager/pkg/apperror"
	tpl "github.com/oksasatya/student-manager/pkg/mailer/templates"
)

func TestAdminService_ListStudentsNewestFirst(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.New().WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	})
	app := newTestAppWithUOW(t, store, nil)
	first := app.seedStudent(t, "a@x.com", "IN-2025-001")
	second := app.seedStudent(t, "b@x.com", "IN-2025-002")
	app.seedAdmin(t, "root@x.com")

	list, err := app.admin.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Identity.ID, list[0].Identity.ID)
	assert.Equal(t, first.Identity.ID, list[1].Identity.ID)
	for _, p := range list {
		require.NotNil(t, p.Profile)
		assert.Equal(t, p.Identity.ID, p.Profile.IdentityID)
		assert.Empty(t, p.Identity.PasswordHash)
	}
}

func TestAdminService_ListStudentsEmpty(t *testing.T) {
	app := newTestApp(t)

	list, err := app.admin.ListStudents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdminService_UpdateStudent(t *testing.T) {
	app := newTestApp(t)
	pair := app.seedStudent(t, "a@x.com", "IN-2025-001")

	out, err := app.admin.UpdateStudent(context.Background(), pair.Identity.ID, StudentUpdate{
		Email:   strPtr("moved@x.com"),
		Profile: &entity.ProfilePatch{Course: strPtr("Math")},
	})
	require.NoError(t, err)
	assert.Equal(t, "moved@x.com", out.Identity.Email)
	assert.Equal(t, "moved@x.com", out.Profile.Email)
	assert.Equal(t, "Math", out.Profile.Course)
}

func TestAdminService_UpdateStudentEnrollmentConflict(t *testing.T) {
	app := newTestApp(t)
	app.seedStudent(t, "a@x.com", "IN-2025-001")
	pair := app.seedStudent(t, "b@x.com", "IN-2025-002")

	_, err := app.admin.UpdateStudent(context.Background(), pair.Identity.ID, StudentUpdate{
		Name:    strPtr("Renamed"),
		Profile: &entity.ProfilePatch{EnrollmentNumber: strPtr("IN-2025-001")},
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	i, err := app.creds.FindByID(context.Background(), pair.Identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amit", i.Name)
}

func TestAdminService_TargetsMustBeStudents(t *testing.T) {
	app := newTestApp(t)
	adminID := app.seedAdmin(t, "root@x.com")
	ctx := context.Background()

	_, err := app.admin.UpdateStudent(ctx, adminID, StudentUpdate{Name: strPtr("Boss")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = app.admin.DeleteStudent(ctx, adminID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = app.account.GetAdmin(ctx, adminID)
	assert.NoError(t, err)
}

func TestAdminService_DeleteStudent(t *testing.T) {
	app := newTestApp(t)
	pair := app.seedStudent(t, "a@x.com", "IN-2025-001")
	ctx := context.Background()

	deleted, err := app.admin.DeleteStudent(ctx, pair.Identity.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{tpl.AccountDeleted}, app.notes.templates())

	deleted, err = app.admin.DeleteStudent(ctx, pair.Identity.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, app.notes.templates(), 1)
}
