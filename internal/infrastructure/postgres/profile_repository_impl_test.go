package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

var profileCols = []string{"id", "identity_id", "first_name", "last_name", "email", "phone", "course",
	"enrollment_number", "admission_date", "created_at", "updated_at"}

func TestProfileRepository_CreateDuplicateEnrollment(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("u1", "Amit", "Kumar", "a@x.com", "9876543210", "CS", "CS2024-001", admitted).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "profiles_enrollment_number_key"})

	err := repo.Create(context.Background(), &entity.Profile{
		IdentityID: "u1", FirstName: "Amit", LastName: "Kumar", Email: "a@x.com", Phone: "9876543210",
		Course: "CS", EnrollmentNumber: "CS2024-001", AdmissionDate: admitted,
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Contains(t, err.Error(), "enrollment number already in use")
}

func TestProfileRepository_GetByIdentity(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM profiles\s+WHERE identity_id = \$1`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(profileCols).
			AddRow("p1", "u1", "Amit", "Kumar", "a@x.com", "9876543210", "CS", "CS2024-001", now, now, now))

	p, err := repo.GetByIdentity(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "CS2024-001", p.EnrollmentNumber)

	mock.ExpectQuery(`FROM profiles\s+WHERE identity_id = \$1`).
		WithArgs("u2").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByIdentity(context.Background(), "u2")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProfileRepository_ListByIdentitiesEmpty(t *testing.T) {
	repo := NewProfileRepository(newMock(t))

	out, err := repo.ListByIdentities(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProfileRepository_UpdateEmptyPatchReads(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(profileCols).
			AddRow("p1", "u1", "Amit", "Kumar", "a@x.com", "9876543210", "CS", "CS2024-001", now, now, now))

	p, err := repo.Update(context.Background(), "u1", entity.ProfilePatch{})
	require.NoError(t, err)
	assert.Equal(t, "Amit", p.FirstName)
}

func TestProfileRepository_UpdateCourse(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	now := time.Now()
	course := "Physics"

	mock.ExpectQuery(`UPDATE profiles`).
		WithArgs("u1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			&course, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(profileCols).
			AddRow("p1", "u1", "Amit", "Kumar", "a@x.com", "9876543210", "Physics", "CS2024-001", now, now, now))

	p, err := repo.Update(context.Background(), "u1", entity.ProfilePatch{Course: &course})
	require.NoError(t, err)
	assert.Equal(t, "Physics", p.Course)
}

func TestProfileRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)

	mock.ExpectExec(`DELETE FROM profiles`).
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM profiles`).
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	ok, err := repo.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, ok)
}
