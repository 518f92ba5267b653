package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

func seedPair(t *testing.T, s *Store, email, enrollment string) (*entity.Identity, *entity.Profile) {
	t.Helper()
	ctx := context.Background()
	i := &entity.Identity{Name: "Amit", Email: email, PasswordHash: "hash", Role: entity.RoleStandard}
	require.NoError(t, s.Identities().Create(ctx, i))
	p := &entity.Profile{
		IdentityID: i.ID, FirstName: "Amit", LastName: "K", Email: email, Phone: "9876543210",
		Course: "CS", EnrollmentNumber: enrollment, AdmissionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Profiles().Create(ctx, p))
	return i, p
}

func TestStore_CreateAndLookupCaseInsensitive(t *testing.T) {
	s := New()
	i, _ := seedPair(t, s, "A@X.com", "IN-2025-001")

	assert.Equal(t, "a@x.com", i.Email)
	got, err := s.Identities().GetByEmail(context.Background(), "a@X.COM")
	require.NoError(t, err)
	assert.Equal(t, i.ID, got.ID)
}

func TestStore_DuplicateEmailIsConflict(t *testing.T) {
	s := New()
	seedPair(t, s, "a@x.com", "IN-2025-001")

	err := s.Identities().Create(context.Background(), &entity.Identity{Name: "B", Email: "A@x.com", Role: entity.RoleStandard})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestStore_ProfileRequiresIdentity(t *testing.T) {
	s := New()
	err := s.Profiles().Create(context.Background(), &entity.Profile{IdentityID: "nope", Email: "x@x.com", EnrollmentNumber: "A-1-1"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStore_IdentityDeleteCascadesOutsideTransaction(t *testing.T) {
	s := New()
	i, _ := seedPair(t, s, "a@x.com", "IN-2025-001")
	ctx := context.Background()

	deleted, err := s.Identities().Delete(ctx, i.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.Profiles().GetByIdentity(ctx, i.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	deleted, err = s.Identities().Delete(ctx, i.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_ProfileDeleteIsIdempotent(t *testing.T) {
	s := New()
	i, _ := seedPair(t, s, "a@x.com", "IN-2025-001")
	ctx := context.Background()

	deleted, err := s.Profiles().Delete(ctx, i.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Profiles().Delete(ctx, i.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_RollbackLeavesNoRows(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(tx repository.Stores) error {
		i := &entity.Identity{Name: "Amit", Email: "a@x.com", Role: entity.RoleStandard}
		if err := tx.Identities().Create(ctx, i); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Identities().GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStore_ConcurrentWritersOneWins(t *testing.T) {
	s := New()
	i, _ := seedPair(t, s, "a@x.com", "IN-2025-001")
	ctx := context.Background()

	first, second := "First", "Second"
	inFirst := make(chan struct{})
	release := make(chan struct{})
	errFirst := make(chan error, 1)

	go func() {
		errFirst <- s.RunInTx(ctx, func(tx repository.Stores) error {
			if _, err := tx.Identities().Update(ctx, i.ID, entity.IdentityPatch{Name: &first}); err != nil {
				return err
			}
			close(inFirst)
			<-release
			_, err := tx.Profiles().Update(ctx, i.ID, entity.ProfilePatch{FirstName: &first})
			return err
		})
	}()

	<-inFirst
	errSecond := s.RunInTx(ctx, func(tx repository.Stores) error {
		if _, err := tx.Identities().Update(ctx, i.ID, entity.IdentityPatch{Name: &second}); err != nil {
			return err
		}
		_, err := tx.Profiles().Update(ctx, i.ID, entity.ProfilePatch{FirstName: &second})
		return err
	})
	close(release)

	require.NoError(t, errSecond)
	assert.ErrorIs(t, <-errFirst, apperror.ErrConflict)

	gotI, err := s.Identities().GetByID(ctx, i.ID)
	require.NoError(t, err)
	gotP, err := s.Profiles().GetByIdentity(ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", gotI.Name)
	assert.Equal(t, "Second", gotP.FirstName)
}

func TestStore_CommitRechecksUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	inFirst := make(chan struct{})
	release := make(chan struct{})
	errFirst := make(chan error, 1)

	go func() {
		errFirst <- s.RunInTx(ctx, func(tx repository.Stores) error {
			if err := tx.Identities().Create(ctx, &entity.Identity{Name: "A", Email: "same@x.com", Role: entity.RoleStandard}); err != nil {
				return err
			}
			close(inFirst)
			<-release
			return nil
		})
	}()

	<-inFirst
	require.NoError(t, s.Identities().Create(ctx, &entity.Identity{Name: "B", Email: "same@x.com", Role: entity.RoleStandard}))
	close(release)

	assert.ErrorIs(t, <-errFirst, apperror.ErrConflict)
}

func TestStore_CancelledBeforeCommitDiscards(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.RunInTx(ctx, func(tx repository.Stores) error {
		err := tx.Identities().Create(ctx, &entity.Identity{Name: "A", Email: "a@x.com", Role: entity.RoleStandard})
		cancel()
		return err
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Identities().GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStore_TxStoresUnusableAfterReturn(t *testing.T) {
	s := New()
	var leaked repository.Stores
	require.NoError(t, s.RunInTx(context.Background(), func(tx repository.Stores) error {
		leaked = tx
		return nil
	}))

	_, err := leaked.Identities().GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, errTxClosed)
}

func TestStore_ListByRoleNewestFirst(t *testing.T) {
	s := New()
	first, _ := seedPair(t, s, "a@x.com", "IN-2025-001")
	second, _ := seedPair(t, s, "b@x.com", "IN-2025-002")
	require.NoError(t, s.Identities().Create(context.Background(),
		&entity.Identity{Name: "Root", Email: "root@x.com", Role: entity.RolePrivileged}))

	list, err := s.Identities().ListByRole(context.Background(), entity.RoleStandard)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	profiles, err := s.Profiles().ListByIdentities(context.Background(), []string{first.ID, second.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}
