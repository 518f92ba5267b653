package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/student-manager/internal/domain/repository"
)

// stores binds both repositories to one DBTX.
type stores struct {
	identities *IdentityRepository
	profiles   *ProfileRepository
}

func newStores(db DBTX) stores {
	return stores{identities: NewIdentityRepository(db), profiles: NewProfileRepository(db)}
}

func (s stores) Identities() repository.IdentityRepository { return s.identities }
func (s stores) Profiles() repository.ProfileRepository    { return s.profiles }

// UnitOfWork runs repository calls in REPEATABLE READ transactions. A
// concurrent writer that loses surfaces as apperror Conflict.
type UnitOfWork struct {
	stores
	db TxBeginner
}

func NewUnitOfWork(db TxBeginner) *UnitOfWork {
	return &UnitOfWork{stores: newStores(db), db: db}
}

func (u *UnitOfWork) RunInTx(ctx context.Context, fn func(tx repository.Stores) error) (err error) {
	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback must run even when the caller's context is already cancelled.
	rollback := func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(newStores(tx)); err != nil {
		rollback()
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		rollback()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("commit tx: %w", err)
		}
		return translate(err, "")
	}
	return nil
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
