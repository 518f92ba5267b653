package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

const identityColumns = `id, name, email, password_hash, role, created_at, updated_at`

const errIdentityNotFound = "identity not found"

type IdentityRepository struct {
	db DBTX
}

func NewIdentityRepository(db DBTX) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func scanIdentity(row pgx.Row) (*entity.Identity, error) {
	i := &entity.Identity{}
	var role string
	if err := row.Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &role, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.Role = entity.Role(role)
	return i, nil
}

func (r *IdentityRepository) Create(ctx context.Context, i *entity.Identity) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO identities (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, i.Name, i.Email, i.PasswordHash, string(i.Role))

	return translate(row.Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt), errIdentityNotFound)
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	i, err := scanIdentity(r.db.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, translate(err, errIdentityNotFound)
	}
	return i, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	i, err := scanIdentity(r.db.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE email = lower($1)
	`, email))
	if err != nil {
		return nil, translate(err, errIdentityNotFound)
	}
	return i, nil
}

func (r *IdentityRepository) Update(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	i, err := scanIdentity(r.db.QueryRow(ctx, `
		UPDATE identities
		SET name = COALESCE($2, name),
		    email = COALESCE(lower($3), email),
		    password_hash = COALESCE($4, password_hash),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+identityColumns+`
	`, id, patch.Name, patch.Email, patch.PasswordHash))
	if err != nil {
		return nil, translate(err, errIdentityNotFound)
	}
	return i, nil
}

// Delete removes the identity; the profiles foreign key cascades.
func (r *IdentityRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		err = translate(err, errIdentityNotFound)
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdentityRepository) ListByRole(ctx context.Context, role entity.Role) ([]*entity.Identity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE role = $1
		ORDER BY created_at DESC
	`, string(role))
	if err != nil {
		return nil, translate(err, errIdentityNotFound)
	}
	defer rows.Close()

	var out []*entity.Identity
	for rows.Next() {
		i, err := scanIdentity(rows)
		if err != nil {
			return nil, translate(err, errIdentityNotFound)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, errIdentityNotFound)
	}
	return out, nil
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)
