package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

const profileColumns = `id, identity_id, first_name, last_name, email, phone, course,
		enrollment_number, admission_date, created_at, updated_at`

const errProfileNotFound = "student profile not found"

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := row.Scan(&p.ID, &p.IdentityID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Course,
		&p.EnrollmentNumber, &p.AdmissionDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO profiles (identity_id, first_name, last_name, email, phone, course, enrollment_number, admission_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, p.IdentityID, p.FirstName, p.LastName, p.Email, p.Phone, p.Course, p.EnrollmentNumber, p.AdmissionDate)

	return translate(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt), errProfileNotFound)
}

func (r *ProfileRepository) GetByIdentity(ctx context.Context, identityID string) (*entity.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE identity_id = $1
	`, identityID))
	if err != nil {
		return nil, translate(err, errProfileNotFound)
	}
	return p, nil
}

func (r *ProfileRepository) ListByIdentities(ctx context.Context, identityIDs []string) ([]*entity.Profile, error) {
	if len(identityIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE identity_id = ANY($1::uuid[])
	`, identityIDs)
	if err != nil {
		return nil, translate(err, errProfileNotFound)
	}
	defer rows.Close()

	var out []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, translate(err, errProfileNotFound)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, errProfileNotFound)
	}
	return out, nil
}

func (r *ProfileRepository) Update(ctx context.Context, identityID string, patch entity.ProfilePatch) (*entity.Profile, error) {
	if patch.IsEmpty() {
		return r.GetByIdentity(ctx, identityID)
	}
	p, err := scanProfile(r.db.QueryRow(ctx, `
		UPDATE profiles
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    email = COALESCE(lower($4), email),
		    phone = COALESCE($5, phone),
		    course = COALESCE($6, course),
		    enrollment_number = COALESCE($7, enrollment_number),
		    admission_date = COALESCE($8, admission_date),
		    updated_at = now()
		WHERE identity_id = $1
		RETURNING `+profileColumns+`
	`, identityID, patch.FirstName, patch.LastName, patch.Email, patch.Phone, patch.Course,
		patch.EnrollmentNumber, patch.AdmissionDate))
	if err != nil {
		return nil, translate(err, errProfileNotFound)
	}
	return p, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, identityID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE identity_id = $1`, identityID)
	if err != nil {
		err = translate(err, errProfileNotFound)
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
