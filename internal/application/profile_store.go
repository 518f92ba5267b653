package application

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/pkg/validation"
)

// NewProfile is the input for creating a student profile.
type NewProfile struct {
	FirstName        string    `json:"firstName" validate:"required,personname"`
	LastName         string    `json:"lastName" validate:"required,personname"`
	Email            string    `json:"email" validate:"required,email,max=254"`
	Phone            string    `json:"phone" validate:"required,inphone"`
	Course           string    `json:"course" validate:"required,max=100"`
	EnrollmentNumber string    `json:"enrollmentNumber" validate:"required,enrollment"`
	AdmissionDate    time.Time `json:"admissionDate" validate:"required,pastdate"`
}

// ProfileStore owns student profiles, keyed by the owning identity id.
type ProfileStore struct {
	repo repository.ProfileRepository
}

func NewProfileStore(repo repository.ProfileRepository) *ProfileStore {
	return &ProfileStore{repo: repo}
}

// Bind returns a store that writes through repo, typically a transaction's.
func (s *ProfileStore) Bind(repo repository.ProfileRepository) *ProfileStore {
	return &ProfileStore{repo: repo}
}

// Prepare validates in and returns an unsaved profile for identityID.
func (s *ProfileStore) Prepare(identityID string, in NewProfile) (*entity.Profile, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Course = strings.TrimSpace(in.Course)
	in.EnrollmentNumber = strings.TrimSpace(in.EnrollmentNumber)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return &entity.Profile{
		IdentityID:       identityID,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		Course:           in.Course,
		EnrollmentNumber: in.EnrollmentNumber,
		AdmissionDate:    in.AdmissionDate.UTC().Truncate(24 * time.Hour),
	}, nil
}

// Insert persists a prepared profile.
func (s *ProfileStore) Insert(ctx context.Context, p *entity.Profile) error {
	return s.repo.Create(ctx, p)
}

func (s *ProfileStore) Create(ctx context.Context, identityID string, in NewProfile) (*entity.Profile, error) {
	p, err := s.Prepare(identityID, in)
	if err != nil {
		return nil, err
	}
	if err := s.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileStore) FindByIdentity(ctx context.Context, identityID string) (*entity.Profile, error) {
	return s.repo.GetByIdentity(ctx, identityID)
}

func (s *ProfileStore) ListByIdentities(ctx context.Context, identityIDs []string) ([]*entity.Profile, error) {
	return s.repo.ListByIdentities(ctx, identityIDs)
}

// NormalizePatch trims and validates p in place.
func (s *ProfileStore) NormalizePatch(p *entity.ProfilePatch) error {
	if p == nil {
		return nil
	}
	p.FirstName = trimPtr(p.FirstName)
	p.LastName = trimPtr(p.LastName)
	p.Phone = trimPtr(p.Phone)
	p.Course = trimPtr(p.Course)
	p.EnrollmentNumber = trimPtr(p.EnrollmentNumber)
	if p.Email != nil {
		e := normalizeEmail(*p.Email)
		p.Email = &e
	}
	if p.AdmissionDate != nil {
		d := p.AdmissionDate.UTC().Truncate(24 * time.Hour)
		p.AdmissionDate = &d
	}
	return validation.Struct(p)
}

func (s *ProfileStore) Update(ctx context.Context, identityID string, p entity.ProfilePatch) (*entity.Profile, error) {
	if err := s.NormalizePatch(&p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, identityID, p)
}

// Delete removes the profile of identityID. Deleting a missing profile is a
// no-op.
func (s *ProfileStore) Delete(ctx context.Context, identityID string) (bool, error) {
	return s.repo.Delete(ctx, identityID)
}
