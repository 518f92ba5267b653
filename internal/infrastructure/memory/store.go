// Package memory is an in-process implementation of the repositories for
// local development (DB_DRIVER=memory) and tests.
//
// Each transaction works on a private snapshot. Commit succeeds only if no
// row it wrote was changed by another commit since the snapshot was taken;
// otherwise it fails with apperror Conflict and nothing is applied.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

var errTxClosed = errors.New("memory: transaction already closed")

type identityRow struct {
	v       entity.Identity
	version uint64
	order   uint64
}

type profileRow struct {
	v       entity.Profile
	version uint64
}

// state holds identities by id and profiles by owning identity id.
type state struct {
	identities map[string]identityRow
	profiles   map[string]profileRow
}

func newState() state {
	return state{identities: map[string]identityRow{}, profiles: map[string]profileRow{}}
}

func (s state) clone() state {
	c := state{
		identities: make(map[string]identityRow, len(s.identities)),
		profiles:   make(map[string]profileRow, len(s.profiles)),
	}
	for k, v := range s.identities {
		c.identities[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	return c
}

// checkUnique reports the first uniqueness violation in s.
func (s state) checkUnique() error {
	emails := make(map[string]struct{}, len(s.identities))
	for _, r := range s.identities {
		if _, dup := emails[r.v.Email]; dup {
			return apperror.Conflict("email already in use")
		}
		emails[r.v.Email] = struct{}{}
	}
	pEmails := make(map[string]struct{}, len(s.profiles))
	enrollments := make(map[string]struct{}, len(s.profiles))
	for _, r := range s.profiles {
		if _, dup := pEmails[r.v.Email]; dup {
			return apperror.Conflict("student email already in use")
		}
		if _, dup := enrollments[r.v.EnrollmentNumber]; dup {
			return apperror.Conflict("enrollment number already in use")
		}
		pEmails[r.v.Email] = struct{}{}
		enrollments[r.v.EnrollmentNumber] = struct{}{}
	}
	return nil
}

type Store struct {
	mu    sync.Mutex
	data  state
	seq   uint64
	order uint64
	now   func() time.Time
}

func New() *Store {
	return &Store{data: newState(), now: time.Now}
}

// WithClock replaces the time source for created/updated timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Identities returns an auto-committing identity repository.
func (s *Store) Identities() repository.IdentityRepository { return autoIdentities{s} }

// Profiles returns an auto-committing profile repository.
func (s *Store) Profiles() repository.ProfileRepository { return autoProfiles{s} }

func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := s.begin()
	defer func() { t.closed = true }()

	if err := fn(t); err != nil {
		return err
	}
	// A caller that went away before commit gets nothing applied.
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(t)
}

func (s *Store) begin() *tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &tx{
		s:            s,
		view:         s.data.clone(),
		baseIdentity: map[string]uint64{},
		baseProfile:  map[string]uint64{},
	}
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, base := range t.baseIdentity {
		if s.data.identities[id].version != base {
			return apperror.Conflict("concurrent update, retry the request")
		}
	}
	for id, base := range t.baseProfile {
		if s.data.profiles[id].version != base {
			return apperror.Conflict("concurrent update, retry the request")
		}
	}

	merged := s.data.clone()
	for id := range t.baseIdentity {
		row, ok := t.view.identities[id]
		if !ok {
			delete(merged.identities, id)
			if _, had := merged.profiles[id]; had {
				delete(merged.profiles, id)
			}
			continue
		}
		s.seq++
		row.version = s.seq
		merged.identities[id] = row
	}
	for id := range t.baseProfile {
		row, ok := t.view.profiles[id]
		if !ok {
			delete(merged.profiles, id)
			continue
		}
		if _, owner := merged.identities[id]; !owner {
			return apperror.NotFound("identity not found")
		}
		s.seq++
		row.version = s.seq
		merged.profiles[id] = row
	}
	if err := merged.checkUnique(); err != nil {
		return err
	}
	s.data = merged
	return nil
}

// tx is a snapshot plus the base versions of every row it wrote.
type tx struct {
	s            *Store
	view         state
	baseIdentity map[string]uint64
	baseProfile  map[string]uint64
	closed       bool
}

func (t *tx) Identities() repository.IdentityRepository { return txIdentities{t} }
func (t *tx) Profiles() repository.ProfileRepository    { return txProfiles{t} }

func (t *tx) check(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	return ctx.Err()
}

func (t *tx) touchIdentity(id string) {
	if _, ok := t.baseIdentity[id]; !ok {
		t.baseIdentity[id] = t.view.identities[id].version
	}
}

func (t *tx) touchProfile(identityID string) {
	if _, ok := t.baseProfile[identityID]; !ok {
		t.baseProfile[identityID] = t.view.profiles[identityID].version
	}
}

type txIdentities struct{ t *tx }

func (r txIdentities) Create(ctx context.Context, i *entity.Identity) error {
	if err := r.t.check(ctx); err != nil {
		return err
	}
	email := strings.ToLower(i.Email)
	for _, row := range r.t.view.identities {
		if row.v.Email == email {
			return apperror.Conflict("email already in use")
		}
	}
	now := r.t.s.now().UTC()
	i.ID = uuid.NewString()
	i.Email = email
	i.CreatedAt, i.UpdatedAt = now, now

	r.t.touchIdentity(i.ID)
	r.t.s.mu.Lock()
	r.t.s.order++
	order := r.t.s.order
	r.t.s.mu.Unlock()
	r.t.view.identities[i.ID] = identityRow{v: *i, order: order}
	return nil
}

func (r txIdentities) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	if err := r.t.check(ctx); err != nil {
		return nil, err
	}
	row, ok := r.t.view.identities[id]
	if !ok {
		return nil, apperror.NotFound("identity not found")
	}
	v := row.v
	return &v, nil
}

func (r txIdentities) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	if err := r.t.check(ctx); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)
	for _, row := range r.t.view.identities {
		if row.v.Email == email {
			v := row.v
			return &v, nil
		}
	}
	return nil, apperror.NotFound("identity not found")
}

func (r txIdentities) Update(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error) {
	if err := r.t.check(ctx); err != nil {
		return nil, err
	}
	row, ok := r.t.view.identities[id]
	if !ok {
		return nil, apperror.NotFound("identity not found")
	}
	if patch.IsEmpty() {
		v := row.v
		return &v, nil
	}
	if patch.Name != nil {
		row.v.Name = *patch.Name
	}
	if patch.Email != nil {
		email := strings.ToLower(*patch.Email)
		for otherID, other := range r.t.view.identities {
			if otherID != id && other.v.Email == email {
				return nil, apperror.Conflict("email already in use")
			}
		}
		row.v.Email = email
	}
	if patch.PasswordHash != nil {
		row.v.PasswordHash = *patch.PasswordHash
	}
	row.v.UpdatedAt = r.t.s.now().UTC()

	r.t.touchIdentity(id)
	r.t.view.identities[id] = row
	v := row.v
	return &v, nil
}

// Delete removes the identity and its profile.
func (r txIdentities) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.t.check(ctx); err != nil {
		return false, err
	}
	if _, ok := r.t.view.identities[id]; !ok {
		return false, nil
	}
	r.t.touchIdentity(id)
	delete(r.t.view.identities, id)
	if _, ok := r.t.view.profiles[id]; ok {
		r.t.touchProfile(id)
		delete(r.t.view.profiles, id)
	}
	return true, nil
}

func (r txIdentities) ListByRole(ctx context.Context, role entity.Role) ([]*entity.Identity, error) {
	if err := r.t.check(ctx); err != nil {
		return nil, err
	}
	rows := make([]identityRow, 0, len(r.t.view.identities))
	for _, row := range r.t.view.identities {
		if row.v.Role == role {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].order > rows[b].order })

	out := make([]*entity.Identity, 0, len(rows))
	for _, row := range rows {
		v := row.v
		out = append(out, &v)
	}
	return out, nil
}

type txProfiles struct{ t *tx }

func (r txProfiles) uniqueWithin(identityID, email, enrollment string) error {
	for owner, row := range r.t.view.profiles {
		if owner == identityID {
			continue
		}
		if row.v.Email == email {
			return apperror.Conflict("student email already in use")
		}
		if row.v.EnrollmentNumber == enrollment {
			return apperror.Conflict("enrollment number already in use")
		}
	}
	return nil
}

func (r txProfiles) Create(ctx context.Context, p *entity.Profile) error {
	if err := r.t.check(ctx); err != nil {
		return err
	}
	if _, ok := r.t.view.identities[p.IdentityID]; !ok {
		return apperror.NotFound("identity not found")
	}
	if _, ok := r.t.view.profiles[p.IdentityID]; ok {
		return apperror.Conflict("identity already has a student profile")
	}
	p.Email = strings.ToLower(p.Email)
	if err := r.uniqueWithin(p.IdentityID, p.Email, p.EnrollmentNumber); err != nil {
		return err
	}
	now := r.t.s.now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	r.t.touchProfile(p.IdentityID)
	r.t.view.profiles[p.IdentityID] = profileRow{v: *p}
	return nil
}

func (r txProfiles) GetByIdentity(ctx context.Context, identityID string) (*entity.Profile, error) {
	if err := r.t.check(ctx); err != nil {
		return nil, err
	}
	row, ok := r.t.view.profiles[identityID]
	if !ok {
		return nil, apperror.NotFound("student profile not found")
	}
	v := row.v
	return &v, nil
}

func (r txProfiles) ListByIdentities(ctx context.Context, identityIDs []string) ([]*entity.Profile, error) {
	if err := r.t.check(ctx); err != nil {
		return nil, err
	}
	out := make([]*entity.Profile, 0, len(identityIDs))
	for _, id := range identityIDs {
		if row, ok := r.t.view.profiles[id]; ok {
			v := row.v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r txProfiles) Update(ctx context.Context, identityID string, patch entity.ProfilePatch) (*entity.Profile, error) {
	if err := r.t.check(ctx); err != nil {
		return nil, err
	}
	row, ok := r.t.view.profiles[identityID]
	if !ok {
		return nil, apperror.NotFound("student profile not found")
	}
	if patch.IsEmpty() {
		v := row.v
		return &v, nil
	}
	p := &row.v
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Email != nil {
		p.Email = strings.ToLower(*patch.Email)
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Course != nil {
		p.Course = *patch.Course
	}
	if patch.EnrollmentNumber != nil {
		p.EnrollmentNumber = *patch.EnrollmentNumber
	}
	if patch.AdmissionDate != nil {
		p.AdmissionDate = *patch.AdmissionDate
	}
	if err := r.uniqueWithin(identityID, p.Email, p.EnrollmentNumber); err != nil {
		return nil, err
	}
	p.UpdatedAt = r.t.s.now().UTC()

	r.t.touchProfile(identityID)
	r.t.view.profiles[identityID] = row
	v := row.v
	return &v, nil
}

func (r txProfiles) Delete(ctx context.Context, identityID string) (bool, error) {
	if err := r.t.check(ctx); err != nil {
		return false, err
	}
	if _, ok := r.t.view.profiles[identityID]; !ok {
		return false, nil
	}
	r.t.touchProfile(identityID)
	delete(r.t.view.profiles, identityID)
	return true, nil
}

var (
	_ repository.UnitOfWork        = (*Store)(nil)
	_ repository.IdentityRepository = txIdentities{}
	_ repository.ProfileRepository  = txProfiles{}
)
