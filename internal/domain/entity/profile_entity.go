package entity

import "time"

// Profile is the student record owned by exactly one standard Identity.
type Profile struct {
	ID               string    `json:"id"`
	IdentityID       string    `json:"identityId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Course           string    `json:"course"`
	EnrollmentNumber string    `json:"enrollmentNumber"`
	AdmissionDate    time.Time `json:"admissionDate"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ProfilePatch lists the columns an update may change. Nil means untouched.
type ProfilePatch struct {
	FirstName        *string    `json:"firstName,omitempty" validate:"omitempty,personname"`
	LastName         *string    `json:"lastName,omitempty" validate:"omitempty,personname"`
	Email            *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string    `json:"phone,omitempty" validate:"omitempty,inphone"`
	Course           *string    `json:"course,omitempty" validate:"omitempty,min=1,max=100"`
	EnrollmentNumber *string    `json:"enrollmentNumber,omitempty" validate:"omitempty,enrollment"`
	AdmissionDate    *time.Time `json:"admissionDate,omitempty" validate:"omitempty,pastdate"`
}

func (p *ProfilePatch) IsEmpty() bool {
	return p == nil || (p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.Course == nil && p.EnrollmentNumber == nil && p.AdmissionDate == nil)
}
