package entity

import (
	"time"
)

// Identity is the authenticable account.
// The password is stored only as a bcrypt hash and never serialized.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy without the password hash.
func (i *Identity) Sanitized() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.PasswordHash = ""
	return &c
}

// IdentityPatch lists the columns an update may change. Nil means untouched.
type IdentityPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (p IdentityPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}
