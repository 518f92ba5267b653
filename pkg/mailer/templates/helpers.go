package templates

import (
	"time"

	"github.com/oksasatya/student-manager/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithDetails(details map[string]string) Option {
	return func(d *EmailData) { d.Details = details }
}

// NewBaseEmailData fills the branding fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		Type:        typ,
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		SupportURL:  cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewAccountCreatedData(cfg *config.Config, name, email string, details map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithDetails(details)}, opts...)
	return ToMap(NewBaseEmailData(cfg, AccountCreated, name, email, opts...))
}

func NewPasswordChangedData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, PasswordChanged, name, email, opts...))
}

func NewAccountDeletedData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, AccountDeleted, name, email, opts...))
}
