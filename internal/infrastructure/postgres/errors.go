package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

var uniqueMessages = map[string]string{
	"identities_email_key":           "email already in use",
	"profiles_email_key":             "student email already in use",
	"profiles_enrollment_number_key": "enrollment number already in use",
	"profiles_identity_id_key":       "identity already has a student profile",
}

// translate maps driver errors onto the apperror taxonomy.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
				return apperror.Wrap(apperror.KindConflict, err, msg)
			}
			return apperror.Wrap(apperror.KindConflict, err, "record already exists")
		case codeSerializationFailure, codeDeadlockDetected:
			return apperror.Wrap(apperror.KindConflict, err, "concurrent update, retry the request")
		case codeForeignKeyViolation:
			return apperror.Wrap(apperror.KindNotFound, err, "identity not found")
		case codeInvalidText:
			// malformed uuid in a lookup
			return apperror.NotFound(notFound)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
