package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

var (
	phonePattern      = regexp.MustCompile(`^(\+91[\s-]?)?[6-9]\d{9}$`)
	enrollmentPattern = regexp.MustCompile(`^[A-Z]{1,5}-\d{1,4}-\d{1,4}$`)
	specialPattern    = regexp.MustCompile(`[\W_]`)
)

var (
	defaultOnce sync.Once
	defaultV    *validator.Validate
	ginOnce     sync.Once
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the domain tags shared with Default.
func Init() {
	ginOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			register(v)
		}
	})
}

// Default returns the validator used by the application layer. Domain
// structs carry `validate` tags; request DTOs keep Gin's `binding` tags.
func Default() *validator.Validate {
	defaultOnce.Do(func() {
		defaultV = validator.New(validator.WithRequiredStructEnabled())
		register(defaultV)
	})
	return defaultV
}

// Struct validates s and returns an apperror validation error with per-field
// messages, or nil.
func Struct(s any) error {
	if err := Default().Struct(s); err != nil {
		return FromBinding(err)
	}
	return nil
}

// FromBinding converts a Gin binding or validator error into a validation
// apperror.
func FromBinding(err error) error {
	if err == nil {
		return nil
	}
	return apperror.Validation("validation failed", ToDetails(err))
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
		return n >= 2 && n <= 50
	})
	_ = v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("enrollment", func(fl validator.FieldLevel) bool {
		return enrollmentPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return PastDate(t, time.Now())
	})
}

// latestZone is the furthest-ahead civil time zone (UTC+14).
var latestZone = time.FixedZone("UTC+14", 14*60*60)

// PastDate reports whether the calendar date of t is not after today.
// Dates carry no zone of their own, so "today" is taken in the furthest
// ahead zone: a date that has already started anywhere is accepted.
func PastDate(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	y, m, d := t.Date()
	ty, tm, td := now.In(latestZone).Date()
	return !time.Date(y, m, d, 0, 0, 0, 0, time.UTC).After(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC))
}

// StrongPassword reports whether p has at least 6 characters including a
// lowercase letter, an uppercase letter, a digit and a special character.
func StrongPassword(p string) bool {
	if utf8.RuneCountInString(p) < 6 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit && specialPattern.MatchString(p)
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return map[string]string{"payload": "request body is required"}
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	var pe *time.ParseError
	if errors.As(err, &ute) {
		return map[string]string{fieldOrPayload(ute.Field): "has the wrong type"}
	}
	if errors.As(err, &pe) {
		return map[string]string{"payload": "invalid date, expected YYYY-MM-DD"}
	}
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the root struct name from the namespace so nested fields
// read as "student.phone".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldOrPayload(f string) string {
	if f == "" {
		return "payload"
	}
	return f
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + param + " is present"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "eqfield":
		return "must be equal to " + param
	case "datetime":
		return "must be a date formatted as " + param
	case "personname":
		return "must be between 2 and 50 characters"
	case "inphone":
		return "must be a valid Indian phone number"
	case "enrollment":
		return "must look like ABC-2024-001"
	case "strongpwd":
		return "must be at least 6 characters with uppercase, lowercase, number and special character"
	case "pastdate":
		return "must not be in the future"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
