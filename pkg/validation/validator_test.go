package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studentInput struct {
	Name       string     `json:"name" validate:"personname"`
	Phone      string     `json:"phone" validate:"inphone"`
	Enrollment string     `json:"enrollmentNumber" validate:"enrollment"`
	Password   string     `json:"password" validate:"strongpwd"`
	Admitted   *time.Time `json:"admissionDate" validate:"omitempty,pastdate"`
}

func validInput() studentInput {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return studentInput{
		Name:       "Amit",
		Phone:      "+91 9876543210",
		Enrollment: "IN-2025-001",
		Password:   "Abc123!@",
		Admitted:   &d,
	}
}

func TestStruct_AcceptsValidInput(t *testing.T) {
	require.NoError(t, Struct(validInput()))
}

func TestStruct_ReportsFieldsByJSONName(t *testing.T) {
	future := time.Now().Add(96 * time.Hour)
	in := studentInput{
		Name:       "A",
		Phone:      "12345",
		Enrollment: "in-2025-001",
		Password:   "abc",
		Admitted:   &future,
	}

	err := Struct(in)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	e, ok := apperror.As(err)
	require.True(t, ok)
	assert.Len(t, e.Fields, 5)
	assert.Equal(t, "must be between 2 and 50 characters", e.Fields["name"])
	assert.Equal(t, "must not be in the future", e.Fields["admissionDate"])
	assert.Contains(t, e.Fields, "enrollmentNumber")
	assert.NotContains(t, e.Fields["password"], "abc", "messages never echo the value")
}

func TestPhonePattern(t *testing.T) {
	for _, p := range []string{"9876543210", "+919876543210", "+91-9876543210", "+91 6123456789"} {
		assert.True(t, phonePattern.MatchString(p), p)
	}
	for _, p := range []string{"5876543210", "+92 9876543210", "98765", "+91  9876543210"} {
		assert.False(t, phonePattern.MatchString(p), p)
	}
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Abc123!@"))
	assert.True(t, StrongPassword("aB3_zz"))
	assert.False(t, StrongPassword("Ab1!"), "too short")
	assert.False(t, StrongPassword("abc123!@"), "no uppercase")
	assert.False(t, StrongPassword("ABC123!@"), "no lowercase")
	assert.False(t, StrongPassword("Abcdef!@"), "no digit")
	assert.False(t, StrongPassword("Abc12345"), "no special")
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	err := json.Unmarshal([]byte(`{"name":`), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"name":12}`), &v)
	assert.Equal(t, map[string]string{"name": "has the wrong type"}, ToDetails(err))

	assert.Nil(t, ToDetails(nil))
}

func TestPastDate_ComparesCalendarDates(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	// 02:00 on 15 Aug in India is still 14 Aug in UTC.
	now := time.Date(2025, 8, 15, 2, 0, 0, 0, ist)
	today := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, PastDate(today, now))
	assert.True(t, PastDate(today.AddDate(0, 0, -1), now))
	assert.False(t, PastDate(today.AddDate(0, 0, 2), now))
	assert.False(t, PastDate(time.Time{}, now))
}
