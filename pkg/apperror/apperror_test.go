package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("load identity: %w", NotFound("identity not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindConflict, KindOf(Conflict("email already in use")))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrapped: %w", Field("email", "must be a valid email"))))
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(KindInternal, cause, "create identity")

	assert.Equal(t, "create identity: db down", err.Error())
	assert.ErrorIs(t, err, cause)

	e, ok := As(fmt.Errorf("outer: %w", err))
	require.True(t, ok)
	assert.Equal(t, KindInternal, e.Kind)
}

func TestField(t *testing.T) {
	err := Field("password", "is required")

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, map[string]string{"password": "is required"}, err.Fields)
	assert.False(t, errors.Is(ErrValidation, err), "a detailed error is not a sentinel")
}
