package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!pass", hash)

	assert.True(t, CompareHashAndPassword(hash, "Str0ng!pass"))
	assert.False(t, CompareHashAndPassword(hash, "str0ng!pass"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "Str0ng!pass"))

	again, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}
