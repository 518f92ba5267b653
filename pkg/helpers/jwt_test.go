package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-manager/pkg/apperror"
)

func TestJWT_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)
	tok, err := m.Issue("s-1", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	claims, err := m.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "s-1", claims.IdentityID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, tok.ID, claims.ID)

	other, err := m.Issue("s-1", "user")
	require.NoError(t, err)
	assert.NotEqual(t, tok.ID, other.ID)
}

func TestJWT_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret-a", time.Minute).WithClock(func() time.Time { return now })
	tok, err := m.Issue("s-1", "user")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Verify(tok.Value)
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "session expired")
}

func TestJWT_Rejects(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)
	tok, err := m.Issue("s-1", "user")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Verify(tok.Value)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	_, err = m.Verify("")
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	_, err = m.Verify("not.a.token")
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		IdentityID: "s-1",
		Role:       "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(unsigned)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{IdentityID: "s-1", Role: "user"})
	s, err := noExp.SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}
