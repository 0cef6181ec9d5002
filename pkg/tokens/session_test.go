package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-session-secret")

func TestNewSessionToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).UTC()
	token, err := NewSessionToken(testSecret, "warehouse", "warehouse", exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := SessionClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "warehouse", claims.Subject)
	assert.Equal(t, "warehouse", claims.Role)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestSessionClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := NewSessionToken(testSecret, "admin", "admin", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = SessionClaimsFromToken(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := NewSessionToken(testSecret, "admin", "admin", time.Now().Add(time.Minute))
	require.NoError(t, err)
	_, err = SessionClaimsFromToken(valid, []byte("other-secret"))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = SessionClaimsFromToken("not-a-jwt", testSecret)
	assert.Error(t, err)
}

func TestDeleteCookie_Expires(t *testing.T) {
	t.Parallel()

	c := DeleteCookie(SessionCookie, "/", true)
	assert.Equal(t, -1, c.MaxAge)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Empty(t, c.Value)
}
