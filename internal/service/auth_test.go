package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory/pkg/tokens"
)

func TestAuthenticate_SeededAccounts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		username string
		password string
		role     string
	}{
		{username: "admin", password: "1234", role: "admin"},
		{username: "factory", password: "1111", role: "factory"},
		{username: "warehouse", password: "2222", role: "warehouse"},
		{username: "purchases", password: "3333", role: "purchases"},
	}

	for _, tt := range tests {
		ident, err := env.Auth.Authenticate(ctx, tt.username, tt.password)
		require.NoError(t, err, tt.username)
		assert.Equal(t, tt.username, ident.User)
		assert.Equal(t, tt.role, ident.Role)
	}
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, wrongPassword := env.Auth.Authenticate(ctx, "admin", "wrong")
	_, unknownUser := env.Auth.Authenticate(ctx, "nobody", "1234")
	_, empty := env.Auth.Authenticate(ctx, "", "")

	for _, err := range []error{wrongPassword, unknownUser, empty} {
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_IssuesSessionToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.Auth.SessionTTL = time.Hour

	res, err := env.Auth.Login(context.Background(), "warehouse", "2222")
	require.NoError(t, err)
	assert.Equal(t, "warehouse", res.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	claims, err := tokens.SessionClaimsFromToken(res.Token, env.Auth.SessionSecret)
	require.NoError(t, err)
	assert.Equal(t, "warehouse", claims.Subject)
	assert.Equal(t, "warehouse", claims.Role)

	res, err = env.Auth.Login(context.Background(), "warehouse", "1111")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, res)
}
