package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestAccessExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, err := AccessExpiry(signedToken(t, exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestNeedsRefresh(t *testing.T) {
	now := time.Now()

	fresh := &Credentials{Access: signedToken(t, now.Add(time.Hour)), Refresh: "r"}
	assert.False(t, fresh.NeedsRefresh(now))

	expiring := &Credentials{Access: signedToken(t, now.Add(10*time.Second)), Refresh: "r"}
	assert.True(t, expiring.NeedsRefresh(now))

	// No refresh token means nothing to exchange.
	noRefresh := &Credentials{Access: signedToken(t, now.Add(10 * time.Second))}
	assert.False(t, noRefresh.NeedsRefresh(now))

	// Opaque tokens defer to the reactive 401 path.
	opaque := &Credentials{Access: "not-a-jwt", Refresh: "r"}
	assert.False(t, opaque.NeedsRefresh(now))
}

func TestCredentialsClear(t *testing.T) {
	c := &Credentials{Access: "a", Refresh: "r"}
	c.Clear()
	assert.True(t, c.Empty())
	assert.Empty(t, c.Refresh)
}
