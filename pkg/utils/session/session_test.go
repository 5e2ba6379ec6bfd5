package session

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSession_Valid(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"not expired", signedToken(t, jwt.MapClaims{"sub": "dana", "exp": now.Add(time.Hour).Unix()}), true},
		{"expired", signedToken(t, jwt.MapClaims{"sub": "dana", "exp": now.Add(-time.Minute).Unix()}), false},
		{"no expiry", signedToken(t, jwt.MapClaims{"sub": "dana"}), true},
		{"not a jwt", "opaque-token", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{AccessToken: tt.token}
			assert.Equal(t, tt.want, s.Valid(now))
		})
	}

	var missing *Session
	assert.False(t, missing.Valid(now))
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStoreAt(t.TempDir())

	_, err := store.Load("test")
	assert.ErrorIs(t, err, ErrNoSession)

	saved := &Session{AccessToken: "abc", SavedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Save("test", saved))

	info, err := os.Stat(store.path("test"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(sessionFilePerms), info.Mode().Perm())

	loaded, err := store.Load("test")
	require.NoError(t, err)
	assert.Equal(t, saved.AccessToken, loaded.AccessToken)
	assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))

	_, err = store.Load("prod")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Delete("test"))
	require.NoError(t, store.Delete("test"))
	_, err = store.Load("test")
	assert.ErrorIs(t, err, ErrNoSession)
}
