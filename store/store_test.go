package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
		s, err := Open(path, zerolog.Nop())
		require.NoError(t, err)
		require.NoError(t, s.Close())
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := Open("", zerolog.Nop())
		require.Error(t, err)
	})
}

func TestTokenLifecycle(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Token()
	assert.False(t, ok, "fresh store holds no token")

	require.NoError(t, s.SaveToken("abc123"))
	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "abc123", token)

	require.NoError(t, s.ClearToken())
	_, ok = s.Token()
	assert.False(t, ok)
}

func TestTokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.SaveToken("persisted"))
	require.NoError(t, s.Close())

	s, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "persisted", token)
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Profile()
	assert.False(t, ok)

	require.NoError(t, s.SaveProfile(Profile{Username: "alice", Role: "user"}))
	p, ok := s.Profile()
	require.True(t, ok)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "user", p.Role)

	require.NoError(t, s.ClearProfile())
	_, ok = s.Profile()
	assert.False(t, ok)
}

func TestTheme(t *testing.T) {
	s := newTestStore(t)

	color, follow := s.Theme()
	assert.Equal(t, DefaultThemeColor, color)
	assert.Equal(t, DefaultFollowOS, follow)

	require.NoError(t, s.SaveTheme("dark", false))
	color, follow = s.Theme()
	assert.Equal(t, "dark", color)
	assert.False(t, follow)
}
