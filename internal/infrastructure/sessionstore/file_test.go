package sessionstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	want := &Session{
		Token:      "tok-abc",
		IdentityID: "id-1",
		Email:      "ok@example.com",
		Username:   "okuser",
		Server:     "http://127.0.0.1:4433",
		CreatedAt:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Delete())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// Deleting twice is fine.
	assert.NoError(t, store.Delete())
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Load()

	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load()

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
	assert.Contains(t, err.Error(), "parsing session file")
}

func TestFileStore_LoadWithoutToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":"http://x"}`), 0o600))

	_, err := NewFileStore(path).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no token")
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvSessionFile, "/tmp/custom-session.json")

	assert.Equal(t, "/tmp/custom-session.json", DefaultPath())
	assert.Equal(t, "/tmp/custom-session.json", NewFileStore("").Path())
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv(EnvSessionFile, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, filepath.Join("/xdg", "accountctl", "session.json"), DefaultPath())
}
