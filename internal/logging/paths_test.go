package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, pm *PathManager, sessions ...string) {
	t.Helper()
	for _, s := range sessions {
		path, err := pm.EnsureSessionLog(s)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
	}
}

func TestSessionName(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 5, 0, time.UTC)

	assert.Equal(t, "tui-20261018-093005", SessionName("tui", at))
}

func TestPathManager_SessionLogPath(t *testing.T) {
	pm := NewPathManager("/logs")

	assert.Equal(t, "/logs", pm.BaseDir())
	assert.Equal(t, filepath.Join("/logs", "tui-1.log"), pm.SessionLogPath("tui-1"))
}

func TestPathManager_EnsureSessionLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	pm := NewPathManager(dir)

	path, err := pm.EnsureSessionLog("tui-1")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tui-1.log"), path)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.False(t, pm.LogExists("tui-1"))
}

func TestPathManager_ListSessions(t *testing.T) {
	t.Run("missing directory lists nothing", func(t *testing.T) {
		pm := NewPathManager(filepath.Join(t.TempDir(), "absent"))

		sessions, err := pm.ListSessions("")

		require.NoError(t, err)
		assert.Empty(t, sessions)
	})

	t.Run("filters by kind and sorts oldest first", func(t *testing.T) {
		pm := NewPathManager(t.TempDir())
		touch(t, pm, "tui-20261018-100000", "tui-20261017-100000", "cli-20261018-100000")
		require.NoError(t, os.WriteFile(filepath.Join(pm.BaseDir(), "notes.txt"), nil, 0644))

		sessions, err := pm.ListSessions("tui")
		require.NoError(t, err)
		assert.Equal(t, []string{"tui-20261017-100000", "tui-20261018-100000"}, sessions)

		all, err := pm.ListSessions("")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestPathManager_Latest(t *testing.T) {
	pm := NewPathManager(t.TempDir())

	_, err := pm.Latest("tui")
	assert.ErrorIs(t, err, ErrNoLogs)

	touch(t, pm, "tui-20261017-100000", "tui-20261018-100000")
	latest, err := pm.Latest("tui")
	require.NoError(t, err)
	assert.Equal(t, "tui-20261018-100000", latest)
}

func TestPathManager_Prune(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	touch(t, pm, "tui-1", "tui-2", "tui-3", "cli-1")

	require.NoError(t, pm.Prune("tui", 2))

	sessions, err := pm.ListSessions("")
	require.NoError(t, err)
	assert.Equal(t, []string{"cli-1", "tui-2", "tui-3"}, sessions)

	// Nothing to do.
	require.NoError(t, pm.Prune("tui", 5))
}

func TestPathManager_RemoveSessionLog(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	touch(t, pm, "tui-1")

	require.NoError(t, pm.RemoveSessionLog("tui-1"))
	assert.False(t, pm.LogExists("tui-1"))

	// Removing again is fine.
	assert.NoError(t, pm.RemoveSessionLog("tui-1"))
}
