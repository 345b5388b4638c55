package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspacesAreIsolated(t *testing.T) {
	root, err := NewWorkspaceRoot(t.TempDir())
	require.NoError(t, err)

	first, err := root.Acquire()
	require.NoError(t, err)
	second, err := root.Acquire()
	require.NoError(t, err)

	assert.NotEqual(t, first.Dir(), second.Dir())

	file, err := first.Create("data/rooms.csv")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	_, err = os.Stat(filepath.Join(second.Dir(), "data", "rooms.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestWorkspacePathRejectsEscape(t *testing.T) {
	root, err := NewWorkspaceRoot(t.TempDir())
	require.NoError(t, err)
	ws, err := root.Acquire()
	require.NoError(t, err)

	_, err = ws.Path("../outside.csv")
	assert.Error(t, err)

	_, err = ws.Create("../../etc/passwd")
	assert.Error(t, err)
}

func TestWorkspaceCleanup(t *testing.T) {
	root, err := NewWorkspaceRoot(t.TempDir())
	require.NoError(t, err)
	ws, err := root.Acquire()
	require.NoError(t, err)

	require.NoError(t, ws.Cleanup())
	_, err = os.Stat(ws.Dir())
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupOlderThanRemovesStaleWorkspaces(t *testing.T) {
	base := t.TempDir()
	root, err := NewWorkspaceRoot(base)
	require.NoError(t, err)

	stale, err := root.Acquire()
	require.NoError(t, err)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale.Dir(), old, old))
	root.Release(stale)

	fresh, err := root.Acquire()
	require.NoError(t, err)

	unrelated := filepath.Join(base, "keep-me")
	require.NoError(t, os.Mkdir(unrelated, 0o755))
	require.NoError(t, os.Chtimes(unrelated, old, old))

	deleted, err := root.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Base(stale.Dir())}, deleted)

	_, err = os.Stat(fresh.Dir())
	assert.NoError(t, err)
	_, err = os.Stat(unrelated)
	assert.NoError(t, err)
}

func TestCleanupOlderThanSkipsWorkspacesInUse(t *testing.T) {
	root, err := NewWorkspaceRoot(t.TempDir())
	require.NoError(t, err)

	running, err := root.Acquire()
	require.NoError(t, err)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(running.Dir(), old, old))

	deleted, err := root.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Empty(t, deleted)
	_, err = os.Stat(running.Dir())
	require.NoError(t, err)

	root.Release(running)
	deleted, err = root.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Base(running.Dir())}, deleted)
}
