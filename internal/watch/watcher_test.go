package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"romcat/internal/catalog"
	"romcat/internal/config"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor returns the first change for path, skipping others.
func waitFor(t *testing.T, ch <-chan Change, path string) Change {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case change, ok := <-ch:
			require.True(t, ok, "change channel closed unexpectedly")
			if change.Path == path {
				return change
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event on %s", path)
		}
	}
}

func TestWatcherFsnotify(t *testing.T) {
	tempDir := t.TempDir()

	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())

	changes := w.Changes()
	time.Sleep(100 * time.Millisecond)

	rom := filepath.Join(tempDir, "Zelda.nes")
	require.NoError(t, os.WriteFile(rom, []byte("rom"), 0644))
	change := waitFor(t, changes, rom)
	assert.True(t, change.Op.Has(fsnotify.Create) || change.Op.Has(fsnotify.Write))

	require.NoError(t, os.Remove(rom))
	timeout := time.After(3 * time.Second)
	for removed := false; !removed; {
		select {
		case change, ok := <-changes:
			require.True(t, ok)
			removed = change.Path == rom && change.Op.Has(fsnotify.Remove)
		case <-timeout:
			t.Fatal("timeout waiting for REMOVE event")
		}
	}

	w.Stop()
	assert.False(t, w.IsRunning())
	for range changes {
	}
	assert.Error(t, w.Start(), "a stopped watcher cannot restart")
}

func TestWatcherTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Hacks"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".trash"), 0755))

	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddTree(root))
	assert.ElementsMatch(t, []string{root, filepath.Join(root, "Hacks")}, w.Directories())

	require.NoError(t, w.Start())
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	t.Run("existing subdirectory", func(t *testing.T) {
		path := filepath.Join(root, "Hacks", "Deep.nes")
		require.NoError(t, os.WriteFile(path, []byte("rom"), 0644))
		waitFor(t, w.Changes(), path)
	})

	t.Run("new subdirectory is picked up", func(t *testing.T) {
		dir := filepath.Join(root, "Homebrew")
		require.NoError(t, os.Mkdir(dir, 0755))
		waitFor(t, w.Changes(), dir)
		assert.Contains(t, w.Directories(), dir)

		path := filepath.Join(dir, "Demo.nes")
		require.NoError(t, os.WriteFile(path, []byte("rom"), 0644))
		waitFor(t, w.Changes(), path)
	})

	t.Run("hidden files are ignored", func(t *testing.T) {
		hiddenPath := filepath.Join(root, ".partial.nes")
		visible := filepath.Join(root, "Visible.nes")
		require.NoError(t, os.WriteFile(hiddenPath, []byte("x"), 0644))
		require.NoError(t, os.WriteFile(visible, []byte("x"), 0644))

		timeout := time.After(3 * time.Second)
		for {
			select {
			case change := <-w.Changes():
				require.NotEqual(t, hiddenPath, change.Path)
				if change.Path == visible {
					return
				}
			case <-timeout:
				t.Fatal("timeout waiting for visible file event")
			}
		}
	})
}

func TestAddDirectoryErrors(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.AddDirectory(filepath.Join(t.TempDir(), "missing")))

	file := filepath.Join(t.TempDir(), "file.nes")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, w.AddDirectory(file))
	assert.Empty(t, w.Directories())
}

func TestFailedStartReleasesWatcher(t *testing.T) {
	cfg := config.NewTestConfig(t.TempDir())
	svc, err := catalog.New(cfg)
	require.NoError(t, err)

	d, err := NewDaemon(cfg, svc)
	require.NoError(t, err)
	require.Error(t, d.Start(context.Background()), "no station directories exist")

	assert.Error(t, d.watcher.Start(), "the fsnotify watcher is closed")
	assert.False(t, d.Status().Running)
	d.Stop()
}
