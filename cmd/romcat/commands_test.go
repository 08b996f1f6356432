package main

import (
	"context"
	"path/filepath"
	"testing"

	"romcat/internal/catalog"
	"romcat/internal/config"
	"romcat/internal/store"
	"romcat/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCLI writes a config rooted in a temp dir and returns it with the
// config file path.
func setupCLI(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	c := config.NewTestConfig(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.SaveConfig(c, path))

	testutils.CreateSizedFile(t, filepath.Join(c.Paths.GamesRoot, "NES", "Zelda_II.nes"), 4096)
	testutils.CreateSizedFile(t, filepath.Join(c.Paths.GamesRoot, "NES", "Metroid.nes"), 2048)
	testutils.CreateSizedFile(t, filepath.Join(c.Paths.GamesRoot, "SNES", "Super_Metroid.sfc"), 8192)

	t.Cleanup(func() {
		cfgFile, debug, cfg = "", false, nil
	})
	return c, path
}

func run(t *testing.T, configPath string, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	return cmd.Execute()
}

func TestStationCommands(t *testing.T) {
	c, path := setupCLI(t)

	require.NoError(t, run(t, path, "station", "add", "--template", "nes"))
	require.NoError(t, run(t, path, "station", "add", "Super Famicom", "--short", "SFC", "--roms", "SNES", "--core", "SNES", "--ext", "sfc smc"))

	svc, err := catalog.New(c)
	require.NoError(t, err)
	require.Equal(t, 2, svc.StationCount())
	st, ok := svc.FindStation("sfc")
	require.True(t, ok)
	assert.Equal(t, "Super Famicom", st.Name)

	t.Run("update", func(t *testing.T) {
		require.NoError(t, run(t, path, "station", "update", "SFC", "--name", "Super Nintendo"))
		svc, err := catalog.New(c)
		require.NoError(t, err)
		st, ok := svc.FindStation("SFC")
		require.True(t, ok)
		assert.Equal(t, "Super Nintendo", st.Name)
		assert.Equal(t, "sfc smc", st.Extensions)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, run(t, path, "station", "remove", "SFC"))
		svc, err := catalog.New(c)
		require.NoError(t, err)
		assert.Equal(t, 1, svc.StationCount())
	})

	t.Run("bad input", func(t *testing.T) {
		assert.Error(t, run(t, path, "station", "add", "--template", "Dreamcast"))
		assert.Error(t, run(t, path, "station", "add", "Nameless"))
		assert.Error(t, run(t, path, "station", "remove", "GBA"))
		assert.Error(t, run(t, path, "station", "update", "NES", "--enable", "--disable"))
	})

	assert.NoError(t, run(t, path, "station", "list", "--count"))
	assert.NoError(t, run(t, path, "station", "templates"))
}

func TestScanAndList(t *testing.T) {
	_, path := setupCLI(t)
	require.NoError(t, run(t, path, "station", "add", "--template", "NES"))
	require.NoError(t, run(t, path, "station", "add", "--template", "SNES"))

	assert.NoError(t, run(t, path, "scan", "--all"))
	assert.NoError(t, run(t, path, "scan", "NES"))
	assert.Error(t, run(t, path, "scan"), "needs a station or --all")
	assert.Error(t, run(t, path, "scan", "GBA"))

	assert.NoError(t, run(t, path, "list", "--station", "SNES", "--sort", "size_desc"))
	assert.NoError(t, run(t, path, "list", "--search", "metroid", "--all"))
	assert.Error(t, run(t, path, "list", "--sort", "sideways"))
}

func TestSelectRecordsHistory(t *testing.T) {
	c, path := setupCLI(t)
	require.NoError(t, run(t, path, "station", "add", "--template", "NES"))
	require.NoError(t, run(t, path, "station", "add", "--template", "SNES"))

	require.NoError(t, run(t, path, "select", "zelda"))
	require.NoError(t, run(t, path, "select", "zelda", "--path"))
	require.NoError(t, run(t, path, "select", "metroid", "--station", "SNES"))
	assert.Error(t, run(t, path, "select", "castlevania"))

	db, err := store.Open(c.Paths.HistoryDB)
	require.NoError(t, err)
	defer db.Close()

	recent, err := db.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	byLabel := map[string]store.Selection{}
	for _, sel := range recent {
		byLabel[sel.Label] = sel
	}
	assert.Equal(t, 2, byLabel["Zelda II"].Count)
	assert.Equal(t, "_NES", byLabel["Zelda II"].Core)
	assert.Equal(t, "SNES", byLabel["Super Metroid"].Station)

	assert.NoError(t, run(t, path, "recent", "--limit", "1"))
}

func TestPreviewHousekeeping(t *testing.T) {
	c, path := setupCLI(t)
	require.NoError(t, run(t, path, "station", "add", "--template", "NES"))
	cached := testutils.WritePNG(t, filepath.Join(c.Paths.CacheDir, "NES", "Metroid.png"), 16, 12)

	assert.NoError(t, run(t, path, "preview", "show", "NES", "Metroid"))
	assert.Error(t, run(t, path, "preview", "show", "NES", "Kid Icarus"))
	assert.NoError(t, run(t, path, "preview", "stats"))

	require.NoError(t, run(t, path, "preview", "clear", "NES"))
	assert.NoFileExists(t, cached)
	assert.NoError(t, run(t, path, "preview", "stats", "NES", "--reset"))
}
