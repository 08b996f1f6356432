package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"romcat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	err = tmpFile.Close()
	require.NoError(t, err)
	return tmpFile.Name()
}

const (
	validYAML = `
paths:
  games_root: "/mnt/sd/games"
  storage_roots: ["/mnt/usb/games"]
  cache_dir: "/mnt/sd/cache"
browse:
  page_size: 8
  default_sort: "date_desc"
preview:
  base_url: "http://localhost:8080/"
  timeout_seconds: 3
watch:
  enabled: true
  debounce_ms: 250
logging:
  debug: true
theme:
  name: "arcade"
`
	invalidSyntaxYAML = `
paths:
  games_root: "/mnt/sd/games
browse: # Missing closing quote and incorrect indentation
  page_size: lots
`
	invalidSortYAML = `
browse:
  default_sort: "random"
`
	invalidStationsYAML = `
limits:
  max_stations: 64
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		configFile := createTestYAML(t, validYAML)
		cfg, err := config.LoadConfigFile(configFile)

		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "/mnt/sd/games", cfg.Paths.GamesRoot)
		assert.Equal(t, []string{"/mnt/usb/games"}, cfg.Paths.StorageRoots)
		assert.Equal(t, "/mnt/sd/cache", cfg.Paths.CacheDir)
		assert.Equal(t, 8, cfg.Browse.PageSize)
		assert.Equal(t, "date_desc", cfg.Browse.DefaultSort)
		assert.Equal(t, "http://localhost:8080", cfg.Preview.BaseURL)
		assert.Equal(t, 3, cfg.Preview.TimeoutSeconds)
		assert.True(t, cfg.WatchMode.Enabled)
		assert.Equal(t, 250, cfg.WatchMode.DebounceMS)
		assert.True(t, cfg.Logging.Debug)
		assert.Equal(t, "arcade", cfg.Theme.Name)
		assert.Equal(t, "201", cfg.Theme.Primary)

		// untouched sections keep their defaults
		assert.Equal(t, 32768, cfg.Limits.MaxEntries)
		assert.Equal(t, 5, cfg.Limits.MaxDepth)
		assert.Equal(t, 256, cfg.Preview.Width)
		assert.Equal(t, 192, cfg.Preview.Height)
		assert.Equal(t, 100, cfg.Preview.BatchDelayMS)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		nonExistentPath := filepath.Join(t.TempDir(), "does_not_exist.yaml")
		cfg, err := config.LoadConfigFile(nonExistentPath)

		require.NoError(t, err, "Loading non-existent file should return default config, not an error")
		require.NotNil(t, cfg)

		defaultCfg := config.New()
		assert.Equal(t, defaultCfg.Paths, cfg.Paths)
		assert.Equal(t, 16, cfg.Browse.PageSize)
		assert.Equal(t, "name_asc", cfg.Browse.DefaultSort)
		assert.Equal(t, config.MaxStations, cfg.Limits.MaxStations)
	})

	t.Run("load file with invalid YAML syntax", func(t *testing.T) {
		configFile := createTestYAML(t, invalidSyntaxYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
	})

	t.Run("load file with invalid sort", func(t *testing.T) {
		configFile := createTestYAML(t, invalidSortYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "invalid default_sort")
	})

	t.Run("registry size is fixed", func(t *testing.T) {
		configFile := createTestYAML(t, invalidStationsYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_stations is fixed")
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *config.Config) {}},
		{name: "empty games root", mutate: func(c *config.Config) { c.Paths.GamesRoot = "" }, wantErr: true},
		{name: "zero page size", mutate: func(c *config.Config) { c.Browse.PageSize = 0 }, wantErr: true},
		{name: "zero entries", mutate: func(c *config.Config) { c.Limits.MaxEntries = 0 }, wantErr: true},
		{name: "negative depth", mutate: func(c *config.Config) { c.Limits.MaxDepth = -1 }, wantErr: true},
		{name: "bad sort", mutate: func(c *config.Config) { c.Browse.DefaultSort = "name" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *config.Config) { c.Preview.TimeoutSeconds = 0 }, wantErr: true},
		{name: "empty preview box", mutate: func(c *config.Config) { c.Preview.Width = 0 }, wantErr: true},
		{name: "watch without debounce", mutate: func(c *config.Config) {
			c.WatchMode.Enabled = true
			c.WatchMode.DebounceMS = 0
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := config.NewTestConfig(dir)
	cfg.Browse.PageSize = 10
	cfg.ApplyTheme("dark")
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Paths, loaded.Paths)
	assert.Equal(t, 10, loaded.Browse.PageSize)
	assert.Equal(t, "dark", loaded.Theme.Name)
	assert.Equal(t, "105", loaded.Theme.Primary)
}

func TestRoots(t *testing.T) {
	cfg := config.New()
	cfg.Paths.GamesRoot = "/a"
	cfg.Paths.StorageRoots = []string{"/b", "", "/a"}
	assert.Equal(t, []string{"/a", "/b"}, cfg.Roots())
}

func TestThemes(t *testing.T) {
	for _, name := range config.ListThemes() {
		theme := config.GetTheme(name)
		assert.NotEmpty(t, theme["primary"], name)
		assert.NotEmpty(t, theme["border"], name)
	}
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("no-such-theme"))
}

func TestRegistryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "stations.yaml")

	reg, err := config.LoadRegistry(path)
	require.NoError(t, err, "missing registry file is an empty registry")
	for _, slot := range reg {
		assert.False(t, slot.Enabled)
	}

	reg[0] = config.StationRecord{Name: "NES", ShortName: "NES", RomPath: "NES", CorePath: "NES", Extensions: "nes", Enabled: true}
	reg[5] = config.StationRecord{Name: "Arcade", ShortName: "Arcade", RomPath: "_Arcade", Extensions: "mra", Enabled: true}
	require.NoError(t, config.SaveRegistry(path, reg))

	loaded, err := config.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg, loaded)
}

func TestLoadRegistryErrors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		path := createTestYAML(t, "stations: [\n")
		_, err := config.LoadRegistry(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing registry file")
	})

	t.Run("too many slots", func(t *testing.T) {
		content := "stations:\n"
		for i := 0; i < config.MaxStations+1; i++ {
			content += "  - enabled: false\n"
		}
		_, err := config.LoadRegistry(createTestYAML(t, content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max is 32")
	})
}
