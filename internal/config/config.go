package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxStations is the fixed size of the station registry.
const MaxStations = 32

// Config represents the application configuration structure.
// It defines where ROMs live, catalog limits, browsing defaults, the preview
// service and watch mode parameters.
type Config struct {
	Paths struct {
		GamesRoot    string   `yaml:"games_root"`    // Primary ROM root, also holds previews/
		StorageRoots []string `yaml:"storage_roots"` // Additional roots searched per station
		CacheDir     string   `yaml:"cache_dir"`     // Downloaded artwork cache
		RegistryFile string   `yaml:"registry_file"` // Persisted station slots
		HistoryDB    string   `yaml:"history_db"`    // SQLite selection history and fetch ledger
	} `yaml:"paths"`
	Limits struct {
		MaxStations int `yaml:"max_stations"` // Registry slots (fixed)
		MaxEntries  int `yaml:"max_entries"`  // Catalog capacity
		MaxDepth    int `yaml:"max_depth"`    // Directory depth below a station root
	} `yaml:"limits"`
	Browse struct {
		PageSize    int    `yaml:"page_size"`    // Visible rows per page
		DefaultSort string `yaml:"default_sort"` // Sort mode applied after every rebuild
	} `yaml:"browse"`
	Preview struct {
		BaseURL        string `yaml:"base_url"`        // Thumbnail service root
		ProbeHost      string `yaml:"probe_host"`      // host:port dialled for the connectivity check
		TimeoutSeconds int    `yaml:"timeout_seconds"` // Per download timeout
		BatchDelayMS   int    `yaml:"batch_delay_ms"`  // Delay between batch requests
		Width          int    `yaml:"width"`           // Scaled preview box
		Height         int    `yaml:"height"`
	} `yaml:"preview"`
	WatchMode struct {
		Enabled    bool `yaml:"enabled"`     // Enable watch mode
		DebounceMS int  `yaml:"debounce_ms"` // Quiet period before a rescan
	} `yaml:"watch"`
	Logging struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultDir returns ~/.config/romcat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "romcat"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/romcat/config.yaml).
func LoadConfig() (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(filepath.Join(dir, "config.yaml"))
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Paths.GamesRoot != "" {
		cfg.Paths.GamesRoot = tempCfg.Paths.GamesRoot
	}
	if len(tempCfg.Paths.StorageRoots) > 0 {
		cfg.Paths.StorageRoots = tempCfg.Paths.StorageRoots
	}
	if tempCfg.Paths.CacheDir != "" {
		cfg.Paths.CacheDir = tempCfg.Paths.CacheDir
	}
	if tempCfg.Paths.RegistryFile != "" {
		cfg.Paths.RegistryFile = tempCfg.Paths.RegistryFile
	}
	if tempCfg.Paths.HistoryDB != "" {
		cfg.Paths.HistoryDB = tempCfg.Paths.HistoryDB
	}

	if tempCfg.Limits.MaxStations != 0 {
		cfg.Limits.MaxStations = tempCfg.Limits.MaxStations
	}
	if tempCfg.Limits.MaxEntries != 0 {
		cfg.Limits.MaxEntries = tempCfg.Limits.MaxEntries
	}
	if tempCfg.Limits.MaxDepth != 0 {
		cfg.Limits.MaxDepth = tempCfg.Limits.MaxDepth
	}

	if tempCfg.Browse.PageSize != 0 {
		cfg.Browse.PageSize = tempCfg.Browse.PageSize
	}
	if tempCfg.Browse.DefaultSort != "" {
		cfg.Browse.DefaultSort = tempCfg.Browse.DefaultSort
	}

	if tempCfg.Preview.BaseURL != "" {
		cfg.Preview.BaseURL = strings.TrimRight(tempCfg.Preview.BaseURL, "/")
	}
	if tempCfg.Preview.ProbeHost != "" {
		cfg.Preview.ProbeHost = tempCfg.Preview.ProbeHost
	}
	if tempCfg.Preview.TimeoutSeconds != 0 {
		cfg.Preview.TimeoutSeconds = tempCfg.Preview.TimeoutSeconds
	}
	if tempCfg.Preview.BatchDelayMS != 0 {
		cfg.Preview.BatchDelayMS = tempCfg.Preview.BatchDelayMS
	}
	if tempCfg.Preview.Width != 0 {
		cfg.Preview.Width = tempCfg.Preview.Width
	}
	if tempCfg.Preview.Height != 0 {
		cfg.Preview.Height = tempCfg.Preview.Height
	}

	cfg.WatchMode.Enabled = tempCfg.WatchMode.Enabled
	if tempCfg.WatchMode.DebounceMS != 0 {
		cfg.WatchMode.DebounceMS = tempCfg.WatchMode.DebounceMS
	}

	cfg.Logging = tempCfg.Logging

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	dir, err := DefaultDir()
	if err != nil {
		dir = ".romcat"
	}

	cfg.Paths.GamesRoot = "/media/fat/games"
	cfg.Paths.StorageRoots = []string{"/media/usb0/games"}
	cfg.Paths.CacheDir = filepath.Join(dir, "previews")
	cfg.Paths.RegistryFile = filepath.Join(dir, "stations.yaml")
	cfg.Paths.HistoryDB = filepath.Join(dir, "history.db")

	cfg.Limits.MaxStations = MaxStations
	cfg.Limits.MaxEntries = 32768
	cfg.Limits.MaxDepth = 5

	cfg.Browse.PageSize = 16
	cfg.Browse.DefaultSort = "name_asc"

	cfg.Preview.BaseURL = "https://thumbnails.libretro.com"
	cfg.Preview.ProbeHost = "thumbnails.libretro.com:443"
	cfg.Preview.TimeoutSeconds = 10
	cfg.Preview.BatchDelayMS = 100
	cfg.Preview.Width = 256
	cfg.Preview.Height = 192

	cfg.WatchMode.Enabled = false
	cfg.WatchMode.DebounceMS = 500

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validSorts = map[string]bool{
	"name_asc": true, "name_desc": true,
	"station_asc": true, "station_desc": true,
	"date_asc": true, "date_desc": true,
	"size_asc": true, "size_desc": true,
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Paths.GamesRoot == "" {
		return fmt.Errorf("games_root is required")
	}
	if c.Paths.RegistryFile == "" {
		return fmt.Errorf("registry_file is required")
	}
	if c.Paths.CacheDir == "" {
		return fmt.Errorf("cache_dir is required")
	}

	if c.Limits.MaxStations != MaxStations {
		return fmt.Errorf("max_stations is fixed at %d", MaxStations)
	}
	if c.Limits.MaxEntries < 1 {
		return fmt.Errorf("max_entries must be >= 1")
	}
	if c.Limits.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}

	if c.Browse.PageSize < 1 {
		return fmt.Errorf("page_size must be >= 1")
	}
	if !validSorts[c.Browse.DefaultSort] {
		return fmt.Errorf("invalid default_sort: %s", c.Browse.DefaultSort)
	}

	if c.Preview.TimeoutSeconds < 1 {
		return fmt.Errorf("preview timeout must be >= 1 second")
	}
	if c.Preview.BatchDelayMS < 0 {
		return fmt.Errorf("batch delay must be >= 0")
	}
	if c.Preview.Width < 1 || c.Preview.Height < 1 {
		return fmt.Errorf("preview size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}

	if c.WatchMode.Enabled && c.WatchMode.DebounceMS < 1 {
		return fmt.Errorf("watch debounce must be >= 1ms")
	}

	return nil
}

// Roots returns the storage roots a station path is resolved against,
// games root first.
func (c *Config) Roots() []string {
	roots := make([]string, 0, 1+len(c.Paths.StorageRoots))
	roots = append(roots, c.Paths.GamesRoot)
	for _, r := range c.Paths.StorageRoots {
		if r != "" && r != c.Paths.GamesRoot {
			roots = append(roots, r)
		}
	}
	return roots
}

// NewTestConfig creates a configuration rooted under dir for tests.
func NewTestConfig(dir string) *Config {
	cfg := defaultConfig()
	cfg.Paths.GamesRoot = filepath.Join(dir, "games")
	cfg.Paths.StorageRoots = []string{filepath.Join(dir, "usb", "games")}
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Paths.RegistryFile = filepath.Join(dir, "stations.yaml")
	cfg.Paths.HistoryDB = filepath.Join(dir, "history.db")
	cfg.Preview.BatchDelayMS = 0
	cfg.Preview.TimeoutSeconds = 2
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"arcade": {
			"primary":  "201", // Magenta
			"success":  "46",  // Neon green
			"warning":  "226", // Yellow
			"error":    "196", // Red
			"info":     "51",  // Cyan
			"emphasis": "208", // Orange
			"border":   "201",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme colors from a named theme.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "arcade", "monochrome"}
}
