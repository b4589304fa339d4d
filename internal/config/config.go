// Package config handles configuration loading from CLI flags, environment variables, and TOML files.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "prefs.toml"

// Config holds all configuration settings for a preferences registry.
type Config struct {
	App      AppConfig      `toml:"app"`
	Store    StoreConfig    `toml:"store"`
	Autosave AutosaveConfig `toml:"autosave"`
	Logging  LoggingConfig  `toml:"logging"`
}

// AppConfig identifies the application whose preferences are stored.
type AppConfig struct {
	ID string `toml:"id"` // reverse domain name, e.g. "com.example.myapp"
}

// StoreConfig selects the storage backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // "fs", "kv", or "" for the platform default
	Dir     string `toml:"dir"`     // fs: directory overriding the OS preferences dir
	Format  string `toml:"format"`  // fs: "toml", "json", "yaml"
	Medium  string `toml:"medium"`  // kv: "memory", "sqlite", "postgresql", "localstorage"
	Path    string `toml:"path"`    // kv: SQLite file path
	URL     string `toml:"url"`     // kv: PostgreSQL connection URL
}

// AutosaveConfig holds debounce settings.
type AutosaveConfig struct {
	Delay Duration `toml:"delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level     string `toml:"level"`     // "debug", "info", "warn", "error"
	Verbosity int    `toml:"verbosity"` // 0=quiet, 1+ forces debug
}

// verbosityCounter implements flag.Value for counting -v flags.
type verbosityCounter int

func (v *verbosityCounter) String() string {
	return fmt.Sprintf("%d", *v)
}

func (v *verbosityCounter) Set(string) error {
	*v++
	return nil
}

func (v *verbosityCounter) IsBoolFlag() bool {
	return true
}

// expandVerbosityFlags preprocesses args to expand -vvv into -v -v -v.
func expandVerbosityFlags(args []string) []string {
	result := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(result, args[i:]...)
		}
		if len(arg) > 2 && arg[0] == '-' && arg[1] == 'v' && allV(arg[1:]) {
			for range arg[1:] {
				result = append(result, "-v")
			}
			continue
		}
		result = append(result, arg)
	}
	return result
}

func allV(s string) bool {
	for _, c := range s {
		if c != 'v' {
			return false
		}
	}
	return true
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			ID: "prefs",
		},
		Store: StoreConfig{
			Format: "toml",
			Medium: "memory",
			Path:   "prefs.db",
		},
		Autosave: AutosaveConfig{
			Delay: Duration(time.Second),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from CLI flags, environment variables, and TOML file.
// Priority: CLI flags > env vars > TOML file > defaults
// Flag parsing stops at the first non-flag argument; the rest is returned.
func Load(args []string) (*Config, []string, error) {
	cfg := DefaultConfig()

	// Preprocess args to expand -vvv into -v -v -v
	args = expandVerbosityFlags(args)

	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	configPath := fs.String("config", "", "Configuration file (default: "+DefaultPath+")")

	appID := fs.String("app", "", "Application id, e.g. com.example.myapp")

	// Store flags
	backend := fs.String("backend", "", "Storage backend: fs, kv")
	dir := fs.String("dir", "", "Preferences directory (fs backend)")
	format := fs.String("format", "", "File format: toml, json, yaml (fs backend)")
	medium := fs.String("medium", "", "Key/value medium: memory, sqlite, postgresql")
	storagePath := fs.String("storage-path", "", "SQLite database path")
	storageURL := fs.String("storage-url", "", "PostgreSQL connection URL")

	delay := fs.Duration("autosave-delay", 0, "Autosave debounce delay")

	// Logging flags
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	var verbosity verbosityCounter
	fs.Var(&verbosity, "v", "Verbosity level (use -v, -vv, or -vvv)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	path := DefaultPath
	if *configPath != "" {
		path = *configPath
	}
	if err := cfg.loadTOML(path); err != nil {
		// the default file is optional, an explicit one is not
		if !os.IsNotExist(err) || *configPath != "" {
			return nil, nil, err
		}
	}

	// Apply environment variables
	if err := cfg.applyEnv(); err != nil {
		return nil, nil, err
	}

	// Apply CLI flags (highest priority)
	if *appID != "" {
		cfg.App.ID = *appID
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *dir != "" {
		cfg.Store.Dir = *dir
	}
	if *format != "" {
		cfg.Store.Format = *format
	}
	if *medium != "" {
		cfg.Store.Medium = *medium
	}
	if *storagePath != "" {
		cfg.Store.Path = *storagePath
	}
	if *storageURL != "" {
		cfg.Store.URL = *storageURL
	}
	if *delay != 0 {
		cfg.Autosave.Delay = Duration(*delay)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if verbosity > 0 {
		cfg.Logging.Verbosity = int(verbosity)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// loadTOML loads configuration from a TOML file.
func (c *Config) loadTOML(path string) error {
	_, err := toml.DecodeFile(path, c)
	return err
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() error {
	if v := os.Getenv("PREFS_APP"); v != "" {
		c.App.ID = v
	}
	if v := os.Getenv("PREFS_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("PREFS_DIR"); v != "" {
		c.Store.Dir = v
	}
	if v := os.Getenv("PREFS_FORMAT"); v != "" {
		c.Store.Format = v
	}
	if v := os.Getenv("PREFS_MEDIUM"); v != "" {
		c.Store.Medium = v
	}
	if v := os.Getenv("PREFS_STORAGE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("PREFS_STORAGE_URL"); v != "" {
		c.Store.URL = v
	}
	if v := os.Getenv("PREFS_AUTOSAVE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PREFS_AUTOSAVE_DELAY: %w", err)
		}
		c.Autosave.Delay = Duration(d)
	}
	if v := os.Getenv("PREFS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PREFS_VERBOSITY"); v != "" {
		if verbosity, err := strconv.Atoi(v); err == nil {
			c.Logging.Verbosity = verbosity
		}
	}
	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.App.ID == "" {
		return fmt.Errorf("app id must not be empty")
	}
	switch c.Store.Backend {
	case "", "fs", "kv":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Store.Format {
	case "", "toml", "json", "yaml", "yml":
	default:
		return fmt.Errorf("unknown file format %q", c.Store.Format)
	}
	if c.Autosave.Delay < 0 {
		return fmt.Errorf("autosave delay must not be negative")
	}
	return nil
}
