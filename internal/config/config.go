package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultAddress is used when neither the config nor a flag sets one
	DefaultAddress = "http://localhost:8080"
	// DefaultTimeout bounds a single call
	DefaultTimeout = 30 * time.Second
)

var (
	// ConfigDir is the global configuration directory (~/.rpccli)
	ConfigDir string

	// ConfigFile is the default config file (~/.rpccli/config.yaml)
	ConfigFile string

	// KeybindsFile is the default keybinding override file
	KeybindsFile string
)

// Config is the top level configuration
type Config struct {
	// Directories searched for catalogue files
	Includes []string `yaml:"includes"`
	// Catalogue files such as [greeter.yaml, internal.jsonc]
	Files    []string       `yaml:"files"`
	Server   ServerConfig   `yaml:"server"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`
	TLS      TLSConfig      `yaml:"tls"`
	UI       UIConfig       `yaml:"ui"`
	Keybinds string         `yaml:"keybinds,omitempty"`
}

// ServerConfig holds the defaults for the target server
type ServerConfig struct {
	DefaultAddress string        `yaml:"default_address"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
}

// HistoryConfig controls the request history slots
type HistoryConfig struct {
	Directory string `yaml:"directory"`
	Autosave  bool   `yaml:"autosave"`
	Disabled  bool   `yaml:"disabled"`
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Directory string `yaml:"directory"`
}

// TLSConfig configures server verification
type TLSConfig struct {
	CustomCert string `yaml:"custom_cert,omitempty"`
	Insecure   bool   `yaml:"insecure,omitempty"`
}

// UIConfig holds display preferences
type UIConfig struct {
	HideFooterHelp bool `yaml:"hide_footer_help"`
}

// Initialize sets up the configuration directory
// It creates ~/.rpccli/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".rpccli")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Includes: []string{},
		Files:    []string{},
		Server: ServerConfig{
			DefaultAddress: DefaultAddress,
			Timeout:        DefaultTimeout,
		},
		History: HistoryConfig{
			Directory: filepath.Join(ConfigDir, "history"),
			Autosave:  true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Directory: ConfigDir,
		},
		Keybinds: KeybindsFile,
	}
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Server.DefaultAddress == "" {
		cfg.Server.DefaultAddress = DefaultAddress
	}
	if cfg.Server.Timeout <= 0 {
		cfg.Server.Timeout = DefaultTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// Save writes the config as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IncludeDirs returns the include directories with env vars expanded
func (c *Config) IncludeDirs() []string {
	dirs := make([]string, 0, len(c.Includes))
	for _, dir := range c.Includes {
		dirs = append(dirs, ExpandPath(dir))
	}
	return dirs
}

// CatalogFiles returns the catalogue files with env vars expanded
func (c *Config) CatalogFiles() []string {
	files := make([]string, 0, len(c.Files))
	for _, file := range c.Files {
		files = append(files, ExpandPath(file))
	}
	return files
}

// HistoryDatabase returns the path of the history database file
func (c *Config) HistoryDatabase() string {
	return filepath.Join(ExpandPath(c.History.Directory), "history.db")
}

// LogFile returns the path of the log file
func (c *Config) LogFile() string {
	return filepath.Join(ExpandPath(c.Logging.Directory), "rpccli.log")
}

// ExpandPath expands $VAR, ${VAR} and a leading ~ in path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}
