// Package config manages upsbatch configuration and the .upsbatch directory
// structure. It handles loading, saving, and initializing the batch workspace
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	AppDir       = ".upsbatch"
	ConfigFile   = "config"
	DatabaseFile = "upsbatch.db"
	SnapshotsDir = "snapshots"
	LogFile      = "upsbatch.log"
)

// Config represents the upsbatch workspace configuration.
type Config struct {
	UserName       string `toml:"user_name"`
	DefaultCountry string `toml:"default_country"`
	DefaultService string `toml:"default_service"`
	DefaultUnit    string `toml:"default_unit"`
	ExportFormat   string `toml:"export_format"` // csv, ssv or xml
	ExportHeaders  bool   `toml:"export_headers"`
	path           string // path to the .upsbatch directory
}

// FindRoot finds the .upsbatch directory by walking up from the current
// directory.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		appPath := filepath.Join(dir, AppDir)
		if info, err := os.Stat(appPath); err == nil && info.IsDir() {
			return appPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not an upsbatch workspace (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration from the .upsbatch directory.
func Load() (*Config, error) {
	appPath, err := FindRoot()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(appPath, ConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.path = appPath
	return &cfg, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	configPath := filepath.Join(c.path, ConfigFile)
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// AppPath returns the path to the .upsbatch directory.
func (c *Config) AppPath() string {
	return c.path
}

// DatabasePath returns the path to the bbolt database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// SnapshotsPath returns the path to the snapshots directory.
func (c *Config) SnapshotsPath() string {
	return filepath.Join(c.path, SnapshotsDir)
}

// LogPath returns the path to the diagnostic log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.path, LogFile)
}

// applyDefaults fills unset preference fields. SSV is the default export
// format because German-locale spreadsheet tools expect semicolons.
func (c *Config) applyDefaults() {
	if c.DefaultCountry == "" {
		c.DefaultCountry = "DE"
	}
	if c.DefaultService == "" {
		c.DefaultService = "11" // UPS Standard
	}
	if c.DefaultUnit == "" {
		c.DefaultUnit = "KG"
	}
	if c.ExportFormat == "" {
		c.ExportFormat = "ssv"
	}
}

// Initialize creates a new .upsbatch directory with initial configuration.
func Initialize(userName string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	appPath := filepath.Join(cwd, AppDir)

	// Check if already initialized
	if _, err := os.Stat(appPath); err == nil {
		return nil, fmt.Errorf("upsbatch workspace already exists")
	}

	// Create directories
	if err := os.MkdirAll(appPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .upsbatch directory: %w", err)
	}

	snapshotsPath := filepath.Join(appPath, SnapshotsDir)
	if err := os.MkdirAll(snapshotsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	cfg := &Config{
		UserName:      userName,
		ExportHeaders: true,
		path:          appPath,
	}
	cfg.applyDefaults()

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(appPath)
		return nil, err
	}

	return cfg, nil
}
