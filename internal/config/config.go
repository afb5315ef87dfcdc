package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// DefaultLogFile is where walk records go when nothing else is configured
const DefaultLogFile = "/tmp/nifi-monitor.log"

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format" json:"format"`
	Quiet   bool   `mapstructure:"quiet" json:"quiet"`
	Verbose bool   `mapstructure:"verbose" json:"verbose"`

	API  APIConfig  `mapstructure:"api" json:"api"`
	Walk WalkConfig `mapstructure:"walk" json:"walk"`
	Log  LogConfig  `mapstructure:"log" json:"log"`
}

// APIConfig describes how to reach the NiFi REST API
type APIConfig struct {
	BaseURL  string `mapstructure:"base_url" json:"base_url"`
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"password"`
	Path     string `mapstructure:"path" json:"path"`

	// Durations are kept as strings ("30s") and parsed by the CLI
	Timeout    string `mapstructure:"timeout" json:"timeout"`
	Retries    uint   `mapstructure:"retries" json:"retries"`
	RetryDelay string `mapstructure:"retry_delay" json:"retry_delay"`
}

// WalkConfig holds traversal defaults
type WalkConfig struct {
	Root     string `mapstructure:"root" json:"root"`
	MaxDepth int    `mapstructure:"max_depth" json:"max_depth"`
	Interval string `mapstructure:"interval" json:"interval"`
	Passes   int    `mapstructure:"passes" json:"passes"`
}

// LogConfig holds record sink settings
type LogConfig struct {
	File          string `mapstructure:"file" json:"file"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups    int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays    int    `mapstructure:"max_age_days" json:"max_age_days"`
	Compress      bool   `mapstructure:"compress" json:"compress"`
	FlushInterval string `mapstructure:"flush_interval" json:"flush_interval"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "ndjson",
		Quiet:   false,
		Verbose: false,
		API: APIConfig{
			Path:       "/api/flow/process-groups",
			Timeout:    "0s",
			Retries:    0,
			RetryDelay: "1s",
		},
		Walk: WalkConfig{
			Root:     "root",
			MaxDepth: 0,
			Interval: "0s",
			Passes:   0,
		},
		Log: LogConfig{
			File:          DefaultLogFile,
			MaxSizeMB:     100,
			MaxBackups:    3,
			MaxAgeDays:    0,
			FlushInterval: "1s",
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.nifimon.yaml or ./.nifimon.yml
// 2. ~/.nifimon.yaml or ~/.nifimon.yml
// 3. $XDG_CONFIG_HOME/nifimon/config.yaml (or ~/.config/nifimon/config.yaml)
// 4. /etc/nifimon/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		loaded, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".nifimon.yaml", ".nifimon.yml", "nifimon.yaml", "nifimon.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	// 1. Current directory
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	// 2. Home directory
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}

	// 3. Config directory (e.g., ~/.config/nifimon/)
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "nifimon"))
	}

	// 4. System config
	searchPaths = append(searchPaths, "/etc/nifimon")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NIFIMON_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("NIFIMON_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("NIFIMON_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("NIFIMON_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("NIFIMON_USERNAME"); v != "" {
		cfg.API.Username = v
	}
	if v := os.Getenv("NIFIMON_PASSWORD"); v != "" {
		cfg.API.Password = v
	}
	if v := os.Getenv("NIFIMON_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("NIFIMON_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Walk.MaxDepth = n
		}
	}
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
