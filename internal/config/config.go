// Package config handles configuration loading and management for wingbeat.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for wingbeat.
type Config struct {
	Swarm     SwarmConfig     `mapstructure:"swarm"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Inference InferenceConfig `mapstructure:"inference"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SwarmConfig holds swarm simulation settings.
type SwarmConfig struct {
	// TornadoCount is the number of tornadoes spawned when the swarm starts empty.
	TornadoCount int `mapstructure:"tornado_count"`
	// TickInterval is the wall-clock duration of one simulation step.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Seed seeds the simulation's random source. Zero means time-based.
	Seed int64 `mapstructure:"seed"`
}

// DispatchConfig holds remote dispatch settings.
type DispatchConfig struct {
	// Timeout bounds a single dispatch round trip.
	Timeout time.Duration `mapstructure:"timeout"`
	// Nodes lists remote node endpoints, as "id=url" pairs.
	Nodes []string `mapstructure:"nodes"`
}

// StorageConfig holds prompt store settings.
type StorageConfig struct {
	// DBPath is the SQLite database path. Empty means the XDG default.
	DBPath string `mapstructure:"db_path"`
}

// InferenceConfig holds model dimension settings for distributed inference.
type InferenceConfig struct {
	HiddenSize int `mapstructure:"hidden_size"`
	VocabSize  int `mapstructure:"vocab_size"`
	NumHeads   int `mapstructure:"num_heads"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// Debug enables the file-based debug log.
	Debug bool `mapstructure:"debug"`
	// Dir overrides the directory the debug log is written under.
	Dir string `mapstructure:"dir"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (WINGBEAT_DB_PATH)
// 2. Project config (.wingbeat.yaml in current directory or parent)
// 3. User config (~/.config/wingbeat/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.BindEnv("storage.db_path", "WINGBEAT_DB_PATH")
	v.BindEnv("logging.debug", "WINGBEAT_DEBUG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Storage.DBPath = expandEnv(cfg.Storage.DBPath)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Storage.DBPath = expandEnv(cfg.Storage.DBPath)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("swarm.tornado_count", cfg.Swarm.TornadoCount)
	v.Set("swarm.tick_interval", cfg.Swarm.TickInterval.String())
	v.Set("swarm.seed", cfg.Swarm.Seed)
	v.Set("dispatch.timeout", cfg.Dispatch.Timeout.String())
	v.Set("dispatch.nodes", cfg.Dispatch.Nodes)
	v.Set("storage.db_path", cfg.Storage.DBPath)
	v.Set("inference.hidden_size", cfg.Inference.HiddenSize)
	v.Set("inference.vocab_size", cfg.Inference.VocabSize)
	v.Set("inference.num_heads", cfg.Inference.NumHeads)
	v.Set("logging.debug", cfg.Logging.Debug)
	v.Set("logging.dir", cfg.Logging.Dir)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("swarm.tornado_count", 3)
	v.SetDefault("swarm.tick_interval", "100ms")
	v.SetDefault("swarm.seed", 0)

	v.SetDefault("dispatch.timeout", "10s")
	v.SetDefault("dispatch.nodes", []string{})

	v.SetDefault("storage.db_path", "")

	v.SetDefault("inference.hidden_size", 768)
	v.SetDefault("inference.vocab_size", 51200)
	v.SetDefault("inference.num_heads", 12)

	v.SetDefault("logging.debug", false)
	v.SetDefault("logging.dir", "")
}

// getUserConfigDir returns the XDG config directory for wingbeat.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "wingbeat")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "wingbeat")
	}
	return filepath.Join(home, ".config", "wingbeat")
}

// findProjectConfig searches for .wingbeat.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".wingbeat.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Swarm: SwarmConfig{
			TornadoCount: 3,
			TickInterval: 100 * time.Millisecond,
			Seed:         0,
		},
		Dispatch: DispatchConfig{
			Timeout: 10 * time.Second,
			Nodes:   []string{},
		},
		Storage: StorageConfig{
			DBPath: "",
		},
		Inference: InferenceConfig{
			HiddenSize: 768,
			VocabSize:  51200,
			NumHeads:   12,
		},
		Logging: LoggingConfig{
			Debug: false,
			Dir:   "",
		},
	}
}
