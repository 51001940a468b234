package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wingbeat/wingbeat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify wingbeat configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/wingbeat/config.yaml
Project-specific overrides can be placed in .wingbeat.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	dbPathDisplay := cfg.Storage.DBPath
	if dbPathDisplay == "" {
		dbPathDisplay = "(default)"
	}

	fmt.Printf("swarm.tornado_count: %d\n", cfg.Swarm.TornadoCount)
	fmt.Printf("swarm.tick_interval: %s\n", cfg.Swarm.TickInterval)
	fmt.Printf("swarm.seed: %d\n", cfg.Swarm.Seed)
	fmt.Printf("dispatch.timeout: %s\n", cfg.Dispatch.Timeout)
	fmt.Printf("dispatch.nodes: %s\n", strings.Join(cfg.Dispatch.Nodes, ", "))
	fmt.Printf("storage.db_path: %s\n", dbPathDisplay)
	fmt.Printf("inference.hidden_size: %d\n", cfg.Inference.HiddenSize)
	fmt.Printf("inference.vocab_size: %d\n", cfg.Inference.VocabSize)
	fmt.Printf("inference.num_heads: %d\n", cfg.Inference.NumHeads)
	fmt.Printf("logging.debug: %t\n", cfg.Logging.Debug)
	fmt.Printf("logging.dir: %s\n", cfg.Logging.Dir)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "swarm.tornado_count":
		return strconv.Itoa(cfg.Swarm.TornadoCount), nil
	case "swarm.tick_interval":
		return cfg.Swarm.TickInterval.String(), nil
	case "swarm.seed":
		return strconv.FormatInt(cfg.Swarm.Seed, 10), nil
	case "dispatch.timeout":
		return cfg.Dispatch.Timeout.String(), nil
	case "dispatch.nodes":
		return strings.Join(cfg.Dispatch.Nodes, ", "), nil
	case "storage.db_path":
		if cfg.Storage.DBPath == "" {
			return "(default)", nil
		}
		return cfg.Storage.DBPath, nil
	case "inference.hidden_size":
		return strconv.Itoa(cfg.Inference.HiddenSize), nil
	case "inference.vocab_size":
		return strconv.Itoa(cfg.Inference.VocabSize), nil
	case "inference.num_heads":
		return strconv.Itoa(cfg.Inference.NumHeads), nil
	case "logging.debug":
		return strconv.FormatBool(cfg.Logging.Debug), nil
	case "logging.dir":
		return cfg.Logging.Dir, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "swarm.tornado_count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for tornado_count: %w", err)
		}
		cfg.Swarm.TornadoCount = n
	case "swarm.tick_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for tick_interval: %w", err)
		}
		cfg.Swarm.TickInterval = d
	case "swarm.seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for seed: %w", err)
		}
		cfg.Swarm.Seed = n
	case "dispatch.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for dispatch.timeout: %w", err)
		}
		cfg.Dispatch.Timeout = d
	case "storage.db_path":
		cfg.Storage.DBPath = value
	case "inference.hidden_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for hidden_size: %w", err)
		}
		cfg.Inference.HiddenSize = n
	case "inference.vocab_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for vocab_size: %w", err)
		}
		cfg.Inference.VocabSize = n
	case "inference.num_heads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for num_heads: %w", err)
		}
		cfg.Inference.NumHeads = n
	case "logging.debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for logging.debug: %w", err)
		}
		cfg.Logging.Debug = b
	case "logging.dir":
		cfg.Logging.Dir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
