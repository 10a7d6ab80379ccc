package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the config directories.
const FileName = "mazebot.yaml"

// Environment variables that override file configuration.
const (
	EnvDB       = "MAZEBOT_DB"
	EnvAlg      = "MAZEBOT_ALG"
	EnvLogLevel = "MAZEBOT_LOG_LEVEL"
	EnvMaxSteps = "MAZEBOT_MAX_STEPS"
	EnvSeed     = "MAZEBOT_SEED"
	EnvMaze     = "MAZEBOT_MAZE"
)

// Load loads the mazebot configuration.
// Search order: customPath -> ~/.mazebot/configs/mazebot.yaml -> ./configs/mazebot.yaml -> embedded default
// Files are decoded over the defaults, so they only need the keys they change.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mazebot", "configs", filename)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into
// the process environment. Variables that are already set win. Missing files
// are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with MAZEBOT_* variables from the environment.
func ApplyEnv(cfg *Config) error {
	if v, ok := lookup(EnvDB); ok {
		cfg.Storage.DB = v
	}
	if v, ok := lookup(EnvAlg); ok {
		cfg.Robot.Algorithm = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvMaze); ok {
		cfg.Maze.Default = v
	}
	if v, ok := lookup(EnvMaxSteps); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("environment variable %s must be a positive integer, got %q", EnvMaxSteps, v)
		}
		cfg.Trial.MaxSteps = n
	}
	if v, ok := lookup(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("environment variable %s must be an integer, got %q", EnvSeed, v)
		}
		cfg.Robot.Seed = n
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
