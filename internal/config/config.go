// Package config loads CLI defaults from an optional JSON-with-comments
// config file, following the precedence global < project < explicit path.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashkv/store/internal/fs"
	"github.com/tailscale/hujson"
)

// ErrConfigFileNotFound is returned when an explicitly named config file
// does not exist.
var ErrConfigFileNotFound = errors.New("config: file not found")

// ErrConfigInvalid is returned when a config file fails to parse.
var ErrConfigInvalid = errors.New("config: invalid")

// ConfigFileName is the default project config file name.
const ConfigFileName = ".hashkvrc"

// Config holds CLI defaults that can be overridden per-invocation.
type Config struct {
	PoolSize int `json:"pool_size,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// DefaultConfig returns the built-in defaults used when no config file is
// present.
func DefaultConfig() Config {
	return Config{PoolSize: 0}
}

// LoadInput carries the knobs Load needs to resolve precedence.
type LoadInput struct {
	WorkDir    string
	ConfigPath string // explicit --config path, empty if not given
	Env        map[string]string
	FS         fs.FS // defaults to fs.NewReal() when nil
}

// Load loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/hashkv/config.json or ~/.config/hashkv/config.json)
//  3. Project config file (.hashkvrc, if present), or, when --config is
//     given, that explicit file instead (the project file is then not read)
func Load(in LoadInput) (Config, error) {
	filesystem := in.FS
	if filesystem == nil {
		filesystem = fs.NewReal()
	}

	cfg := DefaultConfig()

	globalCfg, err := loadGlobalConfig(filesystem, in.Env)
	if err != nil {
		return Config{}, err
	}
	cfg = merge(cfg, globalCfg)

	projectCfg, err := loadProjectConfig(filesystem, in.WorkDir, in.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	cfg = merge(cfg, projectCfg)

	return cfg, nil
}

func loadGlobalConfig(filesystem fs.FS, env map[string]string) (Config, error) {
	path := globalConfigPath(env)
	if path == "" {
		return Config{}, nil
	}

	cfg, loaded, err := loadConfigFile(filesystem, path, false)
	if err != nil || !loaded {
		return Config{}, err
	}
	return cfg, nil
}

func loadProjectConfig(filesystem fs.FS, workDir, configPath string) (Config, error) {
	var path string
	var mustExist bool

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		mustExist = true
	} else {
		path = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	cfg, loaded, err := loadConfigFile(filesystem, path, mustExist)
	if err != nil || !loaded {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(filesystem fs.FS, path string, mustExist bool) (Config, bool, error) {
	exists, err := filesystem.Exists(path)
	if err != nil {
		return Config{}, false, err
	}
	if !exists {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return Config{}, false, nil
	}

	data, err := filesystem.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return Config{}, false, nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: invalid JSONC: %w", ErrConfigInvalid, path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("%w %s: invalid JSON: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func merge(base, overlay Config) Config {
	if overlay.PoolSize != 0 {
		base.PoolSize = overlay.PoolSize
	}
	return base
}

func globalConfigPath(env map[string]string) string {
	if xdg, ok := env["XDG_CONFIG_HOME"]; ok && xdg != "" {
		return filepath.Join(xdg, "hashkv", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "hashkv", "config.json")
	}

	return ""
}

// FormatConfig returns cfg as formatted JSON, used by the CLI's config
// diagnostics.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}
	return string(data), nil
}
