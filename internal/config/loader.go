package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ConfigPath returns the default configuration file path: ~/.copperotter/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the copperotter data directory: ~/.copperotter.
func DataDir() string {
	home, err := HomeDir()
	if err != nil {
		return ".copperotter"
	}
	return filepath.Join(home, ".copperotter")
}

// Load reads and parses the config file at path.
// If path is empty, ConfigPath() is used. A missing file yields the defaults;
// a file that fails to parse prints a warning and also yields the defaults.
// Environment overrides are applied last in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config %s: %v\nUsing default configuration.\n", path, err)
			cfg = DefaultConfig()
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides layers environment variables over the file values.
// GEMINI_API_KEY is the primary credential; COPPEROTTER_TIMEOUT_SECONDS and
// COPPEROTTER_MAX_FILE_MB adjust the tool guards.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Providers.Gemini.APIKey = v
	}
	if v := os.Getenv("COPPEROTTER_API_KEY"); v != "" {
		cfg.Providers.Custom.APIKey = v
	}
	if v := os.Getenv("COPPEROTTER_API_BASE"); v != "" {
		cfg.Providers.Custom.APIBase = v
	}
	if v := os.Getenv("COPPEROTTER_MODEL"); v != "" {
		cfg.Agents.Defaults.Model = v
	}
	if n, ok := envInt("COPPEROTTER_TIMEOUT_SECONDS"); ok && n > 0 {
		cfg.Tools.Exec.TimeoutSeconds = n
	}
	if n, ok := envInt("COPPEROTTER_MAX_FILE_MB"); ok && n > 0 {
		cfg.Tools.Files.MaxFileMB = n
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
