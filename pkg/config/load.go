package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ajxudir/acerun/pkg/verbose"
)

// DefaultMaxConfigFileSize caps config files at 1MB; a suite definition is
// a few hundred bytes, anything larger is almost certainly the wrong file.
const DefaultMaxConfigFileSize int64 = 1 << 20

// LocalConfigNames are looked up, in order, in the working directory.
var LocalConfigNames = []string{".acerun.yml", ".acerun.yaml", ".acerun.toml"}

// LoadConfig loads configuration from the specified path or defaults.
//
// If configPath is provided, it loads that specific config file.
// Otherwise, it looks for one of LocalConfigNames in workDir.
// If no config is found, it returns the built-in default configuration.
// The result is not validated; call Validate before use.
//
// Parameters:
//   - configPath: path to the config file, or empty to search workDir
//   - workDir: working directory that relative test dirs resolve against
//
// Returns:
//   - *Config: the loaded configuration with defaults applied
//   - error: any error encountered while reading or decoding
func LoadConfig(configPath, workDir string) (*Config, error) {
	path := configPath
	if path == "" {
		path = findLocalConfig(workDir)
	}

	var cfg *Config
	if path == "" {
		verbose.WithDocRef("config", "No .acerun.yml/.acerun.toml found, using built-in default suite")
		cfg = DefaultConfig()
		verbose.ConfigLoaded("", "defaults")
	} else {
		loaded, format, err := loadConfigFile(path, DefaultMaxConfigFileSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		cfg = loaded
		cfg.Source = path
		verbose.ConfigLoaded(path, format)
	}

	applyDefaults(cfg)

	if workDir == "" {
		workDir = "."
	}
	cfg.WorkingDir = workDir
	return cfg, nil
}

// findLocalConfig returns the first LocalConfigNames entry present in dir.
func findLocalConfig(dir string) string {
	for _, name := range LocalConfigNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			verbose.Infof("Found local config: %s", candidate)
			return candidate
		}
	}
	return ""
}

// loadConfigFile reads path, enforcing maxSize, and decodes it by extension.
//
// Returns:
//   - *Config: the decoded configuration
//   - string: the decoder used ("yaml" or "toml")
//   - error: size, read, or decode error
func loadConfigFile(path string, maxSize int64) (*Config, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.Size() > maxSize {
		return nil, "", fmt.Errorf("config file too large: %d bytes (max %d bytes)", info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	if isTOML(path) {
		cfg, err := parseTOML(data)
		return cfg, "toml", err
	}
	cfg, err := parseYAML(data)
	return cfg, "yaml", err
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// parseYAML decodes YAML config data, rejecting unknown fields so typos in
// test definitions surface instead of silently running the wrong suite.
func parseYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty document: every section falls back to defaults.
			return &cfg, nil
		}
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &cfg, nil
}

// parseTOML decodes TOML config data, rejecting unknown keys.
func parseTOML(data []byte) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("invalid TOML: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// MarshalTOML renders cfg as TOML, for `acerun config --show --as toml`.
func MarshalTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResolveDir returns the absolute-or-workdir-relative directory for a test.
func (c *Config) ResolveDir(dir string) string {
	if dir == "" {
		return c.WorkingDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.WorkingDir, dir)
}
