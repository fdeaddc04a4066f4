package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultGateMessage is shown by the press-enter gate when none is configured.
const DefaultGateMessage = "This will take several minutes. Press Enter to continue..."

//go:embed default.yml
var defaultConfigYAML string

// DefaultConfig returns a fresh copy of the built-in suite.
//
// Returns:
//   - *Config: the default configuration; never nil
func DefaultConfig() *Config {
	cfg, err := parseYAML([]byte(defaultConfigYAML))
	if err != nil {
		// The embedded file is covered by tests; reaching this is a build defect.
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// GetDefaultConfig returns the embedded default configuration YAML.
func GetDefaultConfig() string {
	return defaultConfigYAML
}

// applyDefaults fills sections the file left out from the built-in suite.
// A file that omits `tests` entirely runs the default tests; an explicit
// empty list is kept so validation can reject it.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()

	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.Tests == nil {
		cfg.Tests = def.Tests
	}

	c, d := &cfg.Container, def.Container
	c.Image = firstNonEmpty(c.Image, d.Image)
	c.Dockerfile = firstNonEmpty(c.Dockerfile, d.Dockerfile)
	c.Context = firstNonEmpty(c.Context, d.Context)
	c.OutputDir = firstNonEmpty(c.OutputDir, d.OutputDir)
	c.MountPath = firstNonEmpty(c.MountPath, d.MountPath)
	c.GPUs = firstNonEmpty(c.GPUs, d.GPUs)

	g := &cfg.Game
	if g.Command == "" {
		g.Command = def.Game.Command
		if g.Args == nil {
			g.Args = def.Game.Args
		}
	}
	g.DefaultModel = firstNonEmpty(g.DefaultModel, def.Game.DefaultModel)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// MarshalYAML renders cfg as YAML, for `acerun config --show`.
func MarshalYAML(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
