// Package config loads and validates the acerun suite definition.
//
// A suite is read from .acerun.yml, .acerun.yaml, or .acerun.toml in the
// working directory, or from an explicit --config path. Without a file the
// embedded default suite (the four game test programs) is used.
package config

// SchemaVersion is the configuration schema this build understands.
const SchemaVersion = "v1"

// Config is the root of an acerun configuration file.
type Config struct {
	// Version is the schema version (semver major, e.g. "v1" or "v1.2.0").
	Version string `yaml:"version,omitempty" toml:"version,omitempty"`

	// Gate enables the press-enter confirmation before the run. Default: true.
	Gate *bool `yaml:"gate,omitempty" toml:"gate,omitempty"`

	// GateMessage is printed while waiting for the operator.
	GateMessage string `yaml:"gate_message,omitempty" toml:"gate_message,omitempty"`

	// Tests are the test programs in execution order.
	Tests []TestCfg `yaml:"tests" toml:"tests"`

	// Container configures `acerun container build|run`.
	Container ContainerCfg `yaml:"container,omitempty" toml:"container,omitempty"`

	// Game configures `acerun play`.
	Game GameCfg `yaml:"game,omitempty" toml:"game,omitempty"`

	// WorkingDir is the directory relative paths resolve against. It is set
	// by LoadConfig and never read from the file.
	WorkingDir string `yaml:"-" toml:"-"`

	// Source is the file the config was loaded from, empty for defaults.
	Source string `yaml:"-" toml:"-"`
}

// TestCfg defines one test program.
type TestCfg struct {
	// Name identifies the test in banners and reports (e.g., "test_simple").
	Name string `yaml:"name" toml:"name"`

	// Command is the program to execute. Mutually exclusive with Shell.
	Command string `yaml:"command,omitempty" toml:"command,omitempty"`

	// Args are passed to Command.
	Args []string `yaml:"args,omitempty" toml:"args,omitempty"`

	// Shell is a command line run through the user's shell, for tests that
	// need pipes or redirection. Mutually exclusive with Command.
	Shell string `yaml:"shell,omitempty" toml:"shell,omitempty"`

	// Env holds extra environment variables; values may reference $VARS.
	Env map[string]string `yaml:"env,omitempty" toml:"env,omitempty"`

	// Dir is the working directory, relative to the config's working directory.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`

	// TimeoutSeconds kills the test after this long. 0 (default) means no limit.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty"`
}

// ContainerCfg describes the GPU image that packages the game.
type ContainerCfg struct {
	Image      string `yaml:"image,omitempty" toml:"image,omitempty"`
	Dockerfile string `yaml:"dockerfile,omitempty" toml:"dockerfile,omitempty"`
	Context    string `yaml:"context,omitempty" toml:"context,omitempty"`

	// OutputDir on the host is mounted at MountPath inside the container.
	OutputDir string `yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	MountPath string `yaml:"mount_path,omitempty" toml:"mount_path,omitempty"`

	// GPUs is passed to docker run --gpus; "none" disables GPU access.
	GPUs string `yaml:"gpus,omitempty" toml:"gpus,omitempty"`
}

// GameCfg describes how to launch the interactive game.
type GameCfg struct {
	Command      string   `yaml:"command,omitempty" toml:"command,omitempty"`
	Args         []string `yaml:"args,omitempty" toml:"args,omitempty"`
	DefaultModel string   `yaml:"default_model,omitempty" toml:"default_model,omitempty"`
}

// IsGateEnabled returns whether to wait for the operator before running (defaults to true).
func (c *Config) IsGateEnabled() bool {
	if c.Gate == nil {
		return true
	}
	return *c.Gate
}

// GetGateMessage returns the gate prompt, falling back to the default.
func (c *Config) GetGateMessage() string {
	if c.GateMessage == "" {
		return DefaultGateMessage
	}
	return c.GateMessage
}

// TestNames returns the configured test names in order.
func (c *Config) TestNames() []string {
	names := make([]string, len(c.Tests))
	for i, t := range c.Tests {
		names[i] = t.Name
	}
	return names
}
