package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajxudir/acerun/pkg/config"
	"github.com/ajxudir/acerun/pkg/errors"
	"github.com/ajxudir/acerun/pkg/verbose"
)

var (
	configShowDefaultsFlag bool
	configShowFlag         bool
	configInitFlag         bool
	configValidateFlag     bool
	configAsFlag           string
)

var (
	writeFileFunc = os.WriteFile
	statFunc      = os.Stat
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, validate, or create configuration",
	Long: `Show, validate, or create the acerun configuration.

Configuration is read from --config, or .acerun.yml, .acerun.yaml, or
.acerun.toml in the current directory. Without a file the built-in suite of
four game tests is used.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowDefaultsFlag, "show-defaults", false, "Show the built-in default configuration")
	configCmd.Flags().BoolVar(&configShowFlag, "show", false, "Show the effective configuration")
	configCmd.Flags().BoolVar(&configInitFlag, "init", false, "Create .acerun.yml from the defaults")
	configCmd.Flags().BoolVar(&configValidateFlag, "validate", false, "Validate the configuration")
	configCmd.Flags().StringVar(&configAsFlag, "as", "yaml", "Encoding for --show: yaml or toml")
}

// runConfig executes the config command with the specified flags.
//
// Behavior depends on flags:
//   - --init: Creates .acerun.yml from the built-in defaults
//   - --validate: Loads and validates the configuration
//   - --show-defaults: Displays the built-in default configuration
//   - --show: Displays the effective configuration as YAML or TOML
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Command line arguments
//
// Returns:
//   - error: Returns error on validation or file operation failure
func runConfig(cmd *cobra.Command, args []string) error {
	if configInitFlag {
		return createConfigTemplate()
	}

	if configValidateFlag {
		return validateConfig()
	}

	if configShowDefaultsFlag {
		fmt.Println("Default configuration:")
		fmt.Println()
		fmt.Println(config.GetDefaultConfig())
		return nil
	}

	if configShowFlag {
		return showEffectiveConfig()
	}

	return cmd.Help()
}

// validateConfig loads and validates the configuration, printing the result.
//
// Returns:
//   - error: The load error or ValidationErrors on failure
func validateConfig() error {
	cfg, err := loadAndValidateConfig()
	if err != nil {
		return err
	}

	source := cfg.Source
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Printf("Configuration valid: %s\n", source)
	fmt.Printf("  Tests: %s\n", strings.Join(cfg.TestNames(), ", "))
	return nil
}

// showEffectiveConfig prints the configuration acerun would run with.
func showEffectiveConfig() error {
	cfg, err := loadAndValidateConfig()
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(configAsFlag) {
	case "yaml", "yml":
		data, err = config.MarshalYAML(cfg)
	case "toml":
		data, err = config.MarshalTOML(cfg)
	default:
		return fmt.Errorf("unknown encoding %q (valid: yaml, toml)", configAsFlag)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if cfg.Source != "" {
		fmt.Printf("# Source: %s\n", cfg.Source)
	} else {
		fmt.Println("# Source: built-in defaults")
	}
	fmt.Print(string(data))
	return nil
}

// createConfigTemplate writes the default configuration to .acerun.yml in
// the working directory. An existing file is never overwritten.
//
// Returns:
//   - error: Returns error if the file exists or cannot be written
func createConfigTemplate() error {
	workDir, err := getwdFunc()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	configPath := filepath.Join(workDir, config.LocalConfigNames[0])
	if _, err := statFunc(configPath); err == nil {
		return errors.NewExitErrorf(errors.ExitConfigError, "config file already exists: %s", configPath)
	}

	if err := writeFileFunc(configPath, []byte(config.GetDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	verbose.WithDocRef("config", "Edit tests, container, and game sections to match your checkout")
	fmt.Printf("Created configuration: %s\n", configPath)
	return nil
}
