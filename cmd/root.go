// Package cmd implements the command-line interface for acerun.
// Running acerun with no arguments runs the game's test suite; subcommands
// launch the game, drive its container, and inspect configuration.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/config"
	"github.com/ajxudir/acerun/pkg/errors"
	"github.com/ajxudir/acerun/pkg/preflight"
	"github.com/ajxudir/acerun/pkg/verbose"
)

var exitFunc = os.Exit
var verboseFlag bool
var versionFlag bool
var skipBuildChecksFlag bool
var configFlag string

var (
	loadConfigFunc  = config.LoadConfig
	getwdFunc       = os.Getwd
	stdinReaderFunc = func() io.Reader { return bufio.NewReader(os.Stdin) }

	// signalContextFunc derives the context that is cancelled on Ctrl-C or
	// SIGTERM. Tests replace it to simulate an interrupt.
	signalContextFunc = func(parent context.Context) (context.Context, context.CancelFunc) {
		return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	}

	preflightFunc = preflight.ValidateSpecs
)

var rootCmd = &cobra.Command{
	Use:   "acerun",
	Short: "Test runner and launcher for the Ace Attorney cross-examination game",
	Long: `Run the game's test programs in order and report how many passed.

With no arguments acerun waits for Enter, runs every configured test one
after another (a failing test does not stop the rest), prints a summary,
and exits 0 only if every test passed.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
		// Show build warnings (arch mismatch, dev build) at the top of every command
		if !skipBuildChecksFlag {
			if warnings := GetBuildWarnings(); warnings != "" {
				fmt.Fprint(os.Stderr, warnings)
				fmt.Fprintln(os.Stderr)
			}
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag {
			printVersionOutput()
			return nil
		}
		return runSuite(cmd)
	},
}

// Execute runs the root command and exits with the appropriate code:
//   - 0: Every test passed (or the subcommand succeeded)
//   - 1: At least one test failed, or a command failed
//   - 3: Configuration or validation error
//   - 130: Interrupted
//
// Subcommands that run external programs (play, container) exit with that
// program's exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)
		errors.PrintErrorWithHints(os.Stderr, err, verboseFlag)
		verbose.Infof("Exit code %d: %v", code, err)
		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&skipBuildChecksFlag, "skip-build-checks", false, "Skip build validation warnings (dev build, arch mismatch)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path (default: .acerun.yml in the current directory)")

	// Add -v/--version as a LOCAL flag (not persistent) so it only works on root command
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")
	addRunFlags(rootCmd)

	// Commands ordered logically: info → config → workflow (run → play → container)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(containerCmd)
}

// loadAndValidateConfig loads the configuration from --config or the working
// directory and validates it.
//
// Returns:
//   - *config.Config: Loaded and validated configuration
//   - error: ExitError with ExitConfigError when loading fails, or the ValidationErrors
func loadAndValidateConfig() (*config.Config, error) {
	workDir, err := getwdFunc()
	if err != nil {
		return nil, errors.NewExitError(errors.ExitConfigError, fmt.Errorf("failed to determine working directory: %w", err))
	}

	cfg, err := loadConfigFunc(configFlag, workDir)
	if err != nil {
		verbose.Infof("Exit code %d (config error): %v", errors.ExitConfigError, err)
		return nil, errors.NewExitError(errors.ExitConfigError, err)
	}

	if err := cfg.Validate(); err != nil {
		verbose.WithDocRef("config", "Configuration failed validation")
		return nil, err
	}
	return cfg, nil
}

// warnMissingCommands prints a warning for every program in specs that
// cannot be found. It never stops the command.
func warnMissingCommands(ctx context.Context, specs ...cmdexec.Spec) {
	if ctx == nil {
		ctx = context.Background()
	}
	preflightFunc(ctx, specs).Warn()
}
