package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/errors"
	"github.com/ajxudir/acerun/pkg/output"
	"github.com/ajxudir/acerun/pkg/prompt"
	"github.com/ajxudir/acerun/pkg/suite"
	"github.com/ajxudir/acerun/pkg/verbose"
	"github.com/ajxudir/acerun/pkg/warnings"
)

var (
	runYesFlag    bool
	runFormatFlag string
	runReportFlag string
)

var (
	// testExecFunc runs each test program. Tests replace it with a fake.
	testExecFunc cmdexec.RunFunc = cmdexec.Run
	createFunc                   = os.Create
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the test suite (same as running acerun with no arguments)",
	Long: `Run every configured test program in order and print a summary.

Each test passes if its program exits 0. A failing or missing program is
counted as a failure and the remaining tests still run. The exit code is 0
only when every test passed.

With --format json, xml, or csv and no --report file, stdout carries only the
report; banners and test program output go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuite(cmd)
	},
}

// addRunFlags registers the suite flags on c. Both the root command and
// `run` accept them.
func addRunFlags(c *cobra.Command) {
	c.Flags().BoolVarP(&runYesFlag, "yes", "y", false, "Skip the press-enter confirmation")
	c.Flags().StringVar(&runFormatFlag, "format", "table", "Result format: table, json, xml, csv")
	c.Flags().StringVar(&runReportFlag, "report", "", "Write the json/xml/csv report to this file instead of stdout")
}

func init() {
	addRunFlags(runCmd)
}

// runSuite executes the configured test suite.
//
// It performs the following operations:
//   - Step 1: Load and validate configuration, parse --format
//   - Step 2: Warn about test programs that cannot be found
//   - Step 3: Wait for the operator unless --yes or gate: false
//   - Step 4: Run every test in order, printing banners and the summary
//   - Step 5: Print the results table or write the structured report
//
// Parameters:
//   - cmd: Cobra command instance
//
// Returns:
//   - error: Silent ExitError carrying the run's exit code when any test
//     failed or the run was interrupted; config and flag errors otherwise
func runSuite(cmd *cobra.Command) error {
	cfg, err := loadAndValidateConfig()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(runFormatFlag)
	if err != nil {
		return err
	}
	if runReportFlag != "" && !output.IsStructuredFormat(format) {
		return fmt.Errorf("--report requires --format json, xml, or csv")
	}

	cases := suite.FromConfig(cfg)
	specs := make([]cmdexec.Spec, len(cases))
	for i, tc := range cases {
		specs[i] = tc.Spec
	}
	warnMissingCommands(cmd.Context(), specs...)

	// A structured report on stdout must be the only thing there, so the
	// banners and test program output move to stderr.
	stdout := os.Stdout
	var progress io.Writer = stdout
	if output.IsStructuredFormat(format) && runReportFlag == "" {
		progress = os.Stderr
	}

	if !runYesFlag && cfg.IsGateEnabled() {
		if err := prompt.WaitForEnter(stdinReaderFunc(), progress, cfg.GetGateMessage()); err != nil {
			return err
		}
	} else {
		verbose.Info("Skipping confirmation gate")
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signalContextFunc(parent)
	defer stop()

	runner := suite.NewRunner(cases,
		suite.WithExecutor(testExecFunc),
		suite.WithOutput(progress, os.Stderr),
		suite.WithReporter(suite.NewTextReporter(progress)),
	)
	run, runErr := runner.Run(ctx)

	if format == output.FormatTable {
		if len(run.Results) > 0 {
			output.WriteResultsTable(stdout, run)
		}
	} else if err := writeReport(stdout, format, run); err != nil {
		warnings.Warnf("failed to write %s report: %v", format, err)
	}

	if runErr != nil {
		verbose.Infof("Run interrupted: %v", runErr)
	}
	if code := run.ExitCode(); code != errors.ExitSuccess {
		return errors.NewSilentExit(code)
	}
	return nil
}

// writeReport writes the structured report to --report, or to stdout when
// no file was given.
func writeReport(stdout io.Writer, format output.Format, run *suite.Run) (err error) {
	if runReportFlag == "" {
		return output.WriteRunReport(stdout, format, run)
	}

	f, err := createFunc(runReportFlag)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", closeErr)
		}
	}()

	if err := output.WriteRunReport(f, format, run); err != nil {
		return err
	}
	verbose.Printf("Report written to %s", runReportFlag)
	return nil
}
