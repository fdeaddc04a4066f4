package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/preflight"
	"github.com/ajxudir/acerun/pkg/verbose"
)

// resetGlobals snapshots every flag variable and injectable function and
// restores them when t finishes.
func resetGlobals(t *testing.T) {
	t.Helper()

	flags := struct {
		verbose, version, skipBuild           bool
		config                                string
		yes                                   bool
		format, report                        string
		model                                 string
		listModels, dryRun                    bool
		showDefaults, show, initCfg, validate bool
		as                                    string
	}{
		verboseFlag, versionFlag, skipBuildChecksFlag,
		configFlag,
		runYesFlag,
		runFormatFlag, runReportFlag,
		playModelFlag,
		playListModelsFlag, containerDryRunFlag,
		configShowDefaultsFlag, configShowFlag, configInitFlag, configValidateFlag,
		configAsFlag,
	}
	oldExit := exitFunc
	oldLoad := loadConfigFunc
	oldGetwd := getwdFunc
	oldStdin := stdinReaderFunc
	oldSignal := signalContextFunc
	oldTestExec := testExecFunc
	oldPlayExec := playExecFunc
	oldContainerExec := containerExecFunc
	oldCreate := createFunc
	oldWriteFile := writeFileFunc
	oldStat := statFunc
	oldPreflight := preflightFunc

	t.Cleanup(func() {
		verboseFlag, versionFlag, skipBuildChecksFlag = flags.verbose, flags.version, flags.skipBuild
		configFlag = flags.config
		runYesFlag = flags.yes
		runFormatFlag, runReportFlag = flags.format, flags.report
		playModelFlag = flags.model
		playListModelsFlag, containerDryRunFlag = flags.listModels, flags.dryRun
		configShowDefaultsFlag, configShowFlag, configInitFlag, configValidateFlag =
			flags.showDefaults, flags.show, flags.initCfg, flags.validate
		configAsFlag = flags.as

		exitFunc = oldExit
		loadConfigFunc = oldLoad
		getwdFunc = oldGetwd
		stdinReaderFunc = oldStdin
		signalContextFunc = oldSignal
		testExecFunc = oldTestExec
		playExecFunc = oldPlayExec
		containerExecFunc = oldContainerExec
		createFunc = oldCreate
		writeFileFunc = oldWriteFile
		statFunc = oldStat
		preflightFunc = oldPreflight

		verbose.Disable()
		rootCmd.SetArgs(nil)
	})

	skipBuildChecksFlag = true
	preflightFunc = func(context.Context, []cmdexec.Spec) *preflight.ValidateResult {
		return &preflight.ValidateResult{}
	}
	runFormatFlag = "table"
	configAsFlag = "yaml"
}

// useWorkDir makes dir the working directory commands load configuration from.
func useWorkDir(t *testing.T, dir string) {
	t.Helper()
	getwdFunc = func() (string, error) { return dir, nil }
}

// writeConfig writes .acerun.yml with the given tests section into a fresh
// temp dir, makes it the working directory, and returns the dir.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".acerun.yml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	useWorkDir(t, dir)
	return dir
}

// suiteConfig renders a gate-free config with one test per name.
func suiteConfig(names ...string) string {
	var sb strings.Builder
	sb.WriteString("version: v1\ngate: false\ntests:\n")
	for _, n := range names {
		fmt.Fprintf(&sb, "  - name: %s\n    command: %s\n", n, n)
	}
	return sb.String()
}

// fakeTests replaces the test executor with one that exits with codes[name]
// and returns the list of commands it was asked to run.
func fakeTests(codes map[string]int) *[]string {
	var calls []string
	testExecFunc = func(_ context.Context, spec cmdexec.Spec, stdout, _ io.Writer) cmdexec.Outcome {
		calls = append(calls, spec.Command)
		_, _ = fmt.Fprintf(stdout, "running %s\n", spec.Command)
		return cmdexec.Outcome{ExitCode: codes[spec.Command], Duration: 10 * time.Millisecond}
	}
	return &calls
}
