package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/errors"
	"github.com/ajxudir/acerun/pkg/preflight"
	"github.com/ajxudir/acerun/pkg/testutil"
)

func fakeDocker(code int) *[]cmdexec.Spec {
	var specs []cmdexec.Spec
	containerExecFunc = func(_ context.Context, spec cmdexec.Spec, _, _ io.Writer) cmdexec.Outcome {
		specs = append(specs, spec)
		return cmdexec.Outcome{ExitCode: code}
	}
	return &specs
}

// TestContainerBuild tests `acerun container build`.
func TestContainerBuild(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()
	useWorkDir(t, dir)
	specs := fakeDocker(0)

	rootCmd.SetArgs([]string{"container", "build", "--skip-build-checks"})
	require.NoError(t, ExecuteTest())

	require.Len(t, *specs, 1)
	assert.Equal(t, "docker", (*specs)[0].Command)
	assert.Equal(t,
		[]string{"build", "-t", "ace-attorney-local", "-f", filepath.Join(dir, "Dockerfile"), dir},
		(*specs)[0].Args)
}

// TestContainerRun tests `acerun container run` with forwarded arguments.
func TestContainerRun(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()
	useWorkDir(t, dir)
	specs := fakeDocker(0)

	rootCmd.SetArgs([]string{"container", "run", "--skip-build-checks", "--", "python3", "main_local.py", "--list-models"})
	require.NoError(t, ExecuteTest())

	require.Len(t, *specs, 1)
	args := (*specs)[0].Args
	assert.Equal(t, []string{"run", "--rm", "-it", "--gpus", "all"}, args[:5])
	assert.Equal(t, []string{"python3", "main_local.py", "--list-models"}, args[len(args)-3:])

	info, err := os.Stat(filepath.Join(dir, "output"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestContainerDryRun tests that --dry-run prints instead of executing.
func TestContainerDryRun(t *testing.T) {
	resetGlobals(t)
	useWorkDir(t, t.TempDir())
	specs := fakeDocker(0)

	var err error
	out := testutil.CaptureStdout(t, func() {
		rootCmd.SetArgs([]string{"container", "build", "--dry-run", "--skip-build-checks"})
		err = ExecuteTest()
	})
	require.NoError(t, err)
	assert.Empty(t, *specs)
	assert.True(t, strings.HasPrefix(out, "docker build -t ace-attorney-local -f "))
}

// TestContainerFailure tests that docker's exit code is propagated.
func TestContainerFailure(t *testing.T) {
	resetGlobals(t)
	useWorkDir(t, t.TempDir())
	fakeDocker(125)

	rootCmd.SetArgs([]string{"container", "build", "--skip-build-checks"})
	err := ExecuteTest()
	assert.Equal(t, 125, errors.GetExitCode(err))
}

// TestContainerChecksDocker tests that docker is looked up before real runs
// and not for --dry-run.
func TestContainerChecksDocker(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "build", args: []string{"container", "build", "--skip-build-checks"}, want: []string{"docker"}},
		{name: "dry run", args: []string{"container", "build", "--dry-run", "--skip-build-checks"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			useWorkDir(t, t.TempDir())
			fakeDocker(0)
			var checked []string
			preflightFunc = func(_ context.Context, specs []cmdexec.Spec) *preflight.ValidateResult {
				for _, s := range specs {
					checked = append(checked, s.Command)
				}
				return &preflight.ValidateResult{}
			}

			_ = testutil.CaptureStdout(t, func() {
				rootCmd.SetArgs(tt.args)
				require.NoError(t, ExecuteTest())
			})
			assert.Equal(t, tt.want, checked)
		})
	}
}
