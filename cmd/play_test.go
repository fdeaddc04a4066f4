package cmd

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/errors"
	"github.com/ajxudir/acerun/pkg/testutil"
)

func fakeGame(outcome cmdexec.Outcome) *[]cmdexec.Spec {
	var specs []cmdexec.Spec
	playExecFunc = func(_ context.Context, spec cmdexec.Spec, _, _ io.Writer) cmdexec.Outcome {
		specs = append(specs, spec)
		return outcome
	}
	return &specs
}

// TestRunPlay_ListModels tests that --list-models prints every tier.
func TestRunPlay_ListModels(t *testing.T) {
	resetGlobals(t)
	playListModelsFlag = true
	specs := fakeGame(cmdexec.Outcome{})

	var err error
	out := testutil.CaptureStdout(t, func() { err = runPlay(playCmd, nil) })
	require.NoError(t, err)
	assert.Empty(t, *specs, "listing models does not launch the game")

	for _, want := range []string{
		"Recommended Models:",
		"SMALL (6-8GB VRAM):",
		"  - meta-llama/Llama-3.2-3B-Instruct",
		"  - microsoft/Phi-3-mini-4k-instruct",
		"MEDIUM (14-16GB VRAM):",
		"  - mistralai/Mistral-7B-Instruct-v0.3",
		"LARGE (140GB+ VRAM, multi-GPU):",
		"  - Qwen/Qwen2.5-72B-Instruct",
		"Usage: acerun play --model meta-llama/Llama-3.1-8B-Instruct",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "SMALL"), strings.Index(out, "MEDIUM"))
	assert.Less(t, strings.Index(out, "MEDIUM"), strings.Index(out, "LARGE"))
}

// TestRunPlay_Launch tests how the game command line is composed.
//
// It verifies:
//   - The default model comes from configuration
//   - --model overrides it
//   - Extra arguments are appended after the model
func TestRunPlay_Launch(t *testing.T) {
	t.Run("default model", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		useWorkDir(t, dir)
		specs := fakeGame(cmdexec.Outcome{})

		require.NoError(t, runPlay(playCmd, nil))
		require.Len(t, *specs, 1)
		spec := (*specs)[0]
		assert.Equal(t, "python3", spec.Command)
		assert.Equal(t, []string{"main_local.py", "--model", "microsoft/phi-2"}, spec.Args)
		assert.Equal(t, dir, spec.Dir)
		assert.NotNil(t, spec.Stdin)
		assert.True(t, spec.Interactive, "the game keeps the terminal")
	})

	t.Run("model flag and extra args", func(t *testing.T) {
		resetGlobals(t)
		useWorkDir(t, t.TempDir())
		playModelFlag = "meta-llama/Llama-3.2-3B-Instruct"
		specs := fakeGame(cmdexec.Outcome{})

		require.NoError(t, runPlay(playCmd, []string{"--case", "2"}))
		assert.Equal(t,
			[]string{"main_local.py", "--model", "meta-llama/Llama-3.2-3B-Instruct", "--case", "2"},
			(*specs)[0].Args)
	})

	t.Run("configured game", func(t *testing.T) {
		resetGlobals(t)
		writeConfig(t, "game:\n  command: ./play.sh\n  default_model: tiny\n")
		specs := fakeGame(cmdexec.Outcome{})

		require.NoError(t, runPlay(playCmd, nil))
		assert.Equal(t, "./play.sh", (*specs)[0].Command)
		assert.Equal(t, []string{"--model", "tiny"}, (*specs)[0].Args)
	})
}

// TestRunPlay_ExitCodes tests that acerun exits with the game's exit code.
func TestRunPlay_ExitCodes(t *testing.T) {
	t.Run("nonzero exit", func(t *testing.T) {
		resetGlobals(t)
		useWorkDir(t, t.TempDir())
		fakeGame(cmdexec.Outcome{ExitCode: 2})

		err := runPlay(playCmd, nil)
		assert.Equal(t, 2, errors.GetExitCode(err))
		exitErr, ok := errors.IsExitError(err)
		require.True(t, ok)
		assert.True(t, exitErr.Silent)
	})

	t.Run("launch failure", func(t *testing.T) {
		resetGlobals(t)
		useWorkDir(t, t.TempDir())
		fakeGame(cmdexec.Outcome{
			ExitCode: cmdexec.ExitCodeLaunchFailed,
			Err:      &cmdexec.LaunchError{Command: "python3", Err: assert.AnError},
		})

		err := runPlay(playCmd, nil)
		assert.Equal(t, 127, errors.GetExitCode(err))
		assert.Contains(t, err.Error(), "game: could not start python3")
	})
}
