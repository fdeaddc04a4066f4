package preflight

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/warnings"
)

// fakeLookups installs a PATH containing only the given names and a shell
// that knows only aliases. It returns the commands the shell was asked about.
func fakeLookups(t *testing.T, path []string, aliases []string) *[]string {
	t.Helper()
	oldLook, oldShell := lookPathFunc, shellExecFunc
	t.Cleanup(func() { lookPathFunc, shellExecFunc = oldLook, oldShell })

	onPath := make(map[string]bool)
	for _, p := range path {
		onPath[p] = true
	}
	known := make(map[string]bool)
	for _, a := range aliases {
		known[a] = true
	}

	var asked []string
	lookPathFunc = func(name string) (string, error) {
		if onPath[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	shellExecFunc = func(_ context.Context, spec cmdexec.Spec, _, _ io.Writer) cmdexec.Outcome {
		name := strings.Trim(strings.TrimPrefix(spec.Shell, "command -v "), "'")
		asked = append(asked, name)
		if known[name] {
			return cmdexec.Outcome{}
		}
		return cmdexec.Outcome{ExitCode: 1}
	}
	return &asked
}

// TestExtractCommands tests the behavior of command extraction from shell lines.
//
// It verifies:
//   - Single commands are extracted correctly
//   - Pipes and command separators start new commands
//   - Environment assignments are skipped
//   - Comments, continuations, and blank lines are ignored
//   - Repeated commands are deduplicated
func TestExtractCommands(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "single command", line: "python3 test_simple.py", want: []string{"python3"}},
		{name: "pipe", line: "python3 test_all_cases.py | tee out.log", want: []string{"python3", "tee"}},
		{name: "and or", line: "cd tests && pytest -q || echo failed", want: []string{"cd", "pytest", "echo"}},
		{name: "semicolon", line: "make; ./run.sh", want: []string{"make", "./run.sh"}},
		{name: "env assignment", line: "CUDA_VISIBLE_DEVICES=0 MODEL=phi python3 main_local.py", want: []string{"python3"}},
		{name: "only assignments", line: "A=1 B=2", want: nil},
		{name: "empty", line: "", want: nil},
		{name: "comments and continuation", line: "# warm up\npython3 a.py \\\n\r\npython3 b.py", want: []string{"python3"}},
		{name: "empty pipe segment", line: "python3 a.py || | cat", want: []string{"python3", "cat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractCommands(tt.line)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpecCommands(t *testing.T) {
	assert.Equal(t, []string{"python3"}, specCommands(cmdexec.Spec{Command: "python3", Args: []string{"x.py"}}))
	assert.Equal(t, []string{"pytest", "tee"}, specCommands(cmdexec.Spec{Shell: "pytest | tee log"}))
	assert.Nil(t, specCommands(cmdexec.Spec{}))
}

// TestValidateSpecs tests the behavior of ValidateSpecs.
//
// It verifies:
//   - Commands in PATH pass
//   - Shell aliases are found through the shell fallback
//   - Missing commands are reported once with their hint
//   - Relative paths are resolved against the invocation's Dir
func TestValidateSpecs(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		asked := fakeLookups(t, []string{"python3", "docker"}, nil)

		result := ValidateSpecs(context.Background(), []cmdexec.Spec{
			{Command: "python3", Args: []string{"test_simple.py"}},
			{Command: "docker", Args: []string{"build"}},
		})
		assert.False(t, result.HasErrors())
		assert.Empty(t, result.ErrorMessage())
		assert.Empty(t, *asked, "shell fallback is not needed")
	})

	t.Run("alias found through shell", func(t *testing.T) {
		asked := fakeLookups(t, nil, []string{"py"})

		result := ValidateSpecs(context.Background(), []cmdexec.Spec{{Command: "py"}})
		assert.False(t, result.HasErrors())
		assert.Equal(t, []string{"py"}, *asked)
	})

	t.Run("missing command reported once", func(t *testing.T) {
		fakeLookups(t, nil, nil)

		result := ValidateSpecs(context.Background(), []cmdexec.Spec{
			{Command: "python3", Args: []string{"test_simple.py"}},
			{Command: "python3", Args: []string{"test_gameplay.py"}},
			{Shell: "python3 test_all_cases.py | nosuchtool"},
		})
		require.Len(t, result.Errors, 2)
		assert.Equal(t, "python3", result.Errors[0].Command)
		assert.Equal(t, CommandResolutionHints["python3"], result.Errors[0].Hint)
		assert.Equal(t, "nosuchtool", result.Errors[1].Command)
		assert.Empty(t, result.Errors[1].Hint)
	})

	t.Run("relative path", func(t *testing.T) {
		fakeLookups(t, nil, nil)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\n"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

		result := ValidateSpecs(context.Background(), []cmdexec.Spec{
			{Command: "./run.sh", Dir: dir},
			{Command: "./missing.sh", Dir: dir},
			{Command: "./sub", Dir: dir},
		})
		require.Len(t, result.Errors, 2)
		assert.Equal(t, "./missing.sh", result.Errors[0].Command)
		assert.Equal(t, "./sub", result.Errors[1].Command, "directories are not programs")
	})

	t.Run("same relative path in different dirs", func(t *testing.T) {
		fakeLookups(t, nil, nil)
		good := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(good, "run.sh"), []byte("#!/bin/sh\n"), 0o755))

		result := ValidateSpecs(context.Background(), []cmdexec.Spec{
			{Command: "./run.sh", Dir: good},
			{Command: "./run.sh", Dir: t.TempDir()},
		})
		assert.Len(t, result.Errors, 1)
	})

	t.Run("no specs", func(t *testing.T) {
		result := ValidateSpecs(context.Background(), nil)
		require.NotNil(t, result)
		assert.False(t, result.HasErrors())
	})
}

func TestValidateCommandEmpty(t *testing.T) {
	assert.Nil(t, validateCommand(context.Background(), "", ""))
}

// TestValidationError tests the error message with and without a hint.
func TestValidationError(t *testing.T) {
	withHint := &ValidationError{Command: "docker", Hint: GetResolutionHint("docker")}
	assert.Contains(t, withHint.Error(), "command not found: docker")
	assert.Contains(t, withHint.Error(), "https://docs.docker.com/get-docker/")

	noHint := &ValidationError{Command: "mytool"}
	assert.Contains(t, noHint.Error(), "Ensure 'mytool' is installed")
}

func TestErrorMessageAndWarn(t *testing.T) {
	result := &ValidateResult{Errors: []ValidationError{
		{Command: "python3", Hint: GetResolutionHint("python3")},
		{Command: "docker", Hint: GetResolutionHint("docker")},
	}}

	msg := result.ErrorMessage()
	assert.True(t, strings.HasPrefix(msg, "Pre-flight check found missing commands:\n"))
	assert.Contains(t, msg, "  - command not found: python3")
	assert.Contains(t, msg, "  - command not found: docker")

	var buf bytes.Buffer
	restore := warnings.SetWarningWriter(&buf)
	defer restore()
	result.Warn()
	assert.Equal(t, 2, strings.Count(buf.String(), "command not found"))
}

func TestGetResolutionHint(t *testing.T) {
	assert.Contains(t, GetResolutionHint("python3"), "python.org")
	assert.Empty(t, GetResolutionHint("unknown_cmd"))
}
