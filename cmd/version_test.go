package cmd

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajxudir/acerun/pkg/testutil"
)

func saveBuildInfo(t *testing.T) {
	t.Helper()
	oldVersion, oldBuildTime, oldGitCommit := Version, BuildTime, GitCommit
	oldBuildOS, oldBuildArch := BuildOS, BuildArch
	t.Cleanup(func() {
		Version, BuildTime, GitCommit = oldVersion, oldBuildTime, oldGitCommit
		BuildOS, BuildArch = oldBuildOS, oldBuildArch
	})
}

// TestRunVersion tests the behavior of runVersion.
//
// It verifies:
//   - Basic version output includes version, Go version, and build info
//   - Build time and git commit are shown when set
//   - A build target different from the runtime is shown with the runtime
func TestRunVersion(t *testing.T) {
	saveBuildInfo(t)

	t.Run("basic version output", func(t *testing.T) {
		Version, BuildTime, GitCommit, BuildOS, BuildArch = "1.0.0", "", "", "", ""

		output := testutil.CaptureStdout(t, func() { runVersion(nil, nil) })

		assert.Contains(t, output, "Version: 1.0.0")
		assert.Contains(t, output, "Go:")
		assert.Contains(t, output, "Build:")
		assert.NotContains(t, output, "Runtime:")
		assert.NotContains(t, output, "Git:")
	})

	t.Run("version with all info", func(t *testing.T) {
		Version, BuildTime, GitCommit = "2.0.0", "2025-06-15T12:00:00Z", "def456"

		output := testutil.CaptureStdout(t, func() { runVersion(nil, nil) })

		assert.Contains(t, output, "Version: 2.0.0")
		assert.Contains(t, output, "Date:    2025-06-15T12:00:00Z")
		assert.Contains(t, output, "Git:     def456")
	})

	t.Run("cross-compiled build", func(t *testing.T) {
		BuildOS, BuildArch = "impossible_os", "impossible_arch"

		output := testutil.CaptureStdout(t, func() { runVersion(nil, nil) })

		assert.Contains(t, output, "Build:   impossible_os/impossible_arch")
		assert.Contains(t, output, "Runtime: "+runtime.GOOS+"/"+runtime.GOARCH)
	})
}

// TestBuildWarnings tests the dev build, release candidate, and
// architecture mismatch warnings.
func TestBuildWarnings(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		buildOS   string
		buildArch string
		contains  []string
		empty     bool
	}{
		{name: "dev build", version: "dev", contains: []string{"Development build"}},
		{name: "stable release", version: "v1.2.3", empty: true},
		{name: "release candidate", version: "v1.3.0-rc2", contains: []string{"Release candidate: v1.3.0-rc2"}},
		{name: "rc without number", version: "v1.3.0-rc", empty: true},
		{
			name:    "arch mismatch",
			version: "v1.0.0", buildOS: "impossible_os", buildArch: "impossible_arch",
			contains: []string{"Architecture mismatch", "impossible_os/impossible_arch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveBuildInfo(t)
			Version, BuildOS, BuildArch = tt.version, tt.buildOS, tt.buildArch

			got := GetBuildWarnings()
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
		})
	}
}

func TestHasArchMismatch(t *testing.T) {
	saveBuildInfo(t)

	BuildOS, BuildArch = "", ""
	assert.False(t, HasArchMismatch(), "dev builds never mismatch")

	BuildOS, BuildArch = runtime.GOOS, runtime.GOARCH
	assert.False(t, HasArchMismatch())

	BuildOS = "impossible_os"
	assert.True(t, HasArchMismatch())
}
