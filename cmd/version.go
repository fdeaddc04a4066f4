package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// Build information, set at release time with
// -ldflags "-X github.com/ajxudir/acerun/cmd.Version=v1.0.0".
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
	BuildOS   = ""
	BuildArch = ""
)

const iconWarn = "⚠️"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	printVersionOutput()
}

// printVersionOutput prints the version, the platform the binary targets
// (and the one it runs on, when they differ), and the build metadata.
func printVersionOutput() {
	target := buildTarget()
	running := runtime.GOOS + "/" + runtime.GOARCH

	fields := [][2]string{{"Version", Version}, {"Build", target}}
	if target != running {
		fields = append(fields, [2]string{"Runtime", running})
	}
	fields = append(fields, [2]string{"Go", runtime.Version()})
	if BuildTime != "" {
		fields = append(fields, [2]string{"Date", BuildTime})
	}
	if GitCommit != "" {
		fields = append(fields, [2]string{"Git", GitCommit})
	}

	for _, f := range fields {
		fmt.Printf("  %-8s %s\n", f[0]+":", f[1])
	}
}

// buildTarget returns the os/arch the binary was built for. Dev builds carry
// no target and report the running platform.
func buildTarget() string {
	goos, goarch := BuildOS, BuildArch
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	return goos + "/" + goarch
}

// HasArchMismatch reports whether a release binary runs on a platform it was
// not built for.
func HasArchMismatch() bool {
	if BuildOS == "" && BuildArch == "" {
		return false
	}
	return buildTarget() != runtime.GOOS+"/"+runtime.GOARCH
}

// isReleaseCandidate matches versions like v1.3.0-rc2.
func isReleaseCandidate(v string) bool {
	pre := semver.Prerelease(v)
	return strings.HasPrefix(pre, "-rc") && len(pre) > len("-rc")
}

// GetBuildWarnings returns the warnings printed before every command for
// mismatched, development, and release-candidate builds. Empty when the
// binary is a stable release for this platform.
func GetBuildWarnings() string {
	var sb strings.Builder

	if HasArchMismatch() {
		fmt.Fprintf(&sb, "%s  Architecture mismatch: binary built for %s but running on %s/%s\n",
			iconWarn, buildTarget(), runtime.GOOS, runtime.GOARCH)
	}

	switch {
	case Version == "dev":
		fmt.Fprintf(&sb, "%s  Development build: unreleased version without a tag.\n", iconWarn)
	case isReleaseCandidate(Version):
		fmt.Fprintf(&sb, "%s  Release candidate: %s (not a stable release)\n", iconWarn, Version)
	}

	return sb.String()
}
