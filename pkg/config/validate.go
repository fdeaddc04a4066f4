package config

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/ajxudir/acerun/pkg/errors"
)

// Validate checks the configuration and returns every problem at once.
//
// It performs the following operations:
//   - Step 1: Check the schema version is a semver whose major is SchemaVersion
//   - Step 2: Check there is at least one test, with unique non-empty names
//   - Step 3: Check each test has exactly one of command or shell and a sane timeout
//   - Step 4: Check the container and game sections still name something to run
//
// Returns:
//   - error: nil when valid, otherwise errors.ValidationErrors
func (c *Config) Validate() error {
	var errs errors.ValidationErrors

	validateVersion(c.Version, &errs)

	if len(c.Tests) == 0 {
		e := errs.Add("tests", "no tests configured")
		e.Hint = "Add at least one entry under tests, or delete the key to use the default suite"
	}

	seen := make(map[string]int, len(c.Tests))
	for i, t := range c.Tests {
		field := fmt.Sprintf("tests[%d]", i)
		name := strings.TrimSpace(t.Name)

		if name == "" {
			errs.Add(field+".name", "must not be empty")
		} else if first, dup := seen[name]; dup {
			errs.Add(field+".name", fmt.Sprintf("duplicate test name %q (first used by tests[%d])", name, first))
		} else {
			seen[name] = i
		}

		hasCommand := strings.TrimSpace(t.Command) != ""
		hasShell := strings.TrimSpace(t.Shell) != ""
		switch {
		case !hasCommand && !hasShell:
			e := errs.Add(field+".command", "one of command or shell is required")
			e.Expected = "command: python3 with args: [test_simple.py], or shell: \"python3 test_simple.py\""
		case hasCommand && hasShell:
			errs.Add(field, "command and shell are mutually exclusive")
		case hasShell && len(t.Args) > 0:
			errs.Add(field+".args", "args cannot be combined with shell; put them in the shell line")
		}

		if t.TimeoutSeconds < 0 {
			e := errs.Add(field+".timeout_seconds", fmt.Sprintf("must not be negative (got %d)", t.TimeoutSeconds))
			e.Expected = "0 for no timeout, or a number of seconds"
		}
	}

	if strings.TrimSpace(c.Container.Image) == "" {
		errs.Add("container.image", "must not be empty")
	}
	if strings.TrimSpace(c.Game.Command) == "" {
		errs.Add("game.command", "must not be empty")
	}

	return errs.Err()
}

// validateVersion accepts "v1", "1", "v1.2", "v1.2.3" and rejects other majors.
func validateVersion(version string, errs *errors.ValidationErrors) {
	v := NormalizeVersion(version)
	if !semver.IsValid(v) {
		e := errs.Add("version", fmt.Sprintf("invalid schema version %q", version))
		e.Expected = SchemaVersion
		return
	}
	if semver.Major(v) != SchemaVersion {
		e := errs.Add("version", fmt.Sprintf("unsupported schema version %s", semver.Canonical(v)))
		e.Expected = SchemaVersion
		e.Hint = "This build of acerun reads " + SchemaVersion + " configuration files"
	}
}

// NormalizeVersion adds the "v" prefix semver requires.
func NormalizeVersion(version string) string {
	v := strings.TrimSpace(version)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
