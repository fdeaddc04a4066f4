package warnings

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarnf(t *testing.T) {
	buf := &bytes.Buffer{}
	restore := SetWarningWriter(buf)
	defer restore()

	Warnf("failed to kill process group: %v", "no such process")
	Warnf("already terminated\n")

	assert.Equal(t,
		"warning: failed to kill process group: no such process\nwarning: already terminated\n",
		buf.String())
}

func TestSetWarningWriterRestore(t *testing.T) {
	first := &bytes.Buffer{}
	restoreFirst := SetWarningWriter(first)

	second := &bytes.Buffer{}
	restoreSecond := SetWarningWriter(second)
	Warnf("to second")
	restoreSecond()

	Warnf("to first")
	restoreFirst()

	assert.Contains(t, second.String(), "to second")
	assert.NotContains(t, second.String(), "to first")
	assert.Contains(t, first.String(), "to first")
}

func TestSetWarningWriterNilUsesStderr(t *testing.T) {
	restore := SetWarningWriter(nil)
	defer restore()

	mu.RLock()
	defer mu.RUnlock()
	assert.Equal(t, os.Stderr, warnWriter)
}
