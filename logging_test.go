package async

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	cases := map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarn:    "WARN",
		LevelError:   "ERROR",
		LogLevel(99): "UNKNOWN(99)",
	}
	for level, want := range cases {
		assert.Equal(t, want, level.String())
	}
}

func TestDefaultLogger_FiltersBelowConfiguredLevel(t *testing.T) {
	l := NewDefaultLogger(LevelWarn)
	assert.False(t, l.IsEnabled(LevelInfo))
	assert.True(t, l.IsEnabled(LevelWarn))
	assert.True(t, l.IsEnabled(LevelError))
}

// withRedirectedStderr runs fn with os.Stderr replaced, and returns what
// was written to it.
func withRedirectedStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestDefaultLogger_LogWritesFormattedLine(t *testing.T) {
	out := withRedirectedStderr(t, func() {
		l := NewDefaultLogger(LevelInfo)
		l.Log(LogEntry{Level: LevelInfo, Message: "loop started"})
	})
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "loop started")
}

func TestDefaultLogger_LogIncludesError(t *testing.T) {
	cause := errors.New("boom")
	out := withRedirectedStderr(t, func() {
		l := NewDefaultLogger(LevelError)
		l.Log(LogEntry{Level: LevelError, Message: "task failed", Err: cause})
	})
	assert.Contains(t, out, "task failed")
	assert.Contains(t, out, "boom")
}

func TestDefaultLogger_LogSkipsDisabledLevels(t *testing.T) {
	out := withRedirectedStderr(t, func() {
		l := NewDefaultLogger(LevelError)
		l.Log(LogEntry{Level: LevelDebug, Message: "should not appear"})
	})
	assert.Empty(t, out)
}
