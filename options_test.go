package async

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLoopOptions_DefaultsAreSet(t *testing.T) {
	cfg, err := resolveLoopOptions(nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.sleeper)
	assert.NotNil(t, cfg.logger)
	assert.Nil(t, cfg.taskSetErrorHandler)
}

func TestWithLogger_Overrides(t *testing.T) {
	custom := NewDefaultLogger(LevelDebug)
	cfg, err := resolveLoopOptions([]LoopOption{WithLogger(custom)})
	require.NoError(t, err)
	assert.Same(t, custom, cfg.logger)
}

func TestWithSleeper_Overrides(t *testing.T) {
	custom := newPlatformSleeper()
	cfg, err := resolveLoopOptions([]LoopOption{WithSleeper(custom)})
	require.NoError(t, err)
	assert.Same(t, custom, cfg.sleeper)
}

func TestWithTaskSetErrorHandler_Overrides(t *testing.T) {
	custom := &LoggingErrorHandler{}
	cfg, err := resolveLoopOptions([]LoopOption{WithTaskSetErrorHandler(custom)})
	require.NoError(t, err)
	assert.Same(t, custom, cfg.taskSetErrorHandler)
}

func TestWithStrictClose_Overrides(t *testing.T) {
	cfg, err := resolveLoopOptions([]LoopOption{WithStrictClose()})
	require.NoError(t, err)
	assert.True(t, cfg.strictClose)
}

func TestNewLoop_RejectsSecondLoopOnSameGoroutine(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	_, err = NewLoop()
	require.Error(t, err)
	var iv *InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, codeLoopAlreadyCurrent, iv.Code)
}

func TestCurrent_ReturnsTheRegisteredLoop(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	assert.Same(t, loop, Current())
	assert.True(t, loop.IsCurrent())
}
