package async

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvariantViolation_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	iv := &InvariantViolation{Code: codeWrongThread, Message: "wrong thread", Cause: cause}
	assert.ErrorIs(t, iv, cause)
	assert.Contains(t, iv.Error(), "wrong thread")
}

func TestWrapError_PreservesCauseForErrorsIs(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := WrapError("context", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "context")
}

func TestRunCatching_ReturnsNilOnSuccess(t *testing.T) {
	err := runCatching(func() {})
	assert.NoError(t, err)
}

func TestRunCatching_RecoversPanicIntoError(t *testing.T) {
	err := runCatching(func() { panic("kaboom") })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRunCatching_RecoversErrorPanicIntoError(t *testing.T) {
	cause := errors.New("panicked error")
	err := runCatching(func() { panic(cause) })
	assert.ErrorIs(t, err, cause)
}

func TestRunCatching_RepanicsInvariantViolation(t *testing.T) {
	iv := newInvariantViolation(codeGetBeforeReady, "test")
	assert.PanicsWithValue(t, iv, func() {
		_ = runCatching(func() { panic(iv) })
	})
}
