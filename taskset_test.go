package async

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskSet_RoutesRejectionToHandler(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	var got error
	ts := NewTaskSet(loop, errorHandlerFunc(func(err error) { got = err }))

	wantErr := errors.New("task failed")
	ts.Add(Rejected[int](wantErr).node)
	require.ErrorIs(t, got, wantErr)
}

func TestTaskSet_FulfilledTaskDoesNotReachHandler(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	called := false
	ts := NewTaskSet(loop, errorHandlerFunc(func(err error) { called = true }))
	ts.Add(Resolved(1).node)
	assert.False(t, called)
}

func TestTaskSet_AddAfterCloseIsInvariantViolation(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	ts := NewTaskSet(loop, &LoggingErrorHandler{})
	ts.Close()

	assert.Panics(t, func() {
		ts.Add(Resolved(1).node)
	})
}

func TestTaskSet_CloseCancelsOutstandingTasks(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	inner := &countingAdapterNode{}
	ts := NewTaskSet(loop, &LoggingErrorHandler{})
	ts.Add(inner)
	ts.Close()
	assert.True(t, inner.canceled)
}

func TestLoggingErrorHandler_NilLoggerIsSafe(t *testing.T) {
	h := &LoggingErrorHandler{}
	assert.NotPanics(t, func() { h.TaskFailed(errors.New("boom")) })
}
