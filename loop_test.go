package async

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_ImmediateValue(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	v, err := Wait(loop, Resolved(42))
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestWait_ImmediateRejection(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	wantErr := errors.New("boom")
	_, err = Wait(loop, Rejected[int](wantErr))
	require.ErrorIs(t, err, wantErr)
}

func TestWait_OutsideHomeGoroutineIsInvariantViolation(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		Wait(loop, Resolved(1))
	}()
	r := <-done
	require.NotNil(t, r)
	iv, ok := r.(*InvariantViolation)
	require.True(t, ok)
	assert.Equal(t, codeWrongThread, iv.Code)
}

func TestWait_Reentrant(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	// Wait keeps l.running set until it has extracted the final Result,
	// so a transform callback invoked from inside that Get call is still
	// "inside" the outer Wait from the loop's point of view.
	p := Then(loop.Yield(), func(_ struct{}) (struct{}, error) {
		assert.Panics(t, func() {
			Wait(loop, Resolved(1))
		})
		return struct{}{}, nil
	})
	_, err = Wait(loop, p)
	require.NoError(t, err)
}

func TestYield_ResolvesViaThePump(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	_, err = Wait(loop, loop.Yield())
	require.NoError(t, err)
}

func TestDaemonize_UncaughtRejectionReachesHandler(t *testing.T) {
	var handled []error
	handler := errorHandlerFunc(func(err error) { handled = append(handled, err) })

	loop, err := NewLoop(WithTaskSetErrorHandler(handler))
	require.NoError(t, err)
	defer loop.Close()

	wantErr := errors.New("daemon failed")
	Daemonize(loop, Rejected[int](wantErr))

	require.Len(t, handled, 1)
	assert.ErrorIs(t, handled[0], wantErr)
}

func TestDaemonize_PanicsOnClosedLoop(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	loop.Close()

	assert.Panics(t, func() {
		Daemonize(loop, Resolved(1))
	})
}

func TestClose_LogsLeakedEvents(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)

	p := NewAdapter(func(f Fulfiller[struct{}]) {
		// never fulfilled; only the trace target of the event armed below
	})
	ev := newEvent(loop, func() {})
	ev.traceOf = p.node
	ev.armBreadthFirst()

	var logged []LogEntry
	loop.logger = &capturingLogger{entries: &logged}

	loop.Close()
	require.Len(t, logged, 1)
	assert.Equal(t, LevelError, logged[0].Level)
}

func TestPostExternal_RunsOnNextPump(t *testing.T) {
	loop, err := NewLoop()
	require.NoError(t, err)
	defer loop.Close()

	ran := make(chan struct{})
	go loop.postExternal(func() { close(ran) })

	for {
		loop.pump()
		select {
		case <-ran:
			return
		default:
		}
	}
}

func TestClose_StrictClosePanicsOnLeakedEvents(t *testing.T) {
	loop, err := NewLoop(WithStrictClose())
	require.NoError(t, err)

	ev := newEvent(loop, func() {})
	ev.armBreadthFirst()

	assert.Panics(t, func() {
		loop.Close()
	})
}

type errorHandlerFunc func(error)

func (f errorHandlerFunc) TaskFailed(err error) { f(err) }

type capturingLogger struct {
	entries *[]LogEntry
}

func (l *capturingLogger) IsEnabled(level LogLevel) bool { return true }

func (l *capturingLogger) Log(entry LogEntry) { *l.entries = append(*l.entries, entry) }
