package async

import "fmt"

// InvariantViolationCode identifies a specific core invariant from spec §7
// that was violated. Values are stable and may be matched with errors.Is
// against the sentinel InvariantViolation values this package exposes, if
// any are added later; for now code is informational.
type InvariantViolationCode string

const (
	codeWrongThread            InvariantViolationCode = "wrong_thread"
	codeReentrantWait          InvariantViolationCode = "reentrant_wait"
	codeDoubleOnReady          InvariantViolationCode = "double_on_ready"
	codeGetBeforeReady         InvariantViolationCode = "get_before_ready"
	codeEventFiringSelfDestroy InvariantViolationCode = "event_firing_self_destroy"
	codeLoopNotEmptyOnClose    InvariantViolationCode = "loop_not_empty_on_close"
	codeTaskSetShuttingDown    InvariantViolationCode = "taskset_shutting_down"
	codeLoopShuttingDown       InvariantViolationCode = "loop_shutting_down"
	codeNoCurrentLoop          InvariantViolationCode = "no_current_loop"
	codeLoopAlreadyCurrent     InvariantViolationCode = "loop_already_current"
)

// InvariantViolation is panicked whenever a core invariant listed in
// spec §7 is broken (wrong-thread access, nested Wait, double onReady,
// premature get, self-destruction inside fire, a non-empty queue at
// Loop.Close under WithStrictClose, and so on). These are not meant to be recovered from within
// the core; callers that catch them are expected to treat them as fatal
// programming errors, exactly as spec §7 describes.
type InvariantViolation struct {
	Code    InvariantViolationCode
	Message string
	Cause   error
}

func (e *InvariantViolation) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("async: invariant violation [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("async: invariant violation [%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any, for use with errors.Is/As.
func (e *InvariantViolation) Unwrap() error {
	return e.Cause
}

func newInvariantViolation(code InvariantViolationCode, message string) *InvariantViolation {
	return &InvariantViolation{Code: code, Message: message}
}

// WrapError wraps err with a message and preserves it as the cause for
// errors.Is/errors.As, the same shape as the teacher's own WrapError
// helper (errors.go).
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}

// runCatching runs fn and recovers any panic into an error, returning nil
// if fn completed normally. It is this package's instance of spec §6's
// "exception-capture facility" external collaborator — used anywhere a
// cancellation path or user callback must not be allowed to unwind past
// the core (matching the original's kj::runCatchingExceptions idiom). A
// panic carrying an *InvariantViolation is never caught: invariant
// violations are fatal programming errors, not recoverable rejections.
func runCatching(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(*InvariantViolation); ok {
				panic(iv)
			}
			if e, ok := r.(error); ok {
				err = WrapError("recovered panic", e)
				return
			}
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	fn()
	return nil
}
