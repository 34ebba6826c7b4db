package async

// Sleeper is the cross-goroutine wakeup primitive a [Loop] uses to block
// its home goroutine when its event queue is empty, and that any other
// goroutine may use to wake it (spec §6, two flavours: futex-based on
// Linux, mutex/condvar-based elsewhere). It is the single legal
// cross-goroutine touchpoint on an otherwise single-threaded Loop.
//
// PrepareToSleep must be called by the loop's home goroutine before
// checking whether the queue is still empty; Sleep blocks until some
// other goroutine calls Wake (or the prepared flag was never actually
// set). Wake is safe to call from any goroutine, including when no sleep
// is in progress, in which case it is a no-op.
type Sleeper interface {
	PrepareToSleep()
	Sleep()
	Wake()
}

// newDefaultSleeper returns the platform Sleeper selected at build time:
// a futex-backed implementation on Linux, a mutex/condvar one elsewhere.
// See wakeup_linux.go and wakeup_generic.go.
func newDefaultSleeper() Sleeper {
	return newPlatformSleeper()
}
