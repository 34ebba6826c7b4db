//go:build linux

package async

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// futexSleeper implements [Sleeper] using a raw futex syscall, mirroring
// the original implementation's SimpleEventLoop futex backend
// (KJ_USE_FUTEX) line for line: PrepareToSleep relaxed-stores 1; Sleep
// loops on a relaxed-load, futex-waiting while the value is still 1; Wake
// relaxed-exchanges 0 and, if the previous value was 1, wakes one waiter.
//
// preparedToSleep is a plain uint32 rather than an atomic.Uint32 so its
// address can be passed straight into the SYS_FUTEX syscall, which
// operates on a raw *uint32; all access still goes through sync/atomic.
type futexSleeper struct {
	preparedToSleep uint32
}

func newPlatformSleeper() Sleeper {
	return &futexSleeper{}
}

func (s *futexSleeper) PrepareToSleep() {
	atomic.StoreUint32(&s.preparedToSleep, 1)
}

func (s *futexSleeper) Sleep() {
	for atomic.LoadUint32(&s.preparedToSleep) == 1 {
		futexWait(&s.preparedToSleep, 1)
	}
}

func (s *futexSleeper) Wake() {
	if atomic.SwapUint32(&s.preparedToSleep, 0) != 0 {
		futexWake(&s.preparedToSleep)
	}
}

// futexWait blocks while *addr == val, using the FUTEX_WAIT_PRIVATE
// syscall directly via golang.org/x/sys/unix, the teacher's own choice of
// library for raw platform syscalls.
func futexWait(addr *uint32, val uint32) {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(linuxFutexWaitPrivate),
		uintptr(val),
		0, 0, 0,
	)
	// EAGAIN means *addr had already changed before the kernel checked it;
	// EINTR means a spurious wake. Both are handled by the caller's
	// re-check loop, so there is nothing to do with errno here.
	_ = errno
}

// futexWake wakes a single waiter blocked on addr.
func futexWake(addr *uint32) {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(linuxFutexWakePrivate),
		1,
		0, 0, 0,
	)
	_ = errno
}

const (
	linuxFutexWaitPrivate = 0 | 128 // FUTEX_WAIT | FUTEX_PRIVATE_FLAG
	linuxFutexWakePrivate = 1 | 128 // FUTEX_WAKE | FUTEX_PRIVATE_FLAG
)
