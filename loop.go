package async

import (
	"runtime"
	"sync"
)

// Loop is the event-loop core described in spec component C2. It owns a
// queue of armed [Event] values, drives them to completion one at a time,
// and blocks via a [Sleeper] when the queue runs dry.
//
// A Loop is bound to exactly one goroutine for its whole lifetime, the
// goroutine that called [NewLoop]. Arming an event, destroying an event,
// or calling [Wait] from any other goroutine is an
// [InvariantViolation]. The only legal cross-goroutine interactions are
// [Sleeper.Wake] and settling a [Fulfiller], whose queue work is handed
// to the home goroutine.
type Loop struct {
	head                  *Event
	tail                  **Event
	depthFirstInsertPoint **Event
	running               bool
	homeGoroutine         uint64
	sleeper               Sleeper
	logger                Logger
	daemons               *TaskSet
	closed                bool
	strictClose           bool

	externalMu    sync.Mutex
	externalQueue []func()
}

var (
	currentLoops   = map[uint64]*Loop{}
	currentLoopsMu sync.Mutex
)

// NewLoop constructs a Loop bound to the calling goroutine, applying the
// given options. It corresponds to the original implementation's
// EventLoop() constructor, which registers the thread-local current loop;
// Go has no thread-local storage, so the registration is keyed on a
// captured goroutine id instead (see getGoroutineID, grounded on the
// teacher's own isLoopThread/getGoroutineID helpers).
func NewLoop(opts ...LoopOption) (*Loop, error) {
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		sleeper:     cfg.sleeper,
		logger:      cfg.logger,
		strictClose: cfg.strictClose,
	}
	l.tail = &l.head
	l.depthFirstInsertPoint = &l.head

	gid := getGoroutineID()
	currentLoopsMu.Lock()
	if _, exists := currentLoops[gid]; exists {
		currentLoopsMu.Unlock()
		return nil, newInvariantViolation(codeLoopAlreadyCurrent,
			"this goroutine already has a current Loop")
	}
	currentLoops[gid] = l
	currentLoopsMu.Unlock()
	l.homeGoroutine = gid

	errHandler := cfg.taskSetErrorHandler
	if errHandler == nil {
		errHandler = &LoggingErrorHandler{Logger: l.logger}
	}
	l.daemons = NewTaskSet(l, errHandler)

	return l, nil
}

// Current returns the Loop registered for the calling goroutine, panicking
// with an [InvariantViolation] if none is registered.
func Current() *Loop {
	gid := getGoroutineID()
	currentLoopsMu.Lock()
	l := currentLoops[gid]
	currentLoopsMu.Unlock()
	if l == nil {
		panic(newInvariantViolation(codeNoCurrentLoop, "no Loop is current on this goroutine"))
	}
	return l
}

// IsCurrent reports whether the calling goroutine is l's home goroutine,
// the one that called [NewLoop].
func (l *Loop) IsCurrent() bool {
	return getGoroutineID() == l.homeGoroutine
}

// postExternal queues fn to run on l's home goroutine the next time it
// pumps, and wakes the loop if it is currently blocked in Sleep. It is
// the one thread-safe entry point into an otherwise single-threaded
// Loop, grounded on the teacher's split between a goroutine-bound run
// loop and an externally-submitted task queue drained each tick.
func (l *Loop) postExternal(fn func()) {
	l.externalMu.Lock()
	l.externalQueue = append(l.externalQueue, fn)
	l.externalMu.Unlock()
	l.sleeper.Wake()
}

// drainExternal moves any pending cross-goroutine callbacks onto the
// home goroutine and runs them, reporting whether it ran any. Called at
// the top of every pump, so anything queued by postExternal gets a
// chance to arm events before the loop decides whether it has work to do.
func (l *Loop) drainExternal() bool {
	l.externalMu.Lock()
	pending := l.externalQueue
	l.externalQueue = nil
	l.externalMu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending) > 0
}

func mustBeOnLoopThread(l *Loop) {
	if l == nil {
		return
	}
	if !l.IsCurrent() {
		panic(newInvariantViolation(codeWrongThread,
			"event queue operation performed from a different goroutine than the Loop's home goroutine"))
	}
}

// boolEvent is the stack-allocated "done" event Wait arms on the node it
// is waiting for. Grounded on the original implementation's anonymous
// namespace BoolEvent.
type boolEvent struct {
	fired bool
}

// Wait blocks the calling goroutine, pumping l's event queue, until node
// signals readiness, then extracts its Result. It corresponds to
// EventLoop::waitImpl in the original implementation.
//
// Wait panics with an [InvariantViolation] if called from a goroutine
// other than l's home goroutine, or re-entrantly from within an event's
// fire callback.
//
// Wait takes ownership of p the way the original implementation's
// waitImpl consumes its Own<PromiseNode> argument: p's node is cancelled
// once its result has been extracted, so p must not be waited on or
// cancelled again afterward.
func Wait[T any](l *Loop, p Promise[T]) (T, error) {
	mustBeOnLoopThread(l)
	if l.running {
		panic(newInvariantViolation(codeReentrantWait, "Wait is not allowed from within event callbacks"))
	}

	node := p.node
	done := &boolEvent{}
	doneEvent := newEvent(l, func() {
		done.fired = true
	})
	doneEvent.traceOf = node
	if node.onReady(doneEvent) {
		done.fired = true
	}

	l.running = true
	defer func() { l.running = false }()

	for !done.fired {
		l.pump()
	}

	res := node.get()
	cancelNode(node)

	var zero T
	if res.Err != nil {
		return zero, res.Err
	}
	v, _ := res.Value.(T)
	return v, nil
}

// pump drains one step of the event loop: if the queue is non-empty, pops
// and fires the head event; if it is empty but a postExternal callback
// ran, returns without blocking; otherwise blocks on the Sleeper until
// woken.
func (l *Loop) pump() {
	ranExternal := l.drainExternal()

	if l.head == nil {
		if ranExternal {
			// A cross-goroutine callback ran and armed nothing: that is
			// this step's progress, so return instead of sleeping.
			l.depthFirstInsertPoint = &l.head
			return
		}
		// No events in the queue. Wait for a wake-up.
		l.sleeper.PrepareToSleep()
		if l.drainExternal() || l.head != nil {
			// A postExternal callback arrived, or a job was armed,
			// between the empty check above and PrepareToSleep (e.g. a
			// cross-goroutine wake raced us). Cancel the prepared sleep
			// instead of blocking forever.
			l.sleeper.Wake()
		}
		l.sleeper.Sleep()
		l.depthFirstInsertPoint = &l.head
		return
	}

	event := l.head
	l.head = event.next
	l.depthFirstInsertPoint = &l.head
	if l.tail == &event.next {
		l.tail = &l.head
	}
	event.next = nil
	event.prev = nil

	event.firing = true
	event.onFire()
	event.firing = false

	l.depthFirstInsertPoint = &l.head
}

// Yield returns a Promise whose node always arms breadth-first, giving any
// caller a way to step to the back of the queue. Corresponds to
// EventLoop::yield / the private YieldPromiseNode.
func (l *Loop) Yield() Promise[struct{}] {
	return Promise[struct{}]{node: &yieldNode{}}
}

type yieldNode struct{}

func (y *yieldNode) onReady(event *Event) bool {
	event.armBreadthFirst()
	return false
}

func (y *yieldNode) get() Result { return Result{Value: struct{}{}} }

func (y *yieldNode) innerForTrace() promiseNode { return nil }

// Daemonize hands promise to l's daemon TaskSet: a fire-and-forget
// promise whose eventual rejection, if any, is routed to the TaskSet's
// ErrorHandler. It panics with an [InvariantViolation] if l is shutting
// down. Corresponds to EventLoop::daemonize.
func Daemonize[T any](l *Loop, p Promise[T]) {
	if l.closed {
		panic(newInvariantViolation(codeLoopShuttingDown, "Loop is shutting down"))
	}
	l.daemons.Add(p.asVoid())
}

// Close shuts the loop down: it asserts the loop is current on the
// calling goroutine, tears down the daemon task set, then asserts the
// queue is empty (a non-empty queue indicates a leaked promise graph). If
// the queue is not empty, the leaked events are logged with a trace and
// forcibly unlinked rather than left to fire into a dead loop. Corresponds
// to ~EventLoop().
func (l *Loop) Close() {
	mustBeOnLoopThread(l)

	l.daemons.Close()
	l.closed = true

	currentLoopsMu.Lock()
	delete(currentLoops, l.homeGoroutine)
	currentLoopsMu.Unlock()

	if l.head != nil {
		trace := l.head.trace()
		if l.strictClose {
			panic(newInvariantViolation(codeLoopNotEmptyOnClose,
				"Loop closed with events still in the queue: "+trace))
		}
		if l.logger != nil {
			l.logger.Log(LogEntry{
				Level:   LevelError,
				Message: "Loop closed with events still in the queue (memory leak?): " + trace,
			})
		}
		event := l.head
		for event != nil {
			next := event.next
			event.next = nil
			event.prev = nil
			event = next
		}
		l.head = nil
	}
}

// getGoroutineID returns the current goroutine's numeric id by parsing
// runtime.Stack's "goroutine N [...]" header. Grounded on the teacher's
// own getGoroutineID (loop.go), used there for the identical purpose of
// giving a goroutine-bound Loop a cheap "am I on the home goroutine?"
// check without a per-call allocation.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
