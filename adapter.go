package async

import "sync"

// adapterNode is settled from outside the promise graph by a paired
// Fulfiller, rather than by depending on another node. Corresponds to
// the original implementation's AdapterPromiseNodeBase / PromiseFulfiller
// pairing used at the root of every promise tree that isn't built from
// another promise (timers, callback-based APIs, and so on).
type adapterNode struct {
	mu      sync.Mutex
	ready   onReadyEvent
	result  Result
	settled bool
}

func (n *adapterNode) onReady(event *Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.settled {
		return true
	}
	return n.ready.init(event)
}

func (n *adapterNode) get() Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.settled {
		panic(newInvariantViolation(codeGetBeforeReady, "adapter node's get called before it was settled"))
	}
	return n.result
}

func (n *adapterNode) innerForTrace() promiseNode { return nil }

// settle delivers res at most once. If a consumer has already armed an
// event through onReady, arming it (onReadyEvent.arm, via armDepthFirst)
// touches that event's home Loop's queue, which is only safe from the
// Loop's own goroutine. A Fulfiller may legitimately settle from any
// goroutine, so when settle itself isn't running on that goroutine, the
// result is still recorded immediately (under n.mu, so get() sees it
// promptly) but the queue-touching part of arm() is handed to the
// Loop's postExternal, the sole other thread-safe entry point besides
// Sleeper.Wake itself.
func (n *adapterNode) settle(res Result) {
	n.mu.Lock()
	if n.settled {
		n.mu.Unlock()
		return // a Fulfiller settles at most once; later calls are ignored
	}
	n.result = res
	n.settled = true
	if n.ready.state == onReadyArmed {
		if loop := n.ready.event.loop; loop != nil && !loop.IsCurrent() {
			n.mu.Unlock()
			loop.postExternal(n.ready.arm)
			return
		}
	}
	n.mu.Unlock()
	n.ready.arm()
}

// Fulfiller is the other half of an adapter-backed [Promise]: the holder
// calls Fulfill or Reject exactly once (later calls are no-ops) to settle
// the promise returned by [NewAdapter].
type Fulfiller[T any] struct {
	node *adapterNode
}

// Fulfill resolves the paired promise with v.
func (f Fulfiller[T]) Fulfill(v T) {
	f.node.settle(Result{Value: v})
}

// Reject resolves the paired promise with err.
func (f Fulfiller[T]) Reject(err error) {
	f.node.settle(Result{Err: err})
}

// NewAdapter creates a [Promise] together with the [Fulfiller] that
// settles it, for bridging callback-based or external-event-driven APIs
// into the promise graph. setup is called synchronously with the
// Fulfiller before NewAdapter returns, so it is safe to hand the
// Fulfiller to another goroutine for later use: Fulfill and Reject may
// be called from any goroutine, and settling from off the consumer's
// home Loop is marshalled onto it via [Sleeper.Wake].
func NewAdapter[T any](setup func(Fulfiller[T])) Promise[T] {
	n := &adapterNode{}
	setup(Fulfiller[T]{node: n})
	return Promise[T]{node: n}
}
