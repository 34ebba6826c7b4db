package async

// promiseNode is the common capability every asynchronous value in this
// package implements. It corresponds to spec component C3.
//
// onReady requests that event be armed once the node becomes resolvable.
// If the node is already resolvable, onReady returns true and does NOT
// arm event; otherwise it returns false and retains exactly one reference
// to event until it fires it. onReady is called at most once per node
// lifetime, and never with a nil event.
//
// get extracts the resolved value or error into a Result. Its precondition
// is that the node has already signalled readiness (onReady returned true,
// or the event it was given has since fired); calling it earlier is an
// [InvariantViolation]. get may be called at most once.
//
// innerForTrace returns the next node to chase when building a diagnostic
// trace, or nil if this node has no inner dependency (or has already
// released it).
type promiseNode interface {
	onReady(event *Event) bool
	get() Result
	innerForTrace() promiseNode
}

// cancelable is implemented by nodes that hold a dependency they must
// release on cancellation. Not every promiseNode needs it — leaf nodes
// have nothing to cancel.
type cancelable interface {
	cancel()
}

// cancel releases node's resources, cascading to its dependencies. It is
// the Go analogue of dropping a kj::Own<PromiseNode>: since Go has no
// deterministic destructors, cancellation is an explicit call rather than
// an implicit one, but the cascade semantics in spec §5 are preserved.
func cancelNode(n promiseNode) {
	if n == nil {
		return
	}
	if c, ok := n.(cancelable); ok {
		c.cancel()
	}
}

// onReadyState is the tri-state slot described in spec §3's OnReadyEvent:
// empty (no event registered yet), armed (a waker is stored and will be
// armed depth-first once the node is ready), or alreadyReady (the node
// resolved before any consumer called onReady).
//
// The original C++ implementation represents this with a sentinel pointer
// value stashed in the event field; Go's type system has no equivalent
// trick for an interface-typed field, so the state is tracked explicitly.
// This is the Open Question resolution recorded in DESIGN.md.
type onReadyState int

const (
	onReadyEmpty onReadyState = iota
	onReadyArmed
	onReadyAlreadyReady
)

// onReadyEvent is the reusable "remember my caller's waker" helper used by
// the exclusive join, eager node and adapter. The fork branch and chain
// node, which also do not simply forward onReady, keep their own waker
// bookkeeping instead.
type onReadyEvent struct {
	state onReadyState
	event *Event
}

// init transitions empty -> armed and returns false, or returns true when
// the node was already ready before a consumer asked. Mirrors
// PromiseNode::OnReadyEvent::init in the original implementation.
func (o *onReadyEvent) init(event *Event) bool {
	if o.state == onReadyAlreadyReady {
		return true
	}
	o.state = onReadyArmed
	o.event = event
	return false
}

// arm transitions empty -> alreadyReady (nothing to wake yet, just record
// that this node is ready), or arms the stored event depth-first.
func (o *onReadyEvent) arm() {
	if o.state != onReadyArmed || o.event == nil {
		o.state = onReadyAlreadyReady
		return
	}
	ev := o.event
	o.event = nil
	o.state = onReadyAlreadyReady
	ev.armDepthFirst()
}
