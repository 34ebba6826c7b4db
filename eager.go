package async

import "sync"

// eagerNode forces its dependency to start resolving the moment it is
// created, rather than waiting for a consumer to call onReady. Useful
// for a promise a caller wants running in the background regardless of
// whether anyone ever collects its result. Corresponds to the original
// implementation's EagerPromiseNodeBase.
type eagerNode struct {
	mu       sync.Mutex
	dep      promiseNode
	depEvent *Event
	ready    onReadyEvent
	resolved bool
	result   Result
}

func newEagerNode(loop *Loop, dep promiseNode) *eagerNode {
	n := &eagerNode{dep: dep}
	event := newEvent(loop, n.onDepReady)
	event.traceOf = dep
	n.depEvent = event
	if dep.onReady(event) {
		n.onDepReady()
	}
	return n
}

func (n *eagerNode) onDepReady() {
	res := n.dep.get()
	n.mu.Lock()
	n.result = res
	n.resolved = true
	n.mu.Unlock()
	n.ready.arm()
}

func (n *eagerNode) onReady(event *Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.resolved {
		return true
	}
	return n.ready.init(event)
}

func (n *eagerNode) get() Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.resolved {
		panic(newInvariantViolation(codeGetBeforeReady, "eager node get called before its dependency settled"))
	}
	return n.result
}

func (n *eagerNode) innerForTrace() promiseNode { return n.dep }

// cancel detaches the event newEagerNode armed on dep before dropping dep
// itself. If dep already fired, detach is a no-op (the event already
// unlinked itself when the loop popped it); if it never fired, this is
// what keeps it from leaking in the loop's queue.
func (n *eagerNode) cancel() {
	n.depEvent.detach()
	cancelNode(n.dep)
}
