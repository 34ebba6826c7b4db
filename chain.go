package async

// chainNode flattens a promise of a promise: it first waits on outer,
// then, once outer resolves to another promiseNode, re-points itself at
// that inner node and waits on it too, so a consumer sees a single
// readiness event regardless of how many promises were nested.
// Corresponds to the original implementation's ChainPromiseNode and its
// STEP1/STEP2 states.
type chainNode struct {
	loop  *Loop
	step  int // 1 while waiting on outer, 2 once re-pointed at inner
	inner promiseNode

	advanceEvent  *Event
	consumerEvent *Event
}

const (
	chainStepOuter = 1
	chainStepInner = 2
)

func newChainNode(loop *Loop, outer promiseNode) *chainNode {
	return &chainNode{loop: loop, step: chainStepOuter, inner: outer}
}

// promiseNoder is implemented by Promise[T] for every T, letting
// chainNode recognize a nested promise inside a Result.Value without
// needing to know its element type.
type promiseNoder interface {
	asPromiseNode() promiseNode
}

func (n *chainNode) onReady(event *Event) bool {
	if n.consumerEvent != nil {
		panic(newInvariantViolation(codeDoubleOnReady, "chain node's onReady called more than once"))
	}
	n.consumerEvent = event
	if n.step == chainStepOuter {
		advanceEvent := newEvent(n.loop, n.advance)
		advanceEvent.traceOf = n.inner
		n.advanceEvent = advanceEvent
		if n.inner.onReady(advanceEvent) {
			n.advance()
		}
		return false
	}
	return n.inner.onReady(event)
}

// advance runs once outer settles: it unwraps the nested promise (if
// any) from outer's Result and re-points the chain at it, then arms
// whatever consumer event is already registered.
func (n *chainNode) advance() {
	res := n.inner.get()
	var next promiseNode
	if res.Err == nil {
		if pn, ok := res.Value.(promiseNoder); ok {
			next = pn.asPromiseNode()
		}
	}
	n.step = chainStepInner
	if next == nil {
		n.inner = &immediateResultNode{result: res}
		if n.consumerEvent != nil {
			n.consumerEvent.armDepthFirst()
		}
		return
	}
	n.inner = next
	if n.consumerEvent != nil {
		if next.onReady(n.consumerEvent) {
			n.consumerEvent.armDepthFirst()
		}
	}
}

func (n *chainNode) get() Result { return n.inner.get() }

func (n *chainNode) innerForTrace() promiseNode { return n.inner }

// cancel detaches the advance event armed on outer (if the chain is still
// at step one; a no-op once advance has already run or never armed it
// synchronously) before dropping whatever inner currently points at.
func (n *chainNode) cancel() {
	n.advanceEvent.detach()
	cancelNode(n.inner)
}

// immediateResultNode is a leaf used internally once a chainNode has
// already extracted a final Result and has nothing further to wait on.
type immediateResultNode struct {
	result Result
}

func (n *immediateResultNode) onReady(event *Event) bool { return true }

func (n *immediateResultNode) get() Result { return n.result }

func (n *immediateResultNode) innerForTrace() promiseNode { return nil }
