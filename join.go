package async

import "sync"

// exclusiveJoinNode races two nodes against each other: whichever
// resolves first wins, and the other is cancelled immediately.
// Corresponds to the original implementation's ExclusiveJoinPromiseNode
// and its inner Branch helper.
type exclusiveJoinNode struct {
	mu         sync.Mutex
	left       promiseNode
	right      promiseNode
	leftEvent  *Event
	rightEvent *Event
	ready      onReadyEvent

	result *Result
}

func newExclusiveJoin(loop *Loop, left, right promiseNode) *exclusiveJoinNode {
	j := &exclusiveJoinNode{left: left, right: right}

	leftEvent := newEvent(loop, func() { j.onBranchReady(0) })
	leftEvent.traceOf = left
	rightEvent := newEvent(loop, func() { j.onBranchReady(1) })
	rightEvent.traceOf = right
	j.leftEvent = leftEvent
	j.rightEvent = rightEvent

	leftReady := left.onReady(leftEvent)
	rightReady := right.onReady(rightEvent)
	// Fire at most one synchronous winner: if both settled before the
	// races were armed, the left side, checked first, wins, matching
	// the original implementation's left-to-right evaluation order.
	if leftReady {
		j.onBranchReady(0)
	} else if rightReady {
		j.onBranchReady(1)
	}
	return j
}

// onBranchReady runs when either side's event fires. The winner's Result
// is captured, and the loser is both cancelled and detached: cancelling
// alone drops the loser's dependency graph, but its own event (armed
// on it by newExclusiveJoin) is a separate object that the loop's queue
// still holds until detach unlinks it.
func (j *exclusiveJoinNode) onBranchReady(which int) {
	j.mu.Lock()
	if j.result != nil {
		j.mu.Unlock()
		return
	}
	var res Result
	var loserEvent *Event
	if which == 0 {
		res = j.left.get()
		loserEvent = j.rightEvent
		cancelNode(j.right)
		j.right = nil
	} else {
		res = j.right.get()
		loserEvent = j.leftEvent
		cancelNode(j.left)
		j.left = nil
	}
	j.result = &res
	j.mu.Unlock()
	loserEvent.detach()
	j.ready.arm()
}

func (j *exclusiveJoinNode) onReady(event *Event) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result != nil {
		return true
	}
	return j.ready.init(event)
}

func (j *exclusiveJoinNode) get() Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		panic(newInvariantViolation(codeGetBeforeReady, "exclusive join get called before either branch settled"))
	}
	return *j.result
}

func (j *exclusiveJoinNode) innerForTrace() promiseNode {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.left != nil {
		return j.left
	}
	return j.right
}

// cancel detaches both race events before dropping either side, covering
// the case where neither branch ever settled (an external drop of the
// whole join, not just the loser of an already-decided race).
func (j *exclusiveJoinNode) cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.leftEvent.detach()
	j.rightEvent.detach()
	cancelNode(j.left)
	cancelNode(j.right)
	j.left = nil
	j.right = nil
}
