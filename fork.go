package async

import "sync"

// forkHub drives a single dependency to completion once, on behalf of
// any number of forkBranch consumers that share the resulting Result
// without copying it, per the Open Question resolution recorded in
// DESIGN.md. Corresponds to the original implementation's ForkHubBase;
// the branch linked list there is replaced by a plain slice protected by
// a mutex, per spec §4.6's explicit locking requirement.
type forkHub struct {
	loop *Loop

	mu           sync.Mutex
	dep          promiseNode
	depArmed     bool
	depEvent     *Event
	result       *Result
	waiterEvents []*Event
	liveBranches int
}

// forkBranch is one consumer's view of a forkHub's shared computation.
// Corresponds to the original implementation's ForkBranchBase.
type forkBranch struct {
	hub     *forkHub
	waiting *Event // the event this branch last registered with the hub, if any
}

// newForkBranches builds a hub around dep and returns n independent
// branch nodes, each of which observes dep's eventual Result without
// driving it more than once.
func newForkBranches(loop *Loop, dep promiseNode, n int) []promiseNode {
	hub := &forkHub{loop: loop, dep: dep, liveBranches: n}
	branches := make([]promiseNode, n)
	for i := range branches {
		branches[i] = &forkBranch{hub: hub}
	}
	return branches
}

func (b *forkBranch) onReady(event *Event) bool {
	h := b.hub
	h.mu.Lock()
	if h.result != nil {
		h.mu.Unlock()
		return true
	}
	h.waiterEvents = append(h.waiterEvents, event)
	b.waiting = event
	armNow := false
	if !h.depArmed {
		h.depArmed = true
		depEvent := newEvent(h.loop, h.onDepReady)
		depEvent.traceOf = h.dep
		h.depEvent = depEvent
		armNow = h.dep.onReady(depEvent)
	}
	h.mu.Unlock()
	if armNow {
		h.onDepReady()
	}
	return false
}

// onDepReady fires once, the first time the hub's dependency becomes
// ready, and wakes every branch waiting on it at that moment.
func (h *forkHub) onDepReady() {
	res := h.dep.get()
	h.mu.Lock()
	h.result = &res
	waiters := h.waiterEvents
	h.waiterEvents = nil
	h.mu.Unlock()
	for _, e := range waiters {
		e.armDepthFirst()
	}
}

func (b *forkBranch) get() Result {
	h := b.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.result == nil {
		panic(newInvariantViolation(codeGetBeforeReady, "fork branch get called before the hub settled"))
	}
	return *h.result
}

func (b *forkBranch) innerForTrace() promiseNode { return b.hub.dep }

// cancel drops one branch's interest in the hub. If the hub hasn't
// settled yet, this branch's own waiting event is pulled out of
// waiterEvents and detached, so it is never armed on a result this
// branch dropped interest in. The dependency itself is only cancelled,
// and its own event detached, once every branch has dropped out and the
// hub never settled; any branch that did observe a result keeps sharing
// it.
func (b *forkBranch) cancel() {
	h := b.hub
	h.mu.Lock()
	h.liveBranches--
	live := h.liveBranches
	settled := h.result != nil
	var stale *Event
	if !settled && b.waiting != nil {
		for i, e := range h.waiterEvents {
			if e == b.waiting {
				h.waiterEvents = append(h.waiterEvents[:i], h.waiterEvents[i+1:]...)
				break
			}
		}
		stale = b.waiting
		b.waiting = nil
	}
	var depEvent *Event
	if live <= 0 && !settled {
		depEvent = h.depEvent
	}
	h.mu.Unlock()

	stale.detach()
	if live <= 0 && !settled {
		depEvent.detach()
		cancelNode(h.dep)
	}
}
