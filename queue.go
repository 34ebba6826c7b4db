package async

// Event is an item schedulable on a Loop's work queue. It corresponds to
// spec component C1.
//
// An Event's prev field is a pointer to the slot that points at this
// event (either the Loop's head field, or another event's next field);
// this pointer-to-a-pointer technique, carried over from the original
// implementation, lets removal splice the list without a special case for
// "is this the head." prev == nil iff the event is not currently queued.
type Event struct {
	loop    *Loop
	next    *Event
	prev    **Event
	firing  bool
	onFire  func()      // fire callback, invoked with firing == true
	traceOf promiseNode // optional, used only by Event.trace()
}

// newEvent creates an Event bound to loop's home goroutine. fire is called
// when the event reaches the head of the queue and is popped.
func newEvent(loop *Loop, fire func()) *Event {
	return &Event{loop: loop, onFire: fire}
}

// armDepthFirst splices event in immediately after the loop's current
// depth-first insertion point, then advances that insertion point to sit
// just after the newly-armed event. This makes a chain of continuations
// armed from inside fire() run contiguously, before any sibling work that
// was already queued behind the firing event.
func (e *Event) armDepthFirst() {
	mustBeOnLoopThread(e.loop)
	if e.prev != nil {
		return // already armed
	}
	l := e.loop
	e.next = *l.depthFirstInsertPoint
	e.prev = l.depthFirstInsertPoint
	*e.prev = e
	if e.next != nil {
		e.next.prev = &e.next
	}
	l.depthFirstInsertPoint = &e.next
	if l.tail == e.prev {
		l.tail = &e.next
	}
}

// armBreadthFirst appends event at the tail of the loop's queue, so that
// any work already armed runs before it. Used by Loop.Yield and anything
// else that must let the rest of the queue run first.
func (e *Event) armBreadthFirst() {
	mustBeOnLoopThread(e.loop)
	if e.prev != nil {
		return // already armed
	}
	l := e.loop
	e.next = *l.tail
	e.prev = l.tail
	*e.prev = e
	if e.next != nil {
		e.next.prev = &e.next
	}
	l.tail = &e.next
}

// detach unlinks event from its loop's queue, fixing head/tail/
// depthFirstInsertPoint if any of them point through this node. It is the
// Go analogue of the original's ~Event() body; cancel paths call it
// instead of relying on a destructor (the loop's own pop-and-fire step
// unlinks the head event inline). On a queued event, detach panics with
// an InvariantViolation if called from a goroutine other than the Loop's
// home goroutine, or if event is currently firing — a callback must never
// remove itself from the queue while it is the one executing.
func (e *Event) detach() {
	if e == nil || e.prev == nil {
		return // no event, or not queued
	}
	mustBeOnLoopThread(e.loop)
	if e.firing {
		panic(newInvariantViolation(codeEventFiringSelfDestroy,
			"event detached while its own fire() callback is still running"))
	}
	l := e.loop
	if l.head == e {
		l.head = e.next
	}
	if l.tail == &e.next {
		l.tail = e.prev
	}
	if l.depthFirstInsertPoint == &e.next {
		l.depthFirstInsertPoint = e.prev
	}
	*e.prev = e.next
	if e.next != nil {
		e.next.prev = e.prev
	}
	e.prev = nil
	e.next = nil
}

// trace returns a diagnostic string describing this event and the chain
// of promise nodes it is tracking, via [traceString].
func (e *Event) trace() string {
	return traceString(e, e.traceOf)
}
