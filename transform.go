package async

// transformNode applies fn to dep's Result once it is available,
// forwarding readiness unchanged. It is the workhorse behind the
// generic Then/Catch helpers in promise.go, corresponding to the
// original implementation's TransformPromiseNodeBase; fn there is a
// functor applied to the dependency's result (or exception), here a
// plain func(Result) Result so both "map the value" and "recover from
// the error" read the same way.
type transformNode struct {
	dep promiseNode
	fn  func(Result) Result
}

func (n *transformNode) onReady(event *Event) bool {
	return n.dep.onReady(event)
}

func (n *transformNode) get() Result {
	res := n.dep.get()
	return runTransform(n.fn, res)
}

// runTransform guards fn with runCatching: a panic inside a user-supplied
// callback becomes a rejection of this node rather than unwinding into
// the event loop, matching spec §6's exception-capture facility.
func runTransform(fn func(Result) Result, res Result) Result {
	var out Result
	if err := runCatching(func() { out = fn(res) }); err != nil {
		return Result{Err: err}
	}
	return out
}

func (n *transformNode) innerForTrace() promiseNode { return n.dep }

func (n *transformNode) cancel() { cancelNode(n.dep) }
