package async

// Promise is a typed handle onto the untyped promiseNode graph,
// the user-facing façade every combinator in this package ultimately
// returns. The generic wrapper and its Then/Catch/Attach naming take
// their cue from how a generic promise handle reads in the rest of the
// ecosystem; the node graph underneath is this package's own.
type Promise[T any] struct {
	node promiseNode
}

// asPromiseNode lets chainNode recognize a Promise[T] boxed inside a
// Result.Value without knowing T, via the promiseNoder interface.
func (p Promise[T]) asPromiseNode() promiseNode { return p.node }

// asVoid erases the element type, for call sites (Daemonize, TaskSet)
// that only care whether the promise eventually rejects.
func (p Promise[T]) asVoid() promiseNode { return p.node }

// Resolved returns a Promise that is already fulfilled with v.
func Resolved[T any](v T) Promise[T] {
	return Promise[T]{node: &immediateValueNode{result: Result{Value: v}}}
}

// Rejected returns a Promise that is already settled with err.
func Rejected[T any](err error) Promise[T] {
	return Promise[T]{node: &immediateBrokenNode{err: err}}
}

// Cancel releases p's dependency graph, cascading to every node it
// depends on. It is the explicit substitute for dropping a promise in
// the original implementation's ownership model. p must not be waited on
// afterward; Cancel does not mark p, so such a later [Wait] is not
// detected.
func (p Promise[T]) Cancel() {
	cancelNode(p.node)
}

// Then maps a fulfilled Promise[T] through onValue into a Promise[U],
// propagating a rejection unchanged. Corresponds to building a
// TransformPromiseNodeBase over p's node.
func Then[T, U any](p Promise[T], onValue func(T) (U, error)) Promise[U] {
	fn := func(r Result) Result {
		if r.Err != nil {
			return Result{Err: r.Err}
		}
		v, _ := r.Value.(T)
		nv, err := onValue(v)
		return valueOrErr(nv, err)
	}
	return Promise[U]{node: &transformNode{dep: p.node, fn: fn}}
}

// Catch recovers a rejected Promise[T] through onError, leaving a
// fulfilled promise untouched.
func Catch[T any](p Promise[T], onError func(error) (T, error)) Promise[T] {
	fn := func(r Result) Result {
		if r.Err == nil {
			return r
		}
		v, err := onError(r.Err)
		return valueOrErr(v, err)
	}
	return Promise[T]{node: &transformNode{dep: p.node, fn: fn}}
}

// Attach keeps payload alive for as long as p's dependency graph is,
// releasing it once p's result is collected or p is cancelled. Corresponds to building
// an AttachmentPromiseNodeBase over p's node.
func Attach[T any](p Promise[T], payload any) Promise[T] {
	return Promise[T]{node: &attachmentNode{dep: p.node, payload: payload}}
}

// Fork splits p into n independent branches that all observe the same
// underlying computation exactly once, sharing its Result without
// copying it. Corresponds to building a ForkHubBase over p's node.
func Fork[T any](loop *Loop, p Promise[T], n int) []Promise[T] {
	nodes := newForkBranches(loop, p.node, n)
	out := make([]Promise[T], n)
	for i, node := range nodes {
		out[i] = Promise[T]{node: node}
	}
	return out
}

// Join flattens a promise of a promise into a single promise that
// settles once the inner promise does. Corresponds to building a
// ChainPromiseNode over p's node.
func Join[T any](loop *Loop, p Promise[Promise[T]]) Promise[T] {
	return Promise[T]{node: newChainNode(loop, p.node)}
}

// ExclusiveJoin races a and b against each other; whichever settles
// first wins and the other is cancelled. Corresponds to building an
// ExclusiveJoinPromiseNode over both nodes.
func ExclusiveJoin[T any](loop *Loop, a, b Promise[T]) Promise[T] {
	return Promise[T]{node: newExclusiveJoin(loop, a.node, b.node)}
}

// Eager forces p's dependency graph to begin resolving immediately,
// rather than only once a consumer calls onReady. Corresponds to
// building an EagerPromiseNodeBase over p's node.
func Eager[T any](loop *Loop, p Promise[T]) Promise[T] {
	return Promise[T]{node: newEagerNode(loop, p.node)}
}
