// Package async provides a single-threaded, cooperative, lazily-evaluated
// asynchronous execution runtime built around composable promise nodes.
//
// # Architecture
//
// A [Loop] drives a work queue of armed [Event] values to completion.
// Every asynchronous value is a node in a promise graph: a node may depend
// on other nodes and arms a downstream event when it becomes ready. The
// package ships a small algebra of combinator nodes (immediate value,
// attachment, transform, fork, chain, exclusive join, eager evaluation,
// and adapter) built on top of the same onReady/get protocol, exposed to
// callers through the generic [Promise] façade.
//
// # Scheduling
//
// Arming an event can be depth-first (spliced in immediately behind the
// event currently firing, so a chain of continuations runs to completion
// before sibling work) or breadth-first (appended at the tail, as used by
// [Loop.Yield]). This ordering is part of the observable behaviour of the
// system, not an implementation detail.
//
// # Thread model
//
// A [Loop] is bound to exactly one goroutine for its lifetime. Arming an
// event, destroying an event, or calling [Wait] from any other
// goroutine is a programming error and panics with an [InvariantViolation].
// The only supported cross-goroutine interactions are waking a sleeping
// loop, via the [Sleeper] abstraction, and settling a [Fulfiller], which
// hands its queue work to the loop's home goroutine.
package async
