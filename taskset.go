package async

import "sync"

// ErrorHandler is notified whenever a task added to a [TaskSet] rejects.
// Corresponds to the original implementation's TaskSet::ErrorHandler.
type ErrorHandler interface {
	TaskFailed(err error)
}

// LoggingErrorHandler is the default [ErrorHandler]: it logs the
// rejection and otherwise ignores it. Corresponds to the original
// implementation's LoggingErrorHandler.
type LoggingErrorHandler struct {
	Logger Logger
}

func (h *LoggingErrorHandler) TaskFailed(err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.Log(LogEntry{
		Level:   LevelError,
		Message: "uncaught exception in daemonized task",
		Err:     err,
	})
}

// task is one promise being driven to completion on behalf of a
// TaskSet, with no one waiting on its result directly. Corresponds to
// the original implementation's TaskSetImpl::Task.
type task struct {
	node  promiseNode
	event *Event
}

// TaskSet drives a collection of fire-and-forget promises to completion,
// routing any rejection to an ErrorHandler instead of leaving it
// unobserved. Corresponds to the original implementation's TaskSetImpl.
type TaskSet struct {
	loop    *Loop
	handler ErrorHandler

	mu     sync.Mutex
	tasks  map[*task]struct{}
	closed bool
}

// NewTaskSet creates a TaskSet bound to loop, routing task rejections to
// handler.
func NewTaskSet(loop *Loop, handler ErrorHandler) *TaskSet {
	return &TaskSet{loop: loop, handler: handler, tasks: map[*task]struct{}{}}
}

// Add begins driving node to completion. It panics with an
// [InvariantViolation] if the set has already been closed.
func (ts *TaskSet) Add(node promiseNode) {
	ts.mu.Lock()
	if ts.closed {
		ts.mu.Unlock()
		panic(newInvariantViolation(codeTaskSetShuttingDown, "Add called on a closed TaskSet"))
	}
	t := &task{node: node}
	ts.tasks[t] = struct{}{}
	ts.mu.Unlock()

	t.event = newEvent(ts.loop, func() { ts.finish(t) })
	t.event.traceOf = node
	if node.onReady(t.event) {
		ts.finish(t)
	}
}

func (ts *TaskSet) finish(t *task) {
	ts.mu.Lock()
	delete(ts.tasks, t)
	ts.mu.Unlock()

	res := t.node.get()
	if res.Err != nil && ts.handler != nil {
		ts.handler.TaskFailed(res.Err)
	}
}

// Close cancels every task still outstanding. Tasks are detached from
// the live set before any of them are cancelled, the Go analogue of
// the original implementation's care to collect every Own<Task> into a
// vector before destroying them, so that cancelling one task's
// dependency graph can never re-enter the set it was just removed from.
func (ts *TaskSet) Close() {
	ts.mu.Lock()
	ts.closed = true
	pending := make([]*task, 0, len(ts.tasks))
	for t := range ts.tasks {
		pending = append(pending, t)
	}
	ts.tasks = map[*task]struct{}{}
	ts.mu.Unlock()

	for _, t := range pending {
		cancelNode(t.node)
	}
}
