package ports

// Executor is the callback+queue abstraction every asynchronous
// operation completes through. Modeling it as a single-method
// interface (rather than handing callers a raw goroutine or channel)
// keeps the caller's dispatch discipline — serial, pooled, whatever —
// entirely the caller's choice; the core only ever calls Post.
type Executor interface {
	Post(fn func())
}

// InlineExecutor runs fn synchronously on the calling goroutine. It
// exists for test convenience and for synchronous wrapper call sites;
// production code should prefer an executor backed by a real queue so
// completions don't reenter the caller's own lock.
type InlineExecutor struct{}

// Post implements Executor by calling fn immediately.
func (InlineExecutor) Post(fn func()) { fn() }

// GoExecutor posts fn onto a new goroutine per call. Useful where a
// caller wants fire-and-forget dispatch without a persistent worker.
type GoExecutor struct{}

// Post implements Executor by spawning a goroutine.
func (GoExecutor) Post(fn func()) { go fn() }
