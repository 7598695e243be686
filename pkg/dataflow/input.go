package dataflow

// Input is the only operator with an actual buffer of not-yet-delivered
// changes (spec §4.4). Sends are tagged with the commit id they'll become
// visible at (the context's next commit); ForEach emits every buffered
// item with id <= commit and re-buffers the rest.
type Input[V comparable] struct {
	ctx   *Context
	queue []Change[V]
}

// NewInput creates an input bound to ctx; Sends are timestamped against
// ctx.NextCommit().
func NewInput[V comparable](ctx *Context) *Input[V] {
	return &Input[V]{ctx: ctx}
}

// Send buffers a change, visible once the context commits past the
// current commit id.
func (in *Input[V]) Send(v V, mult int64) {
	in.queue = append(in.queue, Change[V]{Value: v, Commit: in.ctx.NextCommit(), Mult: mult})
}

// ForEach drains every buffered change with commit id <= commit.
func (in *Input[V]) ForEach(commit int64, yield func(v V, mult int64)) {
	if len(in.queue) == 0 {
		return
	}
	remaining := in.queue[:0]
	for _, ch := range in.queue {
		if ch.Commit <= commit {
			yield(ch.Value, ch.Mult)
		} else {
			remaining = append(remaining, ch)
		}
	}
	in.queue = remaining
}

// Len reports how many changes are currently buffered (delivered or not).
func (in *Input[V]) Len() int {
	return len(in.queue)
}
