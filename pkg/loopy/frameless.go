package loopy

import "github.com/gokanren/ratsat/pkg/dataflow"

// FramelessInput gives set semantics over a single type: a value sends a
// +1 change the first time it is seen in the session and is never
// retracted except by popping the frame it first appeared in (spec
// §4.5). Used for monotonically-growing facts such as learned rules and
// discovered equivalences.
type FramelessInput[V comparable] struct {
	in     *dataflow.Input[V]
	frames frameTracker[V]
	seen   map[V]bool
}

// NewFramelessInput creates an empty frameless input bound to ctx.
func NewFramelessInput[V comparable](ctx *dataflow.Context) *FramelessInput[V] {
	return &FramelessInput[V]{in: dataflow.NewInput[V](ctx), seen: make(map[V]bool)}
}

// Send inserts v if this is the first time it has been seen this
// session; later sends of an already-seen value are ignored.
func (f *FramelessInput[V]) Send(v V) {
	if f.seen[v] {
		return
	}
	f.seen[v] = true
	f.in.Send(v, 1)
	f.frames.record(v)
}

// PushFrame opens a new frame.
func (f *FramelessInput[V]) PushFrame() {
	f.frames.pushFrame()
}

// PopFrame retracts every value first accepted in the top frame,
// emitting a -1 change for each, and forgets them so they can be sent
// again. Changes are only visible downstream after the next commit.
func (f *FramelessInput[V]) PopFrame() {
	for _, v := range f.frames.popFrame() {
		delete(f.seen, v)
		f.in.Send(v, -1)
	}
}

// Depth reports how many frames are currently open.
func (f *FramelessInput[V]) Depth() int {
	return f.frames.depth()
}

// ForEach satisfies dataflow.Operator[V].
func (f *FramelessInput[V]) ForEach(commit int64, yield func(v V, mult int64)) {
	f.in.ForEach(commit, yield)
}
