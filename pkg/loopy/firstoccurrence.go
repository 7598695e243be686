package loopy

import (
	"cmp"

	"github.com/gokanren/ratsat/pkg/dataflow"
	"github.com/gokanren/ratsat/pkg/twolevel"
)

// FirstOccurrenceInput sends only the first value seen for a given key;
// later sends for the same key are held as candidates rather than
// forwarded (spec §4.5). Used for assigned-literal-cause, so a literal's
// propagation reason is fixed to whichever cause arrived first. Other
// candidate causes are kept in an external two-level heap so that, once
// the frame holding the current cause is popped, the next-best candidate
// can be promoted to take its place without the caller re-sending it.
type FirstOccurrenceInput[K comparable, V cmp.Ordered] struct {
	in         *dataflow.Input[dataflow.Pair[K, V]]
	frames     frameTracker[K]
	current    map[K]V
	present    map[K]bool
	candidates *twolevel.TwoLevelHeap[K, V, struct{}]
}

// NewFirstOccurrenceInput creates an empty first-occurrence input bound
// to ctx.
func NewFirstOccurrenceInput[K comparable, V cmp.Ordered](ctx *dataflow.Context) *FirstOccurrenceInput[K, V] {
	return &FirstOccurrenceInput[K, V]{
		in:         dataflow.NewInput[dataflow.Pair[K, V]](ctx),
		current:    make(map[K]V),
		present:    make(map[K]bool),
		candidates: twolevel.NewTwoLevelHeap[K, V, struct{}](),
	}
}

// Send offers v as the value for k. If k has no accepted value yet, v is
// sent immediately and becomes k's current value; otherwise v is filed
// as a candidate for later promotion.
func (f *FirstOccurrenceInput[K, V]) Send(k K, v V) {
	if f.present[k] {
		f.candidates.Insert(k, v, struct{}{})
		return
	}
	f.accept(k, v)
}

func (f *FirstOccurrenceInput[K, V]) accept(k K, v V) {
	f.present[k] = true
	f.current[k] = v
	f.in.Send(dataflow.Pair[K, V]{First: k, Second: v}, 1)
	f.frames.record(k)
}

// PushFrame opens a new frame.
func (f *FirstOccurrenceInput[K, V]) PushFrame() {
	f.frames.pushFrame()
}

// PopFrame retracts every key's first-occurrence accepted in the top
// frame. If a retracted key still has a filed candidate, the candidate
// with the greatest V is promoted in its place within the same commit's
// worth of changes (a -1 for the old value, a +1 for the promoted one);
// otherwise the key becomes absent again.
func (f *FirstOccurrenceInput[K, V]) PopFrame() {
	for _, k := range f.frames.popFrame() {
		old := f.current[k]
		delete(f.current, k)
		delete(f.present, k)
		f.in.Send(dataflow.Pair[K, V]{First: k, Second: old}, -1)

		if v, _, ok := f.candidates.GetMax(k); ok {
			f.candidates.Remove(k, v)
			f.accept(k, v)
		}
	}
}

// Depth reports how many frames are currently open.
func (f *FirstOccurrenceInput[K, V]) Depth() int {
	return f.frames.depth()
}

// ForEach satisfies dataflow.Operator[dataflow.Pair[K,V]].
func (f *FirstOccurrenceInput[K, V]) ForEach(commit int64, yield func(p dataflow.Pair[K, V], mult int64)) {
	f.in.ForEach(commit, yield)
}
