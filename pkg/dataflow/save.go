package dataflow

import "github.com/gokanren/ratsat/pkg/queue"

// Save is the one operator with more than one logical consumer (spec
// §4.4, §5). It registers itself with a Context as an Advancer: each
// commit, Context.Commit drains src exactly once and broadcasts the
// resulting changes to every subscriber's FanOut queue, so readers that
// call Get at different times within a commit still see an identical,
// commit-stable view.
type Save[V comparable] struct {
	src  Operator[V]
	fan  *queue.FanOut[Change[V]]
	last int64
}

// NewSave wraps src and registers it with ctx so it advances on every
// Context.Commit.
func NewSave[V comparable](ctx *Context, src Operator[V]) *Save[V] {
	s := &Save[V]{src: src, fan: queue.NewFanOut[Change[V]]()}
	ctx.Register(s)
	return s
}

// Advance drains src for commit and broadcasts the result. It is safe to
// call more than once for the same commit (only the first has effect),
// since Context.Commit drives every Advancer exactly once per increment.
func (s *Save[V]) Advance(commit int64) {
	if commit <= s.last {
		return
	}
	s.last = commit
	s.src.ForEach(commit, func(v V, mult int64) {
		s.fan.Send(Change[V]{Value: v, Commit: commit, Mult: mult}, cloneChange[V])
	})
}

func cloneChange[V comparable](c Change[V]) Change[V] {
	return c
}

// Get returns a fresh, independent, consolidated reader over this Save
// node's output stream. Each call subscribes a new FanOut reader, so
// multiple readers started at different commits each see the full
// history from their own subscription point forward.
func (s *Save[V]) Get() Operator[V] {
	return NewConsolidate[V](&saveReader[V]{sub: s.fan.Subscribe()})
}

// saveReader adapts a queue.FanOut subscriber into an Operator[V],
// emitting every change with commit id <= the requested commit and
// keeping later ones buffered, the way Input does.
type saveReader[V comparable] struct {
	sub     *queue.Swap[Change[V]]
	pending []Change[V]
}

func (r *saveReader[V]) ForEach(commit int64, yield func(v V, mult int64)) {
	r.pending = append(r.pending, r.sub.Drain()...)
	remaining := r.pending[:0]
	for _, c := range r.pending {
		if c.Commit <= commit {
			yield(c.Value, c.Mult)
		} else {
			remaining = append(remaining, c)
		}
	}
	r.pending = remaining
}
