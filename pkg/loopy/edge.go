package loopy

import "github.com/gokanren/ratsat/pkg/dataflow"

// PollResult is the tri-state outcome of polling one edge during a
// fixpoint (spec §4.5): Unchanged (the default zero value), Changed, or
// Interrupted with an id.
type PollResult struct {
	Changed     bool
	Interrupted bool
	InterruptID int
}

// Edge is polled once per fixpoint iteration, in registration order.
type Edge interface {
	Poll(commit int64) PollResult
}

// Sender is the write side of a bound input. dataflow.Input satisfies it
// directly; a FramelessInput is adapted by FramelessSender. A
// FirstOccurrenceInput's Send takes a key and a value, so it does not
// satisfy Sender and no adapter is provided for it.
type Sender[V any] interface {
	Send(v V, mult int64)
}

// inputSender adapts a *dataflow.Input[V] to Sender[V] (its Send already
// has this exact signature; this alias exists for callers that want the
// Edge constructors to accept the interface instead of a concrete type).
type inputSender[V comparable] struct{ in *dataflow.Input[V] }

func (s inputSender[V]) Send(v V, mult int64) { s.in.Send(v, mult) }

// InputSender wraps a *dataflow.Input[V] as a Sender[V].
func InputSender[V comparable](in *dataflow.Input[V]) Sender[V] {
	return inputSender[V]{in: in}
}

// framelessSender adapts a FramelessInput (whose Send always inserts
// with multiplicity 1 and ignores repeats) to Sender[V] so it can be the
// target of a FeedbackEdge.
type framelessSender[V comparable] struct{ in *FramelessInput[V] }

// FramelessSender wraps a *FramelessInput[V] as a Sender[V]. Zero and
// negative multiplicities are rejected: feedback edges only ever forward
// net-positive rows, and a frameless input never accepts retractions
// except via PopFrame.
func FramelessSender[V comparable](in *FramelessInput[V]) Sender[V] {
	return framelessSender[V]{in: in}
}

func (s framelessSender[V]) Send(v V, mult int64) {
	if mult <= 0 {
		panic("loopy: FramelessInput cannot accept a non-positive feedback send")
	}
	s.in.Send(v)
}

// FeedbackEdge polls a source relation and forwards every net-positive
// row into a bound input, deduplicated against rows this edge has ever
// forwarded before (spec §4.5: "any net-positive rows are inserted into
// the bound input, deduplicated against rows that input has previously
// accepted in the current session").
type FeedbackEdge[V comparable] struct {
	src      dataflow.Operator[V]
	dst      Sender[V]
	accepted map[V]bool
}

// NewFeedbackEdge binds src's output to dst.
func NewFeedbackEdge[V comparable](src dataflow.Operator[V], dst Sender[V]) *FeedbackEdge[V] {
	return &FeedbackEdge[V]{src: src, dst: dst, accepted: make(map[V]bool)}
}

func (e *FeedbackEdge[V]) Poll(commit int64) PollResult {
	changed := false
	e.src.ForEach(commit, func(v V, mult int64) {
		if mult <= 0 || e.accepted[v] {
			return
		}
		e.accepted[v] = true
		e.dst.Send(v, 1)
		changed = true
	})
	return PollResult{Changed: changed}
}

// InterruptEdge aborts the fixpoint with a fixed id as soon as its
// watched relation becomes non-empty (spec §4.5). It maintains the
// relation's current presence by accumulating net multiplicities across
// polls, so it correctly reports non-emptiness even once the rows that
// caused it stop appearing in a given pull's delta.
type InterruptEdge[V comparable] struct {
	src     dataflow.Operator[V]
	id      int
	present map[V]int64
}

// NewInterruptEdge watches src, reporting id once it is non-empty.
func NewInterruptEdge[V comparable](src dataflow.Operator[V], id int) *InterruptEdge[V] {
	return &InterruptEdge[V]{src: src, id: id, present: make(map[V]int64)}
}

func (e *InterruptEdge[V]) Poll(commit int64) PollResult {
	e.src.ForEach(commit, func(v V, mult int64) {
		n := e.present[v] + mult
		if n == 0 {
			delete(e.present, v)
		} else {
			e.present[v] = n
		}
	})
	if len(e.present) > 0 {
		return PollResult{Interrupted: true, InterruptID: e.id}
	}
	return PollResult{}
}
