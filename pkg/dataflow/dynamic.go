package dataflow

// Dynamic is a forward-declared operator slot, used to close feedback
// cycles in the loopy layer (spec §4.5): a graph built bottom-up cannot
// wire an edge to a node that does not exist yet, so a Dynamic is
// constructed first, wired to downstream consumers, and Bound to its
// real source once the cycle's other side has been built.
type Dynamic[V comparable] struct {
	inner Operator[V]
}

// NewDynamic creates an unbound placeholder. ForEach panics if called
// before Bind.
func NewDynamic[V comparable]() *Dynamic[V] {
	return &Dynamic[V]{}
}

// Bind attaches the real operator this placeholder stands for. Bind must
// be called exactly once, before the graph is first pulled.
func (d *Dynamic[V]) Bind(inner Operator[V]) {
	if d.inner != nil {
		panic("dataflow: Dynamic already bound")
	}
	d.inner = inner
}

func (d *Dynamic[V]) ForEach(commit int64, yield func(v V, mult int64)) {
	if d.inner == nil {
		panic("dataflow: Dynamic pulled before Bind")
	}
	d.inner.ForEach(commit, yield)
}
