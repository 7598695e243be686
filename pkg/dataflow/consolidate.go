package dataflow

// Consolidate accumulates raw upstream changes into an internal map and,
// when pulled, drains the map emitting each net non-zero value exactly
// once, then clears it. This guarantees at most one change per distinct
// value per pull (spec §4.4).
type Consolidate[V comparable] struct {
	src     Operator[V]
	pending map[V]int64
}

// NewConsolidate wraps src.
func NewConsolidate[V comparable](src Operator[V]) *Consolidate[V] {
	return &Consolidate[V]{src: src, pending: make(map[V]int64)}
}

func (c *Consolidate[V]) ForEach(commit int64, yield func(v V, mult int64)) {
	c.src.ForEach(commit, func(v V, mult int64) {
		c.pending[v] += mult
	})
	if len(c.pending) == 0 {
		return
	}
	for v, mult := range c.pending {
		if mult != 0 {
			yield(v, mult)
		}
	}
	clear(c.pending)
}
