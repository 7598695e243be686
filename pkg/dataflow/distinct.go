package dataflow

// Distinct maintains a per-value count and emits +1 on the first
// transition from zero-or-below to positive, and -1 on the transition
// back (spec §4.4).
type Distinct[V comparable] struct {
	src    Operator[V]
	counts map[V]int64
}

// NewDistinct wraps src.
func NewDistinct[V comparable](src Operator[V]) *Distinct[V] {
	return &Distinct[V]{src: src, counts: make(map[V]int64)}
}

func (d *Distinct[V]) ForEach(commit int64, yield func(v V, mult int64)) {
	d.src.ForEach(commit, func(v V, mult int64) {
		old := d.counts[v]
		next := old + mult
		if next == 0 {
			delete(d.counts, v)
		} else {
			d.counts[v] = next
		}
		switch {
		case old <= 0 && next > 0:
			yield(v, 1)
		case old > 0 && next <= 0:
			yield(v, -1)
		}
	})
}
