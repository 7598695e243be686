package dataflow

// CountPair is the output tuple of Counts: a value paired with one of its
// historical counts.
type CountPair[V comparable] struct {
	Value V
	Count int64
}

// Counts tracks a running per-value multiplicity and, on every change,
// retracts the previous (value, count) pair and asserts the new one
// (spec §4.4). A transition to count zero emits only the retraction.
type Counts[V comparable] struct {
	src    Operator[V]
	counts map[V]int64
}

// NewCounts wraps src.
func NewCounts[V comparable](src Operator[V]) *Counts[V] {
	return &Counts[V]{src: src, counts: make(map[V]int64)}
}

func (c *Counts[V]) ForEach(commit int64, yield func(p CountPair[V], mult int64)) {
	c.src.ForEach(commit, func(v V, mult int64) {
		prev := c.counts[v]
		next := prev + mult
		if next == 0 {
			delete(c.counts, v)
		} else {
			c.counts[v] = next
		}
		if prev != 0 {
			yield(CountPair[V]{Value: v, Count: prev}, -1)
		}
		if next != 0 {
			yield(CountPair[V]{Value: v, Count: next}, 1)
		}
	})
}
