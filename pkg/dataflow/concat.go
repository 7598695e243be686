package dataflow

// Concat forwards both sources downstream unchanged, a then b.
type Concat[V comparable] struct {
	a, b Operator[V]
}

// NewConcat combines a and b into a single stream.
func NewConcat[V comparable](a, b Operator[V]) *Concat[V] {
	return &Concat[V]{a: a, b: b}
}

func (c *Concat[V]) ForEach(commit int64, yield func(v V, mult int64)) {
	c.a.ForEach(commit, yield)
	c.b.ForEach(commit, yield)
}
