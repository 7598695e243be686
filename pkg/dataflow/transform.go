package dataflow

// FlatMap applies fn to each upstream value, forwarding every produced
// element with the same multiplicity as its source change (so a flat_map
// producing k items duplicates the multiplicity k times, per spec §4.4).
type FlatMap[V comparable, W comparable] struct {
	src Operator[V]
	fn  func(V) []W
}

// NewFlatMap wraps src, applying fn to each value.
func NewFlatMap[V comparable, W comparable](src Operator[V], fn func(V) []W) *FlatMap[V, W] {
	return &FlatMap[V, W]{src: src, fn: fn}
}

func (f *FlatMap[V, W]) ForEach(commit int64, yield func(w W, mult int64)) {
	f.src.ForEach(commit, func(v V, mult int64) {
		for _, w := range f.fn(v) {
			yield(w, mult)
		}
	})
}

// NewMap applies fn to each value, one-to-one.
func NewMap[V comparable, W comparable](src Operator[V], fn func(V) W) Operator[W] {
	return NewFlatMap(src, func(v V) []W { return []W{fn(v)} })
}

// NewFilter keeps only values for which pred returns true.
func NewFilter[V comparable](src Operator[V], pred func(V) bool) Operator[V] {
	return NewFlatMap(src, func(v V) []V {
		if pred(v) {
			return []V{v}
		}
		return nil
	})
}
