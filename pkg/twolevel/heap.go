package twolevel

import "cmp"

// heapSlabEntry is the payload for one (k2,v) pair once a K1 bucket has
// migrated to the external heap representation.
type heapSlabEntry[K2 cmp.Ordered, V any] struct {
	k2 K2
	v  V
}

// heapBucket is the per-K1 storage for TwoLevelHeap. The external form is
// an implicit binary max-heap: heap[0] is the slab handle of the maximum
// entry, heap[i]'s parent is heap[(i-1)/2], its children are
// heap[2i+1]/heap[2i+2]. pos maps K2 back to its current index in heap so
// arbitrary-key removal can locate its slot without a linear scan.
type heapBucket[K2 cmp.Ordered, V any] struct {
	inline   []mapInlineEntry[K2, V]
	external bool
	heap     []handle
	pos      map[K2]int
}

// TwoLevelHeap is a container keyed by (K1, K2) -> V whose external
// storage per K1 is a binary max-heap over K2, giving O(1) GetMax. See
// spec §4.3.
type TwoLevelHeap[K1 comparable, K2 cmp.Ordered, V any] struct {
	buckets map[K1]*heapBucket[K2, V]
	slab    *slab[heapSlabEntry[K2, V]]
	limit   int
}

// NewTwoLevelHeap creates an empty two-level heap using the default
// inline capacity (LIM=2).
func NewTwoLevelHeap[K1 comparable, K2 cmp.Ordered, V any]() *TwoLevelHeap[K1, K2, V] {
	return NewTwoLevelHeapWithLimit[K1, K2, V](defaultInlineLimit)
}

// NewTwoLevelHeapWithLimit creates an empty two-level heap with a custom
// inline capacity.
func NewTwoLevelHeapWithLimit[K1 comparable, K2 cmp.Ordered, V any](limit int) *TwoLevelHeap[K1, K2, V] {
	return &TwoLevelHeap[K1, K2, V]{
		buckets: make(map[K1]*heapBucket[K2, V]),
		slab:    newSlab[heapSlabEntry[K2, V]](),
		limit:   limit,
	}
}

func (h *TwoLevelHeap[K1, K2, V]) less(a, b handle) bool {
	return h.slab.get(a).k2 < h.slab.get(b).k2
}

func (h *TwoLevelHeap[K1, K2, V]) swap(b *heapBucket[K2, V], i, j int) {
	b.heap[i], b.heap[j] = b.heap[j], b.heap[i]
	b.pos[h.slab.get(b.heap[i]).k2] = i
	b.pos[h.slab.get(b.heap[j]).k2] = j
}

func (h *TwoLevelHeap[K1, K2, V]) siftUp(b *heapBucket[K2, V], i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(b.heap[parent], b.heap[i]) {
			break
		}
		h.swap(b, parent, i)
		i = parent
	}
}

func (h *TwoLevelHeap[K1, K2, V]) siftDown(b *heapBucket[K2, V], i int) {
	n := len(b.heap)
	for {
		left, right := 2*i+1, 2*i+2
		largest := i
		if left < n && h.less(b.heap[largest], b.heap[left]) {
			largest = left
		}
		if right < n && h.less(b.heap[largest], b.heap[right]) {
			largest = right
		}
		if largest == i {
			return
		}
		h.swap(b, i, largest)
		i = largest
	}
}

// Insert stores v under (k1,k2), returning the prior value if one was
// replaced.
func (h *TwoLevelHeap[K1, K2, V]) Insert(k1 K1, k2 K2, v V) (prior V, had bool) {
	b, ok := h.buckets[k1]
	if !ok {
		b = &heapBucket[K2, V]{}
		h.buckets[k1] = b
	}

	if b.external {
		if i, ok := b.pos[k2]; ok {
			e := h.slab.get(b.heap[i])
			prior, had = e.v, true
			e.v = v
			return prior, had
		}
		h.pushExternal(b, k2, v)
		return prior, false
	}

	for i := range b.inline {
		if b.inline[i].k2 == k2 {
			prior, had = b.inline[i].v, true
			b.inline[i].v = v
			return prior, had
		}
	}

	if len(b.inline) < h.limit {
		b.inline = append(b.inline, mapInlineEntry[K2, V]{k2: k2, v: v})
		return prior, false
	}

	h.migrate(b)
	h.pushExternal(b, k2, v)
	return prior, false
}

func (h *TwoLevelHeap[K1, K2, V]) migrate(b *heapBucket[K2, V]) {
	b.external = true
	b.pos = make(map[K2]int, len(b.inline)+1)
	for _, e := range b.inline {
		h.pushExternal(b, e.k2, e.v)
	}
	b.inline = nil
}

func (h *TwoLevelHeap[K1, K2, V]) pushExternal(b *heapBucket[K2, V], k2 K2, v V) {
	handle := h.slab.alloc(heapSlabEntry[K2, V]{k2: k2, v: v})
	b.heap = append(b.heap, handle)
	i := len(b.heap) - 1
	b.pos[k2] = i
	h.siftUp(b, i)
}

// Get returns the value stored at (k1,k2).
func (h *TwoLevelHeap[K1, K2, V]) Get(k1 K1, k2 K2) (V, bool) {
	var zero V
	b, ok := h.buckets[k1]
	if !ok {
		return zero, false
	}
	if b.external {
		i, ok := b.pos[k2]
		if !ok {
			return zero, false
		}
		return h.slab.get(b.heap[i]).v, true
	}
	for _, e := range b.inline {
		if e.k2 == k2 {
			return e.v, true
		}
	}
	return zero, false
}

// GetMut returns a pointer to the stored value for in-place mutation. The
// caller must not mutate k2's ordering relative to other entries through
// this pointer's V (only K2 determines heap order, and K2 itself is not
// mutable through this call).
func (h *TwoLevelHeap[K1, K2, V]) GetMut(k1 K1, k2 K2) (*V, bool) {
	b, ok := h.buckets[k1]
	if !ok {
		return nil, false
	}
	if b.external {
		i, ok := b.pos[k2]
		if !ok {
			return nil, false
		}
		return &h.slab.get(b.heap[i]).v, true
	}
	for i := range b.inline {
		if b.inline[i].k2 == k2 {
			return &b.inline[i].v, true
		}
	}
	return nil, false
}

// GetMax returns the (k2,v) pair with the largest K2 currently stored
// under k1, in O(1).
func (h *TwoLevelHeap[K1, K2, V]) GetMax(k1 K1) (k2 K2, v V, ok bool) {
	b, found := h.buckets[k1]
	if !found {
		return k2, v, false
	}
	if b.external {
		e := h.slab.get(b.heap[0])
		return e.k2, e.v, true
	}
	best := -1
	for i, e := range b.inline {
		if best == -1 || e.k2 > b.inline[best].k2 {
			best = i
		}
	}
	if best == -1 {
		return k2, v, false
	}
	return b.inline[best].k2, b.inline[best].v, true
}

// Remove deletes (k1,k2) if present, returning the removed value.
func (h *TwoLevelHeap[K1, K2, V]) Remove(k1 K1, k2 K2) (V, bool) {
	var zero V
	b, ok := h.buckets[k1]
	if !ok {
		return zero, false
	}

	if b.external {
		i, ok := b.pos[k2]
		if !ok {
			return zero, false
		}
		removedHandle := b.heap[i]
		v := h.slab.get(removedHandle).v

		last := len(b.heap) - 1
		if i != last {
			h.swap(b, i, last)
		}
		b.heap = b.heap[:last]
		delete(b.pos, k2)
		h.slab.release(removedHandle)

		if i < len(b.heap) {
			h.siftUp(b, i)
			h.siftDown(b, i)
		}

		if len(b.heap) == 0 {
			delete(h.buckets, k1)
		}
		return v, true
	}

	for i, e := range b.inline {
		if e.k2 == k2 {
			b.inline = append(b.inline[:i], b.inline[i+1:]...)
			if len(b.inline) == 0 {
				delete(h.buckets, k1)
			}
			return e.v, true
		}
	}
	return zero, false
}

// Len reports how many (k2,v) pairs are stored under k1.
func (h *TwoLevelHeap[K1, K2, V]) Len(k1 K1) int {
	b, ok := h.buckets[k1]
	if !ok {
		return 0
	}
	if b.external {
		return len(b.heap)
	}
	return len(b.inline)
}
