package twolevel

// mapInlineEntry is one (K2,V) pair held inline for a K1 bucket.
type mapInlineEntry[K2 comparable, V any] struct {
	k2 K2
	v  V
}

// mapSlabEntry is the payload stored in the shared slab once a K1 bucket
// has migrated to the external representation. next/prev implement the
// insertion-ordered doubly-linked list described in spec §4.3; they are
// indices into the same slab (nilHandle terminates).
type mapSlabEntry[K2 comparable, V any] struct {
	k2         K2
	v          V
	prev, next handle
}

// mapBucket is the per-K1 storage: either an inline slice (len <= LIM) or
// an externalised doubly-linked list [head..tail] through the shared slab,
// plus an index for O(1) lookup by K2.
type mapBucket[K2 comparable, V any] struct {
	inline     []mapInlineEntry[K2, V]
	external   bool
	head, tail handle
	index      map[K2]handle // only populated once external
}

// TwoLevelMap is a container keyed by (K1, K2) -> V. See package doc and
// spec §4.3 for the storage-migration policy.
type TwoLevelMap[K1 comparable, K2 comparable, V any] struct {
	buckets map[K1]*mapBucket[K2, V]
	slab    *slab[mapSlabEntry[K2, V]]
	limit   int
}

// NewTwoLevelMap creates an empty two-level map using the default inline
// capacity (LIM=2).
func NewTwoLevelMap[K1 comparable, K2 comparable, V any]() *TwoLevelMap[K1, K2, V] {
	return NewTwoLevelMapWithLimit[K1, K2, V](defaultInlineLimit)
}

// NewTwoLevelMapWithLimit creates an empty two-level map with a custom
// inline capacity.
func NewTwoLevelMapWithLimit[K1 comparable, K2 comparable, V any](limit int) *TwoLevelMap[K1, K2, V] {
	return &TwoLevelMap[K1, K2, V]{
		buckets: make(map[K1]*mapBucket[K2, V]),
		slab:    newSlab[mapSlabEntry[K2, V]](),
		limit:   limit,
	}
}

// Insert stores v under (k1,k2), returning the prior value if one was
// replaced.
func (m *TwoLevelMap[K1, K2, V]) Insert(k1 K1, k2 K2, v V) (prior V, had bool) {
	b, ok := m.buckets[k1]
	if !ok {
		b = &mapBucket[K2, V]{head: nilHandle, tail: nilHandle}
		m.buckets[k1] = b
	}

	if b.external {
		if h, ok := b.index[k2]; ok {
			e := m.slab.get(h)
			prior, had = e.v, true
			e.v = v
			return prior, had
		}
		m.appendExternal(b, k2, v)
		return prior, false
	}

	for i := range b.inline {
		if b.inline[i].k2 == k2 {
			prior, had = b.inline[i].v, true
			b.inline[i].v = v
			return prior, had
		}
	}

	if len(b.inline) < m.limit {
		b.inline = append(b.inline, mapInlineEntry[K2, V]{k2: k2, v: v})
		return prior, false
	}

	// Migrate to external storage, preserving insertion order, then append
	// the new entry.
	m.migrate(b)
	m.appendExternal(b, k2, v)
	return prior, false
}

func (m *TwoLevelMap[K1, K2, V]) migrate(b *mapBucket[K2, V]) {
	b.external = true
	b.index = make(map[K2]handle, len(b.inline)+1)
	for _, e := range b.inline {
		m.appendExternal(b, e.k2, e.v)
	}
	b.inline = nil
}

func (m *TwoLevelMap[K1, K2, V]) appendExternal(b *mapBucket[K2, V], k2 K2, v V) {
	h := m.slab.alloc(mapSlabEntry[K2, V]{k2: k2, v: v, prev: b.tail, next: nilHandle})
	if b.tail != nilHandle {
		m.slab.get(b.tail).next = h
	}
	b.tail = h
	if b.head == nilHandle {
		b.head = h
	}
	b.index[k2] = h
}

// Get returns the value stored at (k1,k2).
func (m *TwoLevelMap[K1, K2, V]) Get(k1 K1, k2 K2) (V, bool) {
	var zero V
	b, ok := m.buckets[k1]
	if !ok {
		return zero, false
	}
	if b.external {
		h, ok := b.index[k2]
		if !ok {
			return zero, false
		}
		return m.slab.get(h).v, true
	}
	for _, e := range b.inline {
		if e.k2 == k2 {
			return e.v, true
		}
	}
	return zero, false
}

// GetMut returns a pointer to the stored value for in-place mutation.
func (m *TwoLevelMap[K1, K2, V]) GetMut(k1 K1, k2 K2) (*V, bool) {
	b, ok := m.buckets[k1]
	if !ok {
		return nil, false
	}
	if b.external {
		h, ok := b.index[k2]
		if !ok {
			return nil, false
		}
		return &m.slab.get(h).v, true
	}
	for i := range b.inline {
		if b.inline[i].k2 == k2 {
			return &b.inline[i].v, true
		}
	}
	return nil, false
}

// Remove deletes (k1,k2) if present, returning the removed value.
func (m *TwoLevelMap[K1, K2, V]) Remove(k1 K1, k2 K2) (V, bool) {
	var zero V
	b, ok := m.buckets[k1]
	if !ok {
		return zero, false
	}

	if b.external {
		h, ok := b.index[k2]
		if !ok {
			return zero, false
		}
		e := *m.slab.get(h)
		if e.prev != nilHandle {
			m.slab.get(e.prev).next = e.next
		} else {
			b.head = e.next
		}
		if e.next != nilHandle {
			m.slab.get(e.next).prev = e.prev
		} else {
			b.tail = e.prev
		}
		delete(b.index, k2)
		m.slab.release(h)
		if len(b.index) == 0 {
			delete(m.buckets, k1)
		}
		return e.v, true
	}

	for i, e := range b.inline {
		if e.k2 == k2 {
			b.inline = append(b.inline[:i], b.inline[i+1:]...)
			if len(b.inline) == 0 {
				delete(m.buckets, k1)
			}
			return e.v, true
		}
	}
	return zero, false
}

// GetIter calls fn for every (k2,v) pair stored under k1, in insertion
// order, stopping early if fn returns false.
func (m *TwoLevelMap[K1, K2, V]) GetIter(k1 K1, fn func(k2 K2, v V) bool) {
	b, ok := m.buckets[k1]
	if !ok {
		return
	}
	if b.external {
		for h := b.head; h != nilHandle; {
			e := m.slab.get(h)
			next := e.next
			if !fn(e.k2, e.v) {
				return
			}
			h = next
		}
		return
	}
	for _, e := range b.inline {
		if !fn(e.k2, e.v) {
			return
		}
	}
}

// Len reports how many (k2,v) pairs are stored under k1.
func (m *TwoLevelMap[K1, K2, V]) Len(k1 K1) int {
	b, ok := m.buckets[k1]
	if !ok {
		return 0
	}
	if b.external {
		return len(b.index)
	}
	return len(b.inline)
}
