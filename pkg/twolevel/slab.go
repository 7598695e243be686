// Package twolevel implements containers keyed by a pair (K1, K2). Small
// ranges stored under a given K1 live inline; once a K1's range exceeds an
// inline capacity it migrates to an externalised structure backed by a
// shared slab of entries addressed by stable handles (spec §4.3).
//
// Two concrete containers are provided: TwoLevelMap (externalised as an
// insertion-ordered list) and TwoLevelHeap (externalised as an implicit
// binary max-heap). Both share the same slab design: a growable slice of
// entries plus a free list of recycled indices, so handles stay stable
// across insertions and removals of *other* entries.
package twolevel

// defaultInlineLimit is LIM from spec §4.3: the number of (K2,V) pairs a
// K1 bucket holds inline before migrating to the external structure.
const defaultInlineLimit = 2

// handle indexes into a slab. -1 is the nil handle.
type handle int32

const nilHandle handle = -1

// slab is a shared arena of entries of type E, addressed by stable
// handles. Removed slots are recycled via a free list so handles into
// live entries never have to be renumbered.
type slab[E any] struct {
	entries []E
	free    []handle
}

func newSlab[E any]() *slab[E] {
	return &slab[E]{}
}

// alloc stores v in a free or new slot and returns its handle.
func (s *slab[E]) alloc(v E) handle {
	if n := len(s.free); n > 0 {
		h := s.free[n-1]
		s.free = s.free[:n-1]
		s.entries[h] = v
		return h
	}
	s.entries = append(s.entries, v)
	return handle(len(s.entries) - 1)
}

// get returns a pointer to the entry at h, allowing in-place mutation.
func (s *slab[E]) get(h handle) *E {
	return &s.entries[h]
}

// release returns h to the free list. The caller must not use h again
// until it is handed back out by a later alloc.
func (s *slab[E]) release(h handle) {
	var zero E
	s.entries[h] = zero
	s.free = append(s.free, h)
}
