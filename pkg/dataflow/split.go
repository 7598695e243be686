package dataflow

// splitSide holds one side's pulled-but-not-yet-drained changes for a
// Split, keyed by the commit they were buffered at.
type splitSide[V comparable] struct {
	commit  int64
	changes []Change[V]
}

// Split turns a Pair[L,R] stream into two independently-pulled Operators
// (spec §4.4). The first side to be pulled for a commit drains the
// shared source and buffers both projections; the second side to be
// pulled for that same commit just replays its buffer. Buffered items
// are tagged with the pull's commit rather than the source change's own
// commit: since both sides are only ever pulled with the same commit
// argument by a correctly-built graph, this is an exact replay, not an
// approximation.
type Split[L comparable, R comparable] struct {
	src Operator[Pair[L, R]]

	left  splitSide[L]
	right splitSide[R]
}

// NewSplit wraps src, returning independent left and right operators.
func NewSplit[L comparable, R comparable](src Operator[Pair[L, R]]) (Operator[L], Operator[R]) {
	s := &Split[L, R]{src: src}
	return (*splitLeft[L, R])(s), (*splitRight[L, R])(s)
}

func (s *Split[L, R]) ensure(commit int64) {
	if s.left.commit == commit && s.right.commit == commit {
		return
	}
	s.left.commit = commit
	s.left.changes = s.left.changes[:0]
	s.right.commit = commit
	s.right.changes = s.right.changes[:0]
	s.src.ForEach(commit, func(p Pair[L, R], mult int64) {
		s.left.changes = append(s.left.changes, Change[L]{Value: p.First, Commit: commit, Mult: mult})
		s.right.changes = append(s.right.changes, Change[R]{Value: p.Second, Commit: commit, Mult: mult})
	})
}

type splitLeft[L comparable, R comparable] Split[L, R]

func (s *splitLeft[L, R]) ForEach(commit int64, yield func(v L, mult int64)) {
	full := (*Split[L, R])(s)
	full.ensure(commit)
	for _, c := range full.left.changes {
		yield(c.Value, c.Mult)
	}
	full.left.changes = full.left.changes[:0]
}

type splitRight[L comparable, R comparable] Split[L, R]

func (s *splitRight[L, R]) ForEach(commit int64, yield func(v R, mult int64)) {
	full := (*Split[L, R])(s)
	full.ensure(commit)
	for _, c := range full.right.changes {
		yield(c.Value, c.Mult)
	}
	full.right.changes = full.right.changes[:0]
}
