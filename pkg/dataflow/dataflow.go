// Package dataflow implements the relational operator graph of spec §4.4:
// a directed acyclic graph of stateful operators over change-streams of
// typed tuples with signed integer multiplicities.
//
// Every operator is a small generic type implementing Operator[V]. Pulling
// an operator (calling ForEach) recursively pulls its upstream source(s),
// which in turn pull theirs, all the way back to an Input — the only
// operator with an actual buffer of not-yet-delivered changes. Because
// each upstream change is drained from Input exactly once, every operator
// downstream of it processes each raw change exactly once too; stateful
// operators (Consolidate, Distinct, Counts, Antijoin, Join, TopN)
// accumulate into their own internal maps across calls rather than
// recomputing from scratch, giving the "pull lazily, memoise per commit"
// behaviour described in spec §4.4. Save is the one node that needs an
// explicit broadcast (queue.FanOut) because it alone has more than one
// independent consumer of the same upstream change.
package dataflow

// Change is one entry in a relation's change-stream: a value with a
// commit id and a signed multiplicity (spec §3).
type Change[V any] struct {
	Value  V
	Commit int64
	Mult   int64
}

// Operator is implemented by every node in the operator graph. ForEach
// pulls every upstream change with commit id <= commit not yet delivered
// to this operator, updates any internal state incrementally, and feeds
// each resulting (value, multiplicity) pair to yield. Calling ForEach
// again for a commit already delivered is a correctness error for
// non-idempotent operators (Input, Consolidate, Distinct, ...); Save
// exists specifically to give multiple independent readers of the same
// upstream a safe way to each pull once.
type Operator[V comparable] interface {
	ForEach(commit int64, yield func(v V, mult int64))
}

// DumpToMap sums every (value, multiplicity) pulled from op at commit
// into dst, removing any entry whose running sum becomes exactly zero
// (spec §4.4's dump_to_map contract).
func DumpToMap[V comparable](op Operator[V], commit int64, dst map[V]int64) {
	op.ForEach(commit, func(v V, mult int64) {
		n := dst[v] + mult
		if n == 0 {
			delete(dst, v)
		} else {
			dst[v] = n
		}
	})
}

// Unconsolidate exposes the raw, not-necessarily-deduplicated change
// stream underlying op — in this implementation every ForEach already is
// that raw stream, so Unconsolidate is simply ForEach under another name,
// matching spec §4.4's description of it as an alternate view.
func Unconsolidate[V comparable](op Operator[V], commit int64, yield func(v V, mult int64)) {
	op.ForEach(commit, yield)
}

// Pair is the tuple type used for every (K,V)-shaped relation in this
// package (Antijoin, Join, Split, TopN, ...).
type Pair[A comparable, B comparable] struct {
	First  A
	Second B
}
