// Package satlogic builds the fixed relational SAT graph of spec §4.6 on
// top of pkg/dataflow and pkg/loopy: unit propagation, conflict
// detection, conflict-clause resolution, equivalence closure and
// substitution, and discovery of implied unit/binary clauses, all
// expressed as one dataflow program built once at start-up and driven by
// a small imperative interface.
package satlogic

import "github.com/gokanren/ratsat/internal/cnf"

// Level is a decision level: 0 is the root.
type Level int32

// LiteralCause is either a decision at some level or a propagation via a
// rule at some level (spec §3). It packs into a single ordered int64 so
// it can serve as the value type of a first-occurrence input's
// candidate heap (pkg/loopy.FirstOccurrenceInput requires an Ord value):
// bits [63:33] hold the level, bit 32 flags propagation, bits [31:0]
// hold the causing rule index (zero for a decision). Ordering by this
// packing is exactly "by level, decisions before propagations at the
// same level" as spec §3 requires.
type LiteralCause int64

const propagatedFlag = int64(1) << 32

// NewDecisionCause returns the cause for a user-selected literal at level.
func NewDecisionCause(level Level) LiteralCause {
	return LiteralCause(int64(level) << 33)
}

// NewPropagatedCause returns the cause for a literal forced by rule at level.
func NewPropagatedCause(rule cnf.RuleIndex, level Level) LiteralCause {
	return LiteralCause(int64(level)<<33 | propagatedFlag | int64(uint32(rule)))
}

// Level returns the cause's decision level.
func (c LiteralCause) Level() Level {
	return Level(int64(c) >> 33)
}

// IsPropagated reports whether c is a propagation (as opposed to a
// decision).
func (c LiteralCause) IsPropagated() bool {
	return int64(c)&propagatedFlag != 0
}

// Rule returns the propagating rule, if c is a propagation.
func (c LiteralCause) Rule() (cnf.RuleIndex, bool) {
	if !c.IsPropagated() {
		return 0, false
	}
	return cnf.RuleIndex(uint32(c)), true
}
