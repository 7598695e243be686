// Package cnf implements the literal algebra and DIMACS CNF parsing
// shared by the SAT solver and the EDRAT-to-DRAT translator (spec §3,
// §6).
package cnf

import (
	"sort"

	"github.com/pkg/errors"
)

// Atom is a positive integer variable identifier.
type Atom int32

// Sign distinguishes a positive occurrence of an atom from a negated one.
type Sign bool

const (
	Positive Sign = true
	Negative Sign = false
)

// Literal is a non-zero signed integer: its magnitude is its atom, its
// sign is the literal's sign. The zero value is never a valid literal.
type Literal int32

// NewLiteral builds the literal for atom under sign.
func NewLiteral(a Atom, s Sign) Literal {
	if s == Positive {
		return Literal(a)
	}
	return Literal(-a)
}

// Atom returns the literal's underlying atom.
func (l Literal) Atom() Atom {
	if l < 0 {
		return Atom(-l)
	}
	return Atom(l)
}

// Sign returns the literal's sign.
func (l Literal) Sign() Sign {
	return l > 0
}

// Negate flips the literal's sign.
func (l Literal) Negate() Literal {
	return -l
}

// RuleIndex is an opaque, densely-assigned, never-reused identifier for
// a learned or input rule (spec §3).
type RuleIndex int32

// RuleIndexAllocator hands out densely increasing RuleIndex values.
type RuleIndexAllocator struct {
	next RuleIndex
}

// Next returns the next unused RuleIndex.
func (a *RuleIndexAllocator) Next() RuleIndex {
	idx := a.next
	a.next++
	return idx
}

// Rule is a sorted, deduplicated clause: a disjunction of literals.
type Rule []Literal

// ErrTautology is returned by Sanitise when a clause contains both a
// literal and its negation.
var ErrTautology = errors.New("cnf: tautological rule")

// Sanitise sorts and deduplicates lits into canonical rule form. A rule
// containing both a literal and its negation is tautological: it is
// rejected, and the atom that caused the conflict is returned alongside
// ErrTautology so the caller can record it as "required" in the final
// model (spec §7).
func Sanitise(lits []Literal) (Rule, Atom, error) {
	if len(lits) == 0 {
		return Rule{}, 0, nil
	}
	cp := append(Rule(nil), lits...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })

	out := cp[:0]
	seen := make(map[Literal]bool, len(cp))
	for _, l := range cp {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}

	for _, l := range out {
		if seen[l.Negate()] {
			return nil, l.Atom(), errors.WithStack(ErrTautology)
		}
	}
	return out, 0, nil
}
