package satlogic

import (
	"github.com/gokanren/ratsat/internal/cnf"
	"github.com/gokanren/ratsat/pkg/dataflow"
)

// Propagation is a forced literal together with the rule that forces it.
type Propagation struct {
	Literal cnf.Literal
	Rule    cnf.RuleIndex
}

// AddRule feeds a sanitised rule's literals into the graph under idx.
func (g *Graph) AddRule(idx cnf.RuleIndex, lits cnf.Rule) {
	for _, l := range lits {
		g.rules.Send(dataflow.Pair[cnf.RuleIndex, cnf.Literal]{First: idx, Second: l})
	}
}

// AddEquivalence records that atom's positive literal equals lit.
func (g *Graph) AddEquivalence(atom cnf.Atom, lit cnf.Literal) {
	g.equiv.Send(dataflow.Pair[cnf.Atom, cnf.Literal]{First: atom, Second: lit})
}

// Assign records lit as assigned for the given cause.
func (g *Graph) Assign(lit cnf.Literal, cause LiteralCause) {
	g.assigned.Send(lit, cause)
}

// PushFrame opens a new decision frame.
func (g *Graph) PushFrame() {
	g.level++
	g.assigned.PushFrame()
}

// PopFrame closes the innermost decision frame, retracting every
// assignment first made within it (promoting a filed candidate for any
// key whose earlier value is thereby exposed, per FirstOccurrenceInput).
func (g *Graph) PopFrame() {
	g.assigned.PopFrame()
	if g.level > 0 {
		g.level--
	}
}

// Level returns the current decision level.
func (g *Graph) Level() Level {
	return g.level
}

// Commit drives the fixpoint to quiescence or the next interrupt,
// refreshing every queryable snapshot along the way.
func (g *Graph) Commit() Event {
	id, interrupted := g.eng.Commit()
	commit := g.ctx.CurrentCommit()

	dataflow.DumpToMap(g.canonicalReader, commit, g.canonical)
	dataflow.DumpToMap(g.assignedReader, commit, g.assignedOut)
	dataflow.DumpToMap(g.violatedReader, commit, g.violated)
	dataflow.DumpToMap(g.propagateReader, commit, g.propagate)
	dataflow.DumpToMap(g.discSingleReader, commit, g.discSingle)
	dataflow.DumpToMap(g.discEquivReader, commit, g.discEquiv)
	dataflow.DumpToMap(g.nextLitReader, commit, g.nextLit)
	dataflow.DumpToMap(g.contradictReader, commit, g.contradiction)
	dataflow.DumpToMap(g.liveLitsReader, commit, g.liveLits)
	dataflow.DumpToMap(g.assignConflictReader, commit, g.assignConflict)
	dataflow.DumpToMap(g.assignedCauseReader, commit, g.assignedCauses)
	dataflow.DumpToMap(g.ruleLitsReader, commit, g.ruleLits)
	g.rebuildWitnessSets()
	g.rebuildConflictIndex()
	g.canonicalCache.Purge()

	if !interrupted {
		return EventNone
	}
	switch id {
	case idRootConflict:
		return EventRootConflict
	case idAssignmentConflict:
		return EventAssignmentConflict
	case idViolatedRule:
		return EventViolatedRule
	case idSingletonDiscovered:
		return EventSingletonDiscovered
	case idEquivalenceDiscovered:
		return EventEquivalenceDiscovered
	default:
		return EventNone
	}
}

// NextLiteral returns the highest-occurrence unassigned literal, if any
// rule remains unsatisfied.
func (g *Graph) NextLiteral() (cnf.Literal, bool) {
	for t := range g.nextLit {
		if t.Win.Len > 0 {
			return unpackLiteral(t.Win.Vals[0]), true
		}
	}
	return 0, false
}

// ViolatedRules returns the currently all-false, unsatisfied rules.
func (g *Graph) ViolatedRules() []cnf.RuleIndex {
	out := make([]cnf.RuleIndex, 0, len(g.violated))
	for idx := range g.violated {
		out = append(out, idx)
	}
	return out
}

// Propagations returns every literal currently forced by some rule but
// not yet assigned.
func (g *Graph) Propagations() []Propagation {
	out := make([]Propagation, 0, len(g.propagate))
	for p := range g.propagate {
		out = append(out, Propagation{Literal: p.First, Rule: p.Second})
	}
	return out
}

// DiscoveredSingletons returns literals the implication graph has proven
// must always be true and that are not yet rules, restricted to
// literals still live in used_literals (spec §4.6 item 4: a literal
// whose last supporting rule has since been satisfied away is no
// longer a discovery worth acting on).
func (g *Graph) DiscoveredSingletons() []cnf.Literal {
	out := make([]cnf.Literal, 0, len(g.discSingle))
	for l := range g.discSingle {
		if g.isUsed(l) {
			out = append(out, l)
		}
	}
	return out
}

// DiscoveredEquivalence returns newly proven, not-yet-recorded (atom,
// literal) equivalences whose literal is still live in used_literals.
func (g *Graph) DiscoveredEquivalence() []dataflow.Pair[cnf.Atom, cnf.Literal] {
	out := make([]dataflow.Pair[cnf.Atom, cnf.Literal], 0, len(g.discEquiv))
	for p := range g.discEquiv {
		if g.isUsed(p.Second) {
			out = append(out, p)
		}
	}
	return out
}

// AssignedLiterals returns every currently assigned literal.
func (g *Graph) AssignedLiterals() []cnf.Literal {
	out := make([]cnf.Literal, 0, len(g.assignedOut))
	for l := range g.assignedOut {
		out = append(out, l)
	}
	return out
}

// Canonical returns the canonical representative literal for lit's
// equivalence class (lit itself if it is in no recorded class). The
// underlying scan is O(len(canonical)); results are cached until the
// next Commit invalidates them. internal/search does not call it.
func (g *Graph) Canonical(lit cnf.Literal) cnf.Literal {
	if rep, ok := g.canonicalCache.Get(lit); ok {
		return rep
	}
	rep := lit
	for p := range g.canonical {
		if p.First == lit {
			rep = p.Second
			break
		}
	}
	g.canonicalCache.Add(lit, rep)
	return rep
}

// SelfContradictory reports whether lit has been merged with its own
// negation (ROOT_CONFLICT).
func (g *Graph) SelfContradictory() bool {
	return len(g.contradiction) > 0
}

// ContradictionAtom returns an atom witnessing a self-contradictory
// equivalence closure (ROOT_CONFLICT): some literal of this atom has
// been proven equivalent to its own negation. Any witness is as good
// as any other, since the formula is unconditionally unsatisfiable
// either way.
func (g *Graph) ContradictionAtom() (cnf.Atom, bool) {
	for p := range g.contradiction {
		return p.First.Atom(), true
	}
	return 0, false
}

// ConflictedLiterals returns every literal currently assigned both
// positive and negative (ASSIGNMENT_CONFLICT witnesses).
func (g *Graph) ConflictedLiterals() []cnf.Literal {
	out := make([]cnf.Literal, 0, len(g.assignConflict))
	for l := range g.assignConflict {
		out = append(out, l)
	}
	return out
}

// RuleLiterals returns the current (post-substitution) literals of idx,
// or nil if idx names no live rule.
func (g *Graph) RuleLiterals(idx cnf.RuleIndex) []cnf.Literal {
	lits := g.ruleIndexLits[idx]
	out := make([]cnf.Literal, len(lits))
	copy(out, lits)
	return out
}
