package satlogic

import "github.com/gokanren/ratsat/internal/cnf"

// rebuildConflictIndex rebuilds the plain causeByLit/ruleIndexLits
// lookups from the snapshots dumped this Commit, ready for Resolve.
func (g *Graph) rebuildConflictIndex() {
	for k := range g.causeByLit {
		delete(g.causeByLit, k)
	}
	for p := range g.assignedCauses {
		g.causeByLit[p.First] = p.Second
	}

	for k := range g.ruleIndexLits {
		delete(g.ruleIndexLits, k)
	}
	for p := range g.ruleLits {
		g.ruleIndexLits[p.First] = append(g.ruleIndexLits[p.First], p.Second)
	}
}

// Resolve traces the cause chain of seeds back to the decision frontier
// (spec §4.6 item 8's inspect_assigned fixpoint, grounded on
// satsolver_relgraph's propagate_cause/retained/next_step dataflow).
// seeds is the literal set that witnessed the interrupt: the two
// contradictory literals for EventAssignmentConflict, or the negation
// of every literal of the violated rule for EventViolatedRule.
//
// A propagated literal sitting at the running maximum level among the
// still-active set is replaced by the negation of every other literal
// of its causing rule (those literals are exactly what the rule's unit
// propagation found already false); a decision literal, or a propagated
// literal below the running maximum, is retained instead. Because a
// causer's antecedents never outrank the literal they caused, the
// maximum level is non-increasing as resolution proceeds, so this
// imperative walk reaches the same fixpoint the original's repeatedly
// re-evaluated dataflow partition does, without needing a live
// dataflow relation for "currently under inspection".
//
// The returned clause is the negation of every retained literal; the
// backjump level is the maximum level among retained causes (0 if
// retained is empty, i.e. the conflict is unconditional).
func (g *Graph) Resolve(seeds []cnf.Literal) (clause []cnf.Literal, backjump Level) {
	inspected := make(map[cnf.Literal]bool, len(seeds))
	active := make(map[cnf.Literal]bool, len(seeds))
	for _, l := range seeds {
		if !inspected[l] {
			inspected[l] = true
			active[l] = true
		}
	}

	var retained []cnf.Literal
	for len(active) > 0 {
		maxLevel := Level(-1)
		for l := range active {
			if cause, ok := g.causeByLit[l]; ok && cause.Level() > maxLevel {
				maxLevel = cause.Level()
			}
		}

		var atMax []cnf.Literal
		for l := range active {
			cause, ok := g.causeByLit[l]
			if !ok || cause.Level() == maxLevel {
				atMax = append(atMax, l)
			}
		}
		for _, l := range atMax {
			delete(active, l)
			cause, ok := g.causeByLit[l]
			if ok && cause.IsPropagated() {
				rule, _ := cause.Rule()
				for _, other := range g.ruleIndexLits[rule] {
					if other == l {
						continue
					}
					neg := other.Negate()
					if !inspected[neg] {
						inspected[neg] = true
						active[neg] = true
					}
				}
				continue
			}
			retained = append(retained, l)
		}
	}

	for _, l := range retained {
		clause = append(clause, l.Negate())
		if cause, ok := g.causeByLit[l]; ok && cause.Level() > backjump {
			backjump = cause.Level()
		}
	}
	return clause, backjump
}
