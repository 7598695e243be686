// Package search drives pkg/satlogic's dataflow graph through the
// CDCL decision/backjump loop of spec §4.6/§4.7: select a literal,
// commit, and react to whatever interrupt the graph reports (a
// conflict to resolve and backjump from, a fact the implication graph
// discovered worth learning as a permanent rule, or quiescence, in
// which case either decide another literal or the formula is solved).
package search

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/gokanren/ratsat/internal/cnf"
	"github.com/gokanren/ratsat/internal/proof"
	"github.com/gokanren/ratsat/pkg/satlogic"
)

// Solver runs one CDCL search over a fixed set of input clauses,
// writing every learned rule and discovered equivalence to a proof
// stream as it goes.
type Solver struct {
	graph *satlogic.Graph
	proof *proof.Writer
	log   *zap.SugaredLogger

	alloc         cnf.RuleIndexAllocator
	requiredAtoms map[cnf.Atom]bool
	learntRules   map[string]bool

	// equivalenceGraph mirrors the driver-side half of spec §4.6 item 7:
	// atom.pos() and atom.neg() map to the literal they were discovered
	// or recorded equivalent to. Resolved to a fixed point only once, at
	// the end, by constructSolution.
	equivalenceGraph map[cnf.Literal]cnf.Literal

	// decisions[i] is the literal chosen to reach decision level i+1;
	// len(decisions) always equals graph.Level().
	decisions []cnf.Literal

	emptyClause bool
}

// NewSolver builds a solver over rawClauses (a Problem.Clauses slice),
// writing its proof to pf.
func NewSolver(rawClauses [][]cnf.Literal, pf *proof.Writer, log *zap.SugaredLogger) *Solver {
	s := &Solver{
		graph:            satlogic.NewGraph(),
		proof:            pf,
		log:              log,
		requiredAtoms:    make(map[cnf.Atom]bool),
		learntRules:      make(map[string]bool),
		equivalenceGraph: make(map[cnf.Literal]cnf.Literal),
	}

	for _, raw := range rawClauses {
		if len(raw) == 0 {
			s.emptyClause = true
			continue
		}
		rule, atom, err := cnf.Sanitise(raw)
		if err != nil {
			// A tautological input clause is always satisfied; it is
			// dropped, but its atom is recorded as one the final model
			// must still assign (spec §7).
			s.requiredAtoms[atom] = true
			continue
		}
		s.loadBaseRule(rule)
	}

	return s
}

func (s *Solver) loadBaseRule(rule cnf.Rule) {
	idx := s.alloc.Next()
	s.graph.AddRule(idx, rule)
}

// ruleKey turns a sanitised rule into a comparable map key.
func ruleKey(r cnf.Rule) string {
	key := ""
	for _, l := range r {
		key += fmt.Sprintf("%d,", int32(l))
	}
	return key
}

// learnRule adds rule as a new, previously-unlearnt clause, writing it
// to the proof. Learning an already-learnt rule is a driver invariant
// violation (spec §7): the dataflow graph's discovery relations are
// distinct-by-construction and never resurface a fact once recorded.
func (s *Solver) learnRule(rule cnf.Rule) {
	key := ruleKey(rule)
	if s.learntRules[key] {
		panic(fmt.Sprintf("search: rule %v learnt twice", rule))
	}
	s.learntRules[key] = true

	idx := s.alloc.Next()
	s.graph.AddRule(idx, rule)
	if err := s.proof.Clause(rule); err != nil {
		panic(fmt.Sprintf("search: writing proof: %v", err))
	}
}

// commit drives the graph to the next interrupt or quiescence,
// feeding every pending propagation back in as a new assignment first:
// propagation is not itself tied to a registered interrupt, so the
// engine reports EventNone as soon as nothing else is pending even
// while forced-but-unassigned literals remain. Looping here is what
// actually makes propagation take effect.
func (s *Solver) commit() satlogic.Event {
	for {
		ev := s.graph.Commit()
		if ev != satlogic.EventNone {
			return ev
		}
		pending := s.graph.Propagations()
		if len(pending) == 0 {
			return satlogic.EventNone
		}
		for _, p := range pending {
			s.graph.Assign(p.Literal, satlogic.NewPropagatedCause(p.Rule, s.graph.Level()))
		}
	}
}

func (s *Solver) selectLiteral(lit cnf.Literal) {
	s.graph.PushFrame()
	s.graph.Assign(lit, satlogic.NewDecisionCause(s.graph.Level()))
	s.decisions = append(s.decisions, lit)
}

func (s *Solver) popDecision() {
	s.graph.PopFrame()
	if len(s.decisions) > 0 {
		s.decisions = s.decisions[:len(s.decisions)-1]
	}
}

// invalidateSelectionsConflictingWith pops every decision frame above
// and including the level at which the driver once guessed lit's
// negation, now that lit is proven permanently true. The graph itself
// never raises a dedicated interrupt for this (spec §4.6 item 5 folds
// it into plain singleton discovery); the driver detects it by walking
// its own decision trail.
func (s *Solver) invalidateSelectionsConflictingWith(lit cnf.Literal) {
	for level := len(s.decisions); level >= 1; level-- {
		if s.decisions[level-1] != lit.Negate() {
			continue
		}
		for len(s.decisions) >= level {
			s.popDecision()
		}
		return
	}
}

func (s *Solver) conflictSeeds(ev satlogic.Event) []cnf.Literal {
	if ev == satlogic.EventAssignmentConflict {
		return s.graph.ConflictedLiterals()
	}
	rules := s.graph.ViolatedRules()
	sort.Slice(rules, func(i, j int) bool { return rules[i] < rules[j] })
	idx := rules[0]
	seeds := make([]cnf.Literal, 0, 4)
	for _, l := range s.graph.RuleLiterals(idx) {
		seeds = append(seeds, l.Negate())
	}
	return seeds
}

func (s *Solver) backjumpTo(level satlogic.Level) (ok bool) {
	for s.graph.Level() >= level {
		if s.graph.Level() == 0 {
			return false
		}
		s.popDecision()
	}
	return true
}

// Solve runs the CDCL loop to completion, returning a satisfying
// assignment and true, or nil and false if the formula is
// unsatisfiable.
func (s *Solver) Solve() ([]cnf.Literal, bool) {
	if s.emptyClause {
		s.writeEmpty()
		return nil, false
	}

	for {
		ev := s.commit()
		switch ev {
		case satlogic.EventRootConflict:
			s.log.Debugw("root conflict: formula is unconditionally unsatisfiable")
			s.writeContradictionAtom()
			s.writeEmpty()
			return nil, false

		case satlogic.EventAssignmentConflict, satlogic.EventViolatedRule:
			seeds := s.conflictSeeds(ev)
			clause, backjump := s.graph.Resolve(seeds)
			s.log.Debugw("learned conflict clause", "clause", clause, "backjump", backjump, "level", s.graph.Level())
			s.learnRule(clause)
			if !s.backjumpTo(backjump) {
				s.writeEmpty()
				return nil, false
			}

		case satlogic.EventSingletonDiscovered:
			for _, lit := range s.graph.DiscoveredSingletons() {
				s.learnRule(cnf.Rule{lit})
				s.invalidateSelectionsConflictingWith(lit)
			}

		case satlogic.EventEquivalenceDiscovered:
			for _, p := range s.graph.DiscoveredEquivalence() {
				atom, lit := p.First, p.Second
				if lit.Atom() == atom {
					s.writeContradictionAtom2(atom)
					s.writeEmpty()
					return nil, false
				}
				if err := s.proof.Equivalence(atom, lit); err != nil {
					panic(fmt.Sprintf("search: writing proof: %v", err))
				}
				s.graph.AddEquivalence(atom, lit)
				s.equivalenceGraph[cnf.NewLiteral(atom, cnf.Positive)] = lit
				s.equivalenceGraph[cnf.NewLiteral(atom, cnf.Negative)] = lit.Negate()
			}

		case satlogic.EventNone:
			lit, ok := s.graph.NextLiteral()
			if !ok {
				solution := s.constructSolution()
				s.log.Infow("solution found", "assigned", len(solution))
				return solution, true
			}
			s.log.Debugw("deciding", "literal", lit, "level", s.graph.Level()+1)
			s.selectLiteral(lit)

		case satlogic.EventSelectionInvalidated, satlogic.EventBinaryDiscovered:
			panic(fmt.Sprintf("search: unreachable event %v", ev))

		default:
			panic(fmt.Sprintf("search: unknown event %v", ev))
		}
	}
}

func (s *Solver) writeEmpty() {
	if err := s.proof.Empty(); err != nil {
		panic(fmt.Sprintf("search: writing proof: %v", err))
	}
}

func (s *Solver) writeContradictionAtom() {
	if atom, ok := s.graph.ContradictionAtom(); ok {
		s.writeContradictionAtom2(atom)
	}
}

func (s *Solver) writeContradictionAtom2(atom cnf.Atom) {
	if err := s.proof.Clause(cnf.Rule{cnf.NewLiteral(atom, cnf.Positive)}); err != nil {
		panic(fmt.Sprintf("search: writing proof: %v", err))
	}
}

// compress resolves every key of uf to the end of its chain, memoizing
// as it goes. This is the Go counterpart of the original's
// self-referential lazy thunk: a plain recursive function with a memo
// map, since Go has no equivalent to a cyclic Rc closure and doesn't
// need one here.
func compress(uf map[cnf.Literal]cnf.Literal) map[cnf.Literal]cnf.Literal {
	resolved := make(map[cnf.Literal]cnf.Literal, len(uf))
	var resolve func(cnf.Literal) cnf.Literal
	resolve = func(l cnf.Literal) cnf.Literal {
		if r, ok := resolved[l]; ok {
			return r
		}
		v, ok := uf[l]
		if !ok {
			return l
		}
		r := resolve(v)
		resolved[l] = r
		return r
	}
	out := make(map[cnf.Literal]cnf.Literal, len(uf))
	for k := range uf {
		out[k] = resolve(k)
	}
	return out
}

// constructSolution gathers the final model (spec §4.6 item 10): every
// directly assigned atom, plus every atom whose equivalence class
// resolves to a literal that is itself true in the model, defaulting
// any never-assigned required atom to false, then sorts the result.
func (s *Solver) constructSolution() []cnf.Literal {
	result := make(map[cnf.Atom]cnf.Sign)
	for _, lit := range s.graph.AssignedLiterals() {
		result[lit.Atom()] = lit.Sign()
	}

	compressed := compress(s.equivalenceGraph)
	for x, y := range compressed {
		ySign, ok := result[y.Atom()]
		if !ok {
			ySign = cnf.Negative
			result[y.Atom()] = ySign
		}
		if y.Sign() == ySign {
			result[x.Atom()] = x.Sign()
		}
	}

	for atom := range s.requiredAtoms {
		if _, ok := result[atom]; !ok {
			result[atom] = cnf.Negative
		}
	}

	out := make([]cnf.Literal, 0, len(result))
	for atom, sign := range result {
		out = append(out, cnf.NewLiteral(atom, sign))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
