package satlogic

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hashicorp/golang-lru/v2"

	"github.com/gokanren/ratsat/internal/cnf"
	"github.com/gokanren/ratsat/pkg/dataflow"
	"github.com/gokanren/ratsat/pkg/loopy"
)

// canonicalCacheSize bounds the Canonical lookup cache; chosen generously
// relative to typical atom counts rather than derived from any workload.
const canonicalCacheSize = 4096

type litPair = dataflow.Pair[cnf.Literal, cnf.Literal]
type ruleLit = dataflow.Pair[cnf.RuleIndex, cnf.Literal]

// Graph is the fixed relational SAT program of spec §4.6: a set of named
// inputs the driver feeds (rules, equivalences, assignments, and a
// decision-level counter kept outside the dataflow graph, see
// DESIGN.md), and a set of derived relations the driver reads back after
// each Commit.
//
// Level is tracked as a plain counter rather than a dataflow input
// (DESIGN.md records this as a deliberate simplification): its only
// consumers are the Assign/PushFrame/PopFrame calls that stamp a LiteralCause, so
// routing it through the graph would add a relation with exactly one
// reader and no incremental behaviour of its own.
type Graph struct {
	ctx *dataflow.Context
	eng *loopy.Engine

	rules    *loopy.FramelessInput[ruleLit]
	equiv    *loopy.FramelessInput[dataflow.Pair[cnf.Atom, cnf.Literal]]
	assigned *loopy.FirstOccurrenceInput[cnf.Literal, LiteralCause]

	level Level

	closureAccum *dataflow.Input[litPair]
	impAccum     *dataflow.Input[litPair]

	// queryable snapshots, refreshed after every Commit
	contradiction map[litPair]int64
	canonical   map[dataflow.Pair[cnf.Literal, cnf.Literal]]int64
	assignedOut map[cnf.Literal]int64
	violated    map[cnf.RuleIndex]int64
	propagate   map[dataflow.Pair[cnf.Literal, cnf.RuleIndex]]int64
	discSingle  map[cnf.Literal]int64
	discEquiv   map[dataflow.Pair[cnf.Atom, cnf.Literal]]int64
	nextLit     map[dataflow.TopNPair[struct{}, int64]]int64
	liveLits    map[cnf.Literal]int64
	assignConflict map[cnf.Literal]int64
	assignedCauses map[dataflow.Pair[cnf.Literal, LiteralCause]]int64
	ruleLits       map[ruleLit]int64

	canonicalReader      dataflow.Operator[litPair]
	assignedReader       dataflow.Operator[cnf.Literal]
	violatedReader       dataflow.Operator[cnf.RuleIndex]
	propagateReader      dataflow.Operator[dataflow.Pair[cnf.Literal, cnf.RuleIndex]]
	discSingleReader     dataflow.Operator[cnf.Literal]
	discEquivReader      dataflow.Operator[dataflow.Pair[cnf.Atom, cnf.Literal]]
	nextLitReader        dataflow.Operator[dataflow.TopNPair[struct{}, int64]]
	contradictReader     dataflow.Operator[litPair]
	liveLitsReader       dataflow.Operator[cnf.Literal]
	assignConflictReader dataflow.Operator[cnf.Literal]
	assignedCauseReader  dataflow.Operator[dataflow.Pair[cnf.Literal, LiteralCause]]
	ruleLitsReader       dataflow.Operator[ruleLit]

	// compressed witness sets mirrored from the snapshots above after
	// every Commit (DESIGN.md: RoaringBitmap wiring for spec §4.6 items
	// 4 and 6).
	usedLiterals  *roaring.Bitmap
	assignedAtoms *roaring.Bitmap

	canonicalCache *lru.Cache[cnf.Literal, cnf.Literal]

	// plain lookup indexes rebuilt from the snapshots above after every
	// Commit; Resolve (task 8) walks these to trace conflict causes.
	causeByLit    map[cnf.Literal]LiteralCause
	ruleIndexLits map[cnf.RuleIndex][]cnf.Literal
}

func swapLit(p litPair) litPair {
	return litPair{First: p.Second, Second: p.First}
}

// NewGraph builds the fixed SAT dataflow graph over a fresh context.
func NewGraph() *Graph {
	ctx := dataflow.NewContext()
	eng := loopy.NewEngine(ctx)

	g := &Graph{
		ctx:         ctx,
		eng:         eng,
		rules:       loopy.NewFramelessInput[ruleLit](ctx),
		equiv:       loopy.NewFramelessInput[dataflow.Pair[cnf.Atom, cnf.Literal]](ctx),
		assigned:    loopy.NewFirstOccurrenceInput[cnf.Literal, LiteralCause](ctx),
		closureAccum: dataflow.NewInput[litPair](ctx),
		impAccum:     dataflow.NewInput[litPair](ctx),
		contradiction: make(map[litPair]int64),
		canonical:    make(map[litPair]int64),
		assignedOut:  make(map[cnf.Literal]int64),
		violated:     make(map[cnf.RuleIndex]int64),
		propagate:    make(map[dataflow.Pair[cnf.Literal, cnf.RuleIndex]]int64),
		discSingle:   make(map[cnf.Literal]int64),
		discEquiv:    make(map[dataflow.Pair[cnf.Atom, cnf.Literal]]int64),
		nextLit:      make(map[dataflow.TopNPair[struct{}, int64]]int64),
		liveLits:     make(map[cnf.Literal]int64),
		assignConflict: make(map[cnf.Literal]int64),
		assignedCauses: make(map[dataflow.Pair[cnf.Literal, LiteralCause]]int64),
		ruleLits:       make(map[ruleLit]int64),
	}
	g.usedLiterals, g.assignedAtoms = newWitnessSets()
	cache, _ := lru.New[cnf.Literal, cnf.Literal](canonicalCacheSize)
	g.canonicalCache = cache
	g.causeByLit = make(map[cnf.Literal]LiteralCause)
	g.ruleIndexLits = make(map[cnf.RuleIndex][]cnf.Literal)

	ruleLitSave := dataflow.NewSave(ctx, g.rules)
	equivSave := dataflow.NewSave(ctx, g.equiv)

	// --- equivalence closure (task 1) ---
	equivBase := dataflow.NewFlatMap(equivSave.Get(), func(p dataflow.Pair[cnf.Atom, cnf.Literal]) []litPair {
		pos := cnf.NewLiteral(p.First, cnf.Positive)
		neg := cnf.NewLiteral(p.First, cnf.Negative)
		return []litPair{
			{First: pos, Second: p.Second},
			{First: neg, Second: p.Second.Negate()},
		}
	})
	equivBaseSave := dataflow.NewSave(ctx, equivBase)
	equivSym := dataflow.NewConcat[litPair](equivBaseSave.Get(), dataflow.NewMap(equivBaseSave.Get(), swapLit))
	allEdges := dataflow.NewConcat[litPair](equivSym, g.closureAccum)
	allSaved := dataflow.NewSave(ctx, allEdges)
	closureLeft := dataflow.NewMap(allSaved.Get(), swapLit)
	closureRight := allSaved.Get()
	closureJoined := dataflow.NewJoin[cnf.Literal, cnf.Literal, cnf.Literal](closureLeft, closureRight)
	closureDerivedRaw := dataflow.NewMap(closureJoined, func(p dataflow.Pair[cnf.Literal, dataflow.Pair[cnf.Literal, cnf.Literal]]) litPair {
		return litPair{First: p.Second.First, Second: p.Second.Second}
	})
	closureDerived := dataflow.NewDistinct[litPair](closureDerivedRaw)
	eng.Register(loopy.NewFeedbackEdge[litPair](closureDerived, loopy.InputSender(g.closureAccum)))

	selfLoops := dataflow.NewMap(equivBaseSave.Get(), func(p litPair) litPair { return litPair{First: p.First, Second: p.First} })
	ruleSelfLoops := dataflow.NewMap(ruleLitSave.Get(), func(p ruleLit) litPair { return litPair{First: p.Second, Second: p.Second} })
	candidateSrc := dataflow.NewConcat[litPair](dataflow.NewConcat[litPair](allSaved.Get(), selfLoops), ruleSelfLoops)
	// rank orders literals atom-first (positive before negative within an
	// atom), so a class and its negated class pick representatives that
	// are negations of each other.
	negated := dataflow.NewMap(candidateSrc, func(p litPair) dataflow.Pair[cnf.Literal, int64] {
		rank := int64(p.Second.Atom()) << 1
		if p.Second.Sign() == cnf.Negative {
			rank |= 1
		}
		return dataflow.Pair[cnf.Literal, int64]{First: p.First, Second: -rank}
	})
	maxNeg := dataflow.NewMax[cnf.Literal, int64](negated)
	canonicalOp := dataflow.NewMap(maxNeg, func(t dataflow.TopNPair[cnf.Literal, int64]) litPair {
		rank := -t.Win.Vals[0]
		return litPair{First: t.Key, Second: cnf.NewLiteral(cnf.Atom(rank>>1), cnf.Sign(rank&1 == 0))}
	})
	canonicalSave := dataflow.NewSave(ctx, canonicalOp)
	g.canonicalReader = canonicalSave.Get()

	contradiction := dataflow.NewFilter(allSaved.Get(), func(p litPair) bool { return p.Second == p.First.Negate() })
	contradictionSave := dataflow.NewSave(ctx, contradiction)
	g.contradictReader = contradictionSave.Get()
	eng.Register(loopy.NewInterruptEdge[litPair](contradictionSave.Get(), idRootConflict))

	// --- rule substitution (task 2): replace every rule literal with its
	// equivalence class's canonical representative, dropping tautologies.
	litByKey := dataflow.NewMap(ruleLitSave.Get(), func(p ruleLit) dataflow.Pair[cnf.Literal, cnf.RuleIndex] {
		return dataflow.Pair[cnf.Literal, cnf.RuleIndex]{First: p.Second, Second: p.First}
	})
	subJoin := dataflow.NewJoin[cnf.Literal, cnf.RuleIndex, cnf.Literal](litByKey, canonicalSave.Get())
	substituted := dataflow.NewMap(subJoin, func(p dataflow.Pair[cnf.Literal, dataflow.Pair[cnf.RuleIndex, cnf.Literal]]) ruleLit {
		return ruleLit{First: p.Second.First, Second: p.Second.Second}
	})
	substitutedRawSave := dataflow.NewSave(ctx, substituted)
	// a rule is tautological post-substitution if it contains both l and
	// !l; drop every literal of such a rule from the substituted view.
	subSelfJoin := dataflow.NewJoin[cnf.RuleIndex, cnf.Literal, cnf.Literal](substitutedRawSave.Get(), substitutedRawSave.Get())
	tautRules := dataflow.NewFilter(subSelfJoin, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[cnf.Literal, cnf.Literal]]) bool {
		return p.Second.First == p.Second.Second.Negate()
	})
	tautRuleIdx := dataflow.NewDistinct(dataflow.NewMap(tautRules, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[cnf.Literal, cnf.Literal]]) cnf.RuleIndex {
		return p.First
	}))
	substitutedClean := dataflow.NewAntijoin[cnf.RuleIndex, cnf.Literal](substitutedRawSave.Get(), tautRuleIdx)
	substitutedSave := dataflow.NewSave(ctx, substitutedClean)

	// --- assignment bookkeeping (task 6) ---
	assignedSave := dataflow.NewSave(ctx, g.assigned)
	g.assignedCauseReader = assignedSave.Get()
	assignedMapped := dataflow.NewMap[dataflow.Pair[cnf.Literal, LiteralCause], cnf.Literal](assignedSave.Get(), func(p dataflow.Pair[cnf.Literal, LiteralCause]) cnf.Literal { return p.First })
	assignedLitSave := dataflow.NewSave(ctx, assignedMapped)
	g.assignedReader = assignedLitSave.Get()

	// detect direct contradictory assignment: both l and !l assigned.
	assignedKeyedSelf := dataflow.NewMap(assignedLitSave.Get(), func(l cnf.Literal) dataflow.Pair[cnf.Literal, cnf.Literal] {
		return dataflow.Pair[cnf.Literal, cnf.Literal]{First: l, Second: l}
	})
	assignedNegKeyed := dataflow.NewMap(assignedLitSave.Get(), func(l cnf.Literal) dataflow.Pair[cnf.Literal, cnf.Literal] {
		return dataflow.Pair[cnf.Literal, cnf.Literal]{First: l.Negate(), Second: l}
	})
	conflictJoin := dataflow.NewJoin[cnf.Literal, cnf.Literal, cnf.Literal](assignedKeyedSelf, assignedNegKeyed)
	conflictLit := dataflow.NewMap(conflictJoin, func(p dataflow.Pair[cnf.Literal, dataflow.Pair[cnf.Literal, cnf.Literal]]) cnf.Literal { return p.First })
	conflictLitSave := dataflow.NewSave(ctx, conflictLit)
	g.assignConflictReader = conflictLitSave.Get()
	eng.Register(loopy.NewInterruptEdge(conflictLitSave.Get(), idAssignmentConflict))

	falseLits := dataflow.NewMap(assignedLitSave.Get(), func(l cnf.Literal) cnf.Literal { return l.Negate() })
	falseSave := dataflow.NewSave(ctx, falseLits)
	falseKeyed := dataflow.NewMap(falseSave.Get(), func(l cnf.Literal) dataflow.Pair[cnf.Literal, struct{}] {
		return dataflow.Pair[cnf.Literal, struct{}]{First: l}
	})
	ruleLitByLiteral := dataflow.NewMap(substitutedSave.Get(), func(p ruleLit) dataflow.Pair[cnf.Literal, cnf.RuleIndex] {
		return dataflow.Pair[cnf.Literal, cnf.RuleIndex]{First: p.Second, Second: p.First}
	})
	ruleLitByLiteralSave := dataflow.NewSave(ctx, ruleLitByLiteral)
	falseOcc := dataflow.NewJoin[cnf.Literal, cnf.RuleIndex, struct{}](ruleLitByLiteralSave.Get(), falseKeyed)
	falsePerRule := dataflow.NewMap(falseOcc, func(p dataflow.Pair[cnf.Literal, dataflow.Pair[cnf.RuleIndex, struct{}]]) cnf.RuleIndex {
		return p.Second.First
	})
	ruleFalseCounts := dataflow.NewCounts(falsePerRule)

	sizeCounts := dataflow.NewCounts(dataflow.NewMap(substitutedSave.Get(), func(p ruleLit) cnf.RuleIndex { return p.First }))
	sizeCountsSave := dataflow.NewSave(ctx, sizeCounts)
	sizeKeyed := dataflow.NewMap(sizeCountsSave.Get(), func(c dataflow.CountPair[cnf.RuleIndex]) dataflow.Pair[cnf.RuleIndex, int64] {
		return dataflow.Pair[cnf.RuleIndex, int64]{First: c.Value, Second: c.Count}
	})
	falseKeyed2 := dataflow.NewMap(ruleFalseCounts, func(c dataflow.CountPair[cnf.RuleIndex]) dataflow.Pair[cnf.RuleIndex, int64] {
		return dataflow.Pair[cnf.RuleIndex, int64]{First: c.Value, Second: c.Count}
	})
	countsJoined := dataflow.NewJoin[cnf.RuleIndex, int64, int64](sizeKeyed, falseKeyed2)
	countsJoinedSave := dataflow.NewSave(ctx, countsJoined)

	assignedKeyedTrue := dataflow.NewMap(assignedLitSave.Get(), func(l cnf.Literal) dataflow.Pair[cnf.Literal, struct{}] {
		return dataflow.Pair[cnf.Literal, struct{}]{First: l}
	})
	trueOcc := dataflow.NewJoin[cnf.Literal, cnf.RuleIndex, struct{}](ruleLitByLiteralSave.Get(), assignedKeyedTrue)
	satisfiedIdxRaw := dataflow.NewDistinct(dataflow.NewMap(trueOcc, func(p dataflow.Pair[cnf.Literal, dataflow.Pair[cnf.RuleIndex, struct{}]]) cnf.RuleIndex {
		return p.Second.First
	}))
	satisfiedSave := dataflow.NewSave(ctx, satisfiedIdxRaw)

	violatedRaw := dataflow.NewFilter(countsJoinedSave.Get(), func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[int64, int64]]) bool {
		return p.Second.First == p.Second.Second
	})
	violatedFinal := dataflow.NewMap(violatedRaw, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[int64, int64]]) cnf.RuleIndex { return p.First })
	violatedSave := dataflow.NewSave(ctx, violatedFinal)
	g.violatedReader = violatedSave.Get()
	eng.Register(loopy.NewInterruptEdge(violatedSave.Get(), idViolatedRule))

	unitRaw := dataflow.NewFilter(countsJoinedSave.Get(), func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[int64, int64]]) bool {
		return p.Second.Second == p.Second.First-1
	})
	unitIdx := dataflow.NewConcat[cnf.RuleIndex](
		dataflow.NewMap(unitRaw, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[int64, int64]]) cnf.RuleIndex { return p.First }),
		dataflow.NewMap(
			dataflow.NewFilter(sizeCountsSave.Get(), func(c dataflow.CountPair[cnf.RuleIndex]) bool { return c.Count == 1 }),
			func(c dataflow.CountPair[cnf.RuleIndex]) cnf.RuleIndex { return c.Value },
		),
	)
	unitNotSatisfied := dataflow.NewAntijoin[cnf.RuleIndex, struct{}](
		dataflow.NewMap(unitIdx, func(idx cnf.RuleIndex) dataflow.Pair[cnf.RuleIndex, struct{}] {
			return dataflow.Pair[cnf.RuleIndex, struct{}]{First: idx}
		}),
		satisfiedSave.Get(),
	)
	unitRuleIdx := dataflow.NewMap(unitNotSatisfied, func(p dataflow.Pair[cnf.RuleIndex, struct{}]) cnf.RuleIndex { return p.First })
	candidateLits := dataflow.NewJoin[cnf.RuleIndex, struct{}, cnf.Literal](
		dataflow.NewMap(unitRuleIdx, func(idx cnf.RuleIndex) dataflow.Pair[cnf.RuleIndex, struct{}] {
			return dataflow.Pair[cnf.RuleIndex, struct{}]{First: idx}
		}),
		substitutedSave.Get(),
	)
	forcedByLit := dataflow.NewMap(candidateLits, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[struct{}, cnf.Literal]]) dataflow.Pair[cnf.Literal, cnf.RuleIndex] {
		return dataflow.Pair[cnf.Literal, cnf.RuleIndex]{First: p.Second.Second, Second: p.First}
	})
	propagations := dataflow.NewAntijoin[cnf.Literal, cnf.RuleIndex](forcedByLit, falseSave.Get())
	propagateSave := dataflow.NewSave(ctx, propagations)
	g.propagateReader = propagateSave.Get()

	// --- implication graph and transitive closure (task 4) over
	// substituted 2-literal rules: {a,b} means !a -> b and !b -> a.
	binaryIdx := dataflow.NewMap(
		dataflow.NewFilter(sizeCountsSave.Get(), func(c dataflow.CountPair[cnf.RuleIndex]) bool { return c.Count == 2 }),
		func(c dataflow.CountPair[cnf.RuleIndex]) cnf.RuleIndex { return c.Value },
	)
	binaryLits := dataflow.NewJoin[cnf.RuleIndex, struct{}, cnf.Literal](
		dataflow.NewMap(binaryIdx, func(idx cnf.RuleIndex) dataflow.Pair[cnf.RuleIndex, struct{}] {
			return dataflow.Pair[cnf.RuleIndex, struct{}]{First: idx}
		}),
		substitutedSave.Get(),
	)
	binaryPairsRaw := dataflow.NewJoin[cnf.RuleIndex, cnf.Literal, cnf.Literal](
		dataflow.NewMap(binaryLits, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[struct{}, cnf.Literal]]) ruleLit {
			return ruleLit{First: p.First, Second: p.Second.Second}
		}),
		substitutedSave.Get(),
	)
	impBase := dataflow.NewDistinct(dataflow.NewFlatMap(
		dataflow.NewFilter(binaryPairsRaw, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[cnf.Literal, cnf.Literal]]) bool {
			return p.Second.First != p.Second.Second
		}),
		func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[cnf.Literal, cnf.Literal]]) []litPair {
			a, b := p.Second.First, p.Second.Second
			return []litPair{
				{First: a.Negate(), Second: b},
				{First: b.Negate(), Second: a},
			}
		},
	))
	impAll := dataflow.NewConcat[litPair](impBase, g.impAccum)
	impSaved := dataflow.NewSave(ctx, impAll)
	impLeft := dataflow.NewMap(impSaved.Get(), swapLit)
	impRight := impSaved.Get()
	impJoined := dataflow.NewJoin[cnf.Literal, cnf.Literal, cnf.Literal](impLeft, impRight)
	impDerivedRaw := dataflow.NewMap(impJoined, func(p dataflow.Pair[cnf.Literal, dataflow.Pair[cnf.Literal, cnf.Literal]]) litPair {
		return litPair{First: p.Second.First, Second: p.Second.Second}
	})
	impDerived := dataflow.NewDistinct[litPair](impDerivedRaw)
	eng.Register(loopy.NewFeedbackEdge[litPair](impDerived, loopy.InputSender(g.impAccum)))

	// task 5: a -> !a means a must always be false. Only surface this as
	// a new discovery if it is not already recorded as a standalone unit
	// rule (a rule whose substituted body has exactly one literal).
	unitRuleIdxAll := dataflow.NewMap(
		dataflow.NewFilter(sizeCountsSave.Get(), func(c dataflow.CountPair[cnf.RuleIndex]) bool { return c.Count == 1 }),
		func(c dataflow.CountPair[cnf.RuleIndex]) cnf.RuleIndex { return c.Value },
	)
	unitRuleLits := dataflow.NewJoin[cnf.RuleIndex, struct{}, cnf.Literal](
		dataflow.NewMap(unitRuleIdxAll, func(idx cnf.RuleIndex) dataflow.Pair[cnf.RuleIndex, struct{}] {
			return dataflow.Pair[cnf.RuleIndex, struct{}]{First: idx}
		}),
		substitutedSave.Get(),
	)
	knownUnitLits := dataflow.NewMap(unitRuleLits, func(p dataflow.Pair[cnf.RuleIndex, dataflow.Pair[struct{}, cnf.Literal]]) cnf.Literal {
		return p.Second.Second
	})

	selfNeg := dataflow.NewFilter(impSaved.Get(), func(p litPair) bool { return p.Second == p.First.Negate() })
	discoveredUnit := dataflow.NewMap(selfNeg, func(p litPair) cnf.Literal { return p.First.Negate() })
	discUnitKnown := dataflow.NewAntijoin[cnf.Literal, struct{}](
		dataflow.NewMap(discoveredUnit, func(l cnf.Literal) dataflow.Pair[cnf.Literal, struct{}] {
			return dataflow.Pair[cnf.Literal, struct{}]{First: l}
		}),
		knownUnitLits,
	)
	discUnitFinal := dataflow.NewMap(discUnitKnown, func(p dataflow.Pair[cnf.Literal, struct{}]) cnf.Literal { return p.First })
	discUnitSave := dataflow.NewSave(ctx, discUnitFinal)
	g.discSingleReader = discUnitSave.Get()
	eng.Register(loopy.NewInterruptEdge(discUnitSave.Get(), idSingletonDiscovered))

	// task 5 (continued): mutual implication a -> b -> a, a != b, is a
	// newly discovered equivalence.
	edgeKeyed := dataflow.NewMap(impSaved.Get(), func(p litPair) dataflow.Pair[litPair, bool] { return dataflow.Pair[litPair, bool]{First: p, Second: true} })
	swapKeyed := dataflow.NewMap(impSaved.Get(), func(p litPair) dataflow.Pair[litPair, bool] { return dataflow.Pair[litPair, bool]{First: swapLit(p), Second: true} })
	mutualJoin := dataflow.NewJoin[litPair, bool, bool](edgeKeyed, swapKeyed)
	mutual := dataflow.NewMap(mutualJoin, func(p dataflow.Pair[litPair, dataflow.Pair[bool, bool]]) litPair { return p.First })
	mutualDistinct := dataflow.NewFilter(dataflow.NewDistinct(mutual), func(p litPair) bool { return p.First < p.Second && p.First.Atom() >= p.Second.Atom() })
	discEquivOp := dataflow.NewMap(mutualDistinct, func(p litPair) dataflow.Pair[cnf.Atom, cnf.Literal] {
		if p.First.Sign() == cnf.Positive {
			return dataflow.Pair[cnf.Atom, cnf.Literal]{First: p.First.Atom(), Second: p.Second}
		}
		return dataflow.Pair[cnf.Atom, cnf.Literal]{First: p.First.Atom(), Second: p.Second.Negate()}
	})
	discEquivKnown := dataflow.NewAntijoin[dataflow.Pair[cnf.Atom, cnf.Literal], struct{}](
		dataflow.NewMap(discEquivOp, func(p dataflow.Pair[cnf.Atom, cnf.Literal]) dataflow.Pair[dataflow.Pair[cnf.Atom, cnf.Literal], struct{}] {
			return dataflow.Pair[dataflow.Pair[cnf.Atom, cnf.Literal], struct{}]{First: p}
		}),
		dataflow.NewMap(equivSave.Get(), func(p dataflow.Pair[cnf.Atom, cnf.Literal]) dataflow.Pair[cnf.Atom, cnf.Literal] { return p }),
	)
	discEquivFinal := dataflow.NewMap(discEquivKnown, func(p dataflow.Pair[dataflow.Pair[cnf.Atom, cnf.Literal], struct{}]) dataflow.Pair[cnf.Atom, cnf.Literal] { return p.First })
	discEquivSave := dataflow.NewSave(ctx, discEquivFinal)
	g.discEquivReader = discEquivSave.Get()
	eng.Register(loopy.NewInterruptEdge(discEquivSave.Get(), idEquivalenceDiscovered))

	// --- next-literal heuristic (task 9): most-occurring literal among
	// rule bodies whose rule is not yet satisfied, ties broken by Ord;
	// literals already assigned true or false are excluded.
	// Ranked by packing (count, literal) into one ordered int64 so a
	// single Max gives both the primary and tiebreak comparison at once.
	unsatisfiedLits := dataflow.NewAntijoin[cnf.RuleIndex, cnf.Literal](substitutedSave.Get(), satisfiedSave.Get())
	litCounts := dataflow.NewCounts(dataflow.NewMap(unsatisfiedLits, func(p ruleLit) cnf.Literal { return p.Second }))
	litCountsUnassigned := dataflow.NewAntijoin[cnf.Literal, int64](
		dataflow.NewMap(litCounts, func(c dataflow.CountPair[cnf.Literal]) dataflow.Pair[cnf.Literal, int64] {
			return dataflow.Pair[cnf.Literal, int64]{First: c.Value, Second: c.Count}
		}),
		dataflow.NewConcat[cnf.Literal](assignedLitSave.Get(), falseSave.Get()),
	)
	singletonKeyed := dataflow.NewMap(litCountsUnassigned, func(p dataflow.Pair[cnf.Literal, int64]) dataflow.Pair[struct{}, int64] {
		return dataflow.Pair[struct{}, int64]{Second: packPriority(p.Second, p.First)}
	})
	nextLitOp := dataflow.NewMax[struct{}, int64](singletonKeyed)
	nextLitSave := dataflow.NewSave(ctx, nextLitOp)
	g.nextLitReader = nextLitSave.Get()

	// used_literals (task 4): every literal appearing in some live
	// (post-substitution, non-tautological) rule. Mirrored into a
	// roaring.Bitmap each Commit and used to filter the discovery
	// outputs down to literals the implication graph's closure still
	// has live support for, per spec §4.6 item 4.
	liveLits := dataflow.NewDistinct(dataflow.NewMap(substitutedSave.Get(), func(p ruleLit) cnf.Literal { return p.Second }))
	liveLitsSave := dataflow.NewSave(ctx, liveLits)
	g.liveLitsReader = liveLitsSave.Get()

	// task 8 (conflict resolution): a plain (RuleIndex,Literal) view of
	// every live rule's body, read back by Resolve to find a propagated
	// literal's causer rule's other literals.
	g.ruleLitsReader = substitutedSave.Get()

	return g
}
