package satlogic

// Event identifies which driver transition (spec §4.7) a Graph.Commit
// call surfaced.
type Event int

const (
	// EventNone means the graph reached quiescence with no interrupt:
	// the driver should consult NextLiteral and either decide it or
	// declare satisfiability.
	EventNone Event = iota
	// EventRootConflict means the formula is unconditionally
	// unsatisfiable (an equivalence closure merged a literal with its
	// own negation).
	EventRootConflict
	// EventAssignmentConflict means two contradictory literals are both
	// assigned; call Resolve with the conflicted literal and its
	// negation as seeds to get the learned clause and backjump level.
	EventAssignmentConflict
	// EventViolatedRule means every literal of some rule is assigned
	// false; call Resolve with the negation of that rule's literals
	// (RuleLiterals) as seeds to get the learned clause and backjump
	// level.
	EventViolatedRule
	// EventSelectionInvalidated means the most recent decision literal
	// is no longer consistent with forced propagations and must be
	// popped.
	EventSelectionInvalidated
	// EventSingletonDiscovered means the implication graph proved some
	// literal must always be true; the driver should learn it as a
	// permanent unit rule.
	EventSingletonDiscovered
	// EventBinaryDiscovered means the implication graph proved a
	// mutual, non-equivalence two-literal consequence worth learning as
	// a permanent binary rule. (This implementation folds binary
	// discovery into EventSingletonDiscovered/EventEquivalenceDiscovered;
	// see DESIGN.md.)
	EventBinaryDiscovered
	// EventEquivalenceDiscovered means two literals were proven to imply
	// each other; the driver should record the equivalence and emit its
	// two defining clauses to the proof.
	EventEquivalenceDiscovered
)

// interrupt ids registered with the loopy.Engine, in the priority order
// they are polled.
const (
	idRootConflict = iota
	idAssignmentConflict
	idViolatedRule
	idSingletonDiscovered
	idEquivalenceDiscovered
)
