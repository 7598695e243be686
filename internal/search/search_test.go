package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gokanren/ratsat/internal/cnf"
	"github.com/gokanren/ratsat/internal/proof"
)

func lits(xs ...int32) []cnf.Literal {
	out := make([]cnf.Literal, len(xs))
	for i, x := range xs {
		out[i] = cnf.Literal(x)
	}
	return out
}

// satisfies mirrors the solver binary's own self-check (spec §6/§8):
// no literal and its negation both present, and every clause has at
// least one literal asserted true by the assignment.
func satisfies(t *testing.T, clauses [][]cnf.Literal, assignment []cnf.Literal) {
	t.Helper()
	asserted := make(map[cnf.Literal]bool, len(assignment))
	for _, l := range assignment {
		require.Falsef(t, asserted[l.Negate()], "assignment asserts both %d and %d", l, l.Negate())
		asserted[l] = true
	}
	for _, clause := range clauses {
		ok := false
		for _, l := range clause {
			if asserted[l] {
				ok = true
				break
			}
		}
		require.Truef(t, ok, "clause %v left unsatisfied by %v", clause, assignment)
	}
}

func newSolver(t *testing.T, clauses [][]cnf.Literal) (*Solver, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	w := proof.NewWriter(&buf)
	s := NewSolver(clauses, w, zap.NewNop().Sugar())
	return s, &buf
}

// TestSolveSimpleSatisfiable builds a small satisfiable two-clause
// formula and checks the returned model actually satisfies it.
func TestSolveSimpleSatisfiable(t *testing.T) {
	clauses := [][]cnf.Literal{lits(1, 2), lits(-1, 3)}
	s, buf := newSolver(t, clauses)

	assignment, sat := s.Solve()
	require.True(t, sat)
	satisfies(t, clauses, assignment)
	require.NoError(t, s.proof.Flush())
	_ = buf
}

// TestSolveUnitConflictIsUnsatisfiable forces an immediate conflict
// between two unit clauses over the same atom.
func TestSolveUnitConflictIsUnsatisfiable(t *testing.T) {
	clauses := [][]cnf.Literal{lits(1), lits(-1)}
	s, buf := newSolver(t, clauses)

	assignment, sat := s.Solve()
	require.False(t, sat)
	require.Nil(t, assignment)
	require.NoError(t, s.proof.Flush())
	require.True(t, strings.HasSuffix(buf.String(), "0\n"))
}

// TestSolveEmptyClauseIsUnsatisfiable exercises spec §7's edge case: an
// empty input clause makes the formula unsatisfiable before any
// propagation happens.
func TestSolveEmptyClauseIsUnsatisfiable(t *testing.T) {
	clauses := [][]cnf.Literal{{}}
	s, buf := newSolver(t, clauses)

	assignment, sat := s.Solve()
	require.False(t, sat)
	require.Nil(t, assignment)
	require.NoError(t, s.proof.Flush())
	require.Equal(t, "0\n", buf.String())
}

// TestSolveTautologicalClauseRequiresAtom checks that a tautological
// input clause is dropped but its atom still appears in the final
// model (spec §7).
func TestSolveTautologicalClauseRequiresAtom(t *testing.T) {
	clauses := [][]cnf.Literal{lits(5, -5), lits(1, 2)}
	s, _ := newSolver(t, clauses)

	assignment, sat := s.Solve()
	require.True(t, sat)
	found := false
	for _, l := range assignment {
		if l.Atom() == cnf.Atom(5) {
			found = true
		}
	}
	require.True(t, found, "required atom 5 missing from model %v", assignment)
}

// TestSolveRequiresDecisionAndLearning exercises a formula small enough
// to need at least one decision and possibly a learned clause, and
// checks the resulting model satisfies every clause.
func TestSolveRequiresDecisionAndLearning(t *testing.T) {
	clauses := [][]cnf.Literal{
		lits(1, 2),
		lits(-1, 3),
		lits(-2, -3),
		lits(1, -2, 3),
	}
	s, _ := newSolver(t, clauses)

	assignment, sat := s.Solve()
	require.True(t, sat)
	satisfies(t, clauses, assignment)
}

// TestSolveUnsatisfiableFourClauses forces UNSAT via a small
// all-binary formula whose four clauses cannot be simultaneously
// satisfied over two atoms.
func TestSolveUnsatisfiableFourClauses(t *testing.T) {
	clauses := [][]cnf.Literal{
		lits(1, 2),
		lits(1, -2),
		lits(-1, 2),
		lits(-1, -2),
	}
	s, buf := newSolver(t, clauses)

	assignment, sat := s.Solve()
	require.False(t, sat)
	require.Nil(t, assignment)
	require.NoError(t, s.proof.Flush())
	require.True(t, strings.HasSuffix(buf.String(), "0\n"))
}
