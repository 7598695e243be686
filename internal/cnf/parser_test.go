package cnf

import (
	"strings"
	"testing"
)

func TestParseSimpleSAT(t *testing.T) {
	p, err := Parse(strings.NewReader("p cnf 3 2\n1 -2 0\n2 -3 0\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if p.NumVars != 3 || p.NumClauses != 2 {
		t.Fatalf("header = (%d,%d), want (3,2)", p.NumVars, p.NumClauses)
	}
	if len(p.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(p.Clauses))
	}
	want0 := []Literal{NewLiteral(1, Positive), NewLiteral(2, Negative)}
	for i, l := range want0 {
		if p.Clauses[0][i] != l {
			t.Fatalf("Clauses[0] = %v, want %v", p.Clauses[0], want0)
		}
	}
}

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	p, err := Parse(strings.NewReader("c a comment\n\np cnf 1 1\nc another comment\n1 0\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(p.Clauses) != 1 || p.Clauses[0][0] != NewLiteral(1, Positive) {
		t.Fatalf("Clauses = %v, want [[1]]", p.Clauses)
	}
}

func TestParseClauseSpanningMultipleLines(t *testing.T) {
	p, err := Parse(strings.NewReader("p cnf 3 1\n1 -2\n3 0\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(p.Clauses) != 1 || len(p.Clauses[0]) != 3 {
		t.Fatalf("Clauses = %v, want one 3-literal clause", p.Clauses)
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 0\n"))
	if err == nil {
		t.Fatal("Parse should reject clause data with no header")
	}
}

func TestParseRejectsTruncatedClause(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf 1 1\n1 2"))
	if err == nil {
		t.Fatal("Parse should reject a clause missing its terminating 0")
	}
}
