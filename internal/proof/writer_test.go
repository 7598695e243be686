package proof

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gokanren/ratsat/internal/cnf"
)

func TestWriterFormatsClauseEquivalenceAndEmpty(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)

	require.NoError(t, w.Clause(rule(1, -2, 3)))
	require.NoError(t, w.Equivalence(5, cnf.Literal(-7)))
	require.NoError(t, w.Empty())
	require.NoError(t, w.Flush())

	require.Equal(t, "1 -2 3 0\n= 5 -7 0\n0\n", out.String())
}

func TestScannerTokenizesAcrossLines(t *testing.T) {
	s := NewScanner(strings.NewReader("1 -2\n3 0\nd 1 -2\n3 0\n"))

	rule, err := s.Rule(nil)
	require.NoError(t, err)
	require.Equal(t, []cnf.Literal{1, -2, 3}, rule)

	tok, ok := s.Token()
	require.True(t, ok)
	require.Equal(t, "d", tok)

	rule, err = s.Rule(nil)
	require.NoError(t, err)
	require.Equal(t, []cnf.Literal{1, -2, 3}, rule)

	_, ok = s.Token()
	require.False(t, ok)
}
