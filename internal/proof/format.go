// Package proof emits and translates the EDRAT proof format (spec
// §4.7): EDRAT is DRAT extended with an `=` directive recording a
// discovered literal equivalence, and an edrat2drat run materialises
// every such directive into a pair of ordinary DRAT clauses so a
// standard DRAT checker can verify the proof.
package proof

import (
	"fmt"
	"strings"

	"github.com/gokanren/ratsat/internal/cnf"
)

// FormatRule renders rule the way both the solver and the translator
// write a clause to the proof: space-separated literals followed by a
// trailing "0", e.g. "1 -2 3 0".
func FormatRule(rule []cnf.Literal) string {
	var b strings.Builder
	for _, l := range rule {
		fmt.Fprintf(&b, "%d ", int32(l))
	}
	b.WriteString("0")
	return b.String()
}
