package proof

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gokanren/ratsat/internal/cnf"
)

// Writer appends lines to an EDRAT proof stream: learned clauses,
// discovered equivalences, and the terminating empty clause.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w. Callers should pass io.Discard when no proof path
// was requested (spec §6: `-e`/`--edrat` is optional).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Clause writes rule as a learned or input clause.
func (w *Writer) Clause(rule []cnf.Literal) error {
	_, err := fmt.Fprintln(w.w, FormatRule(rule))
	return err
}

// Equivalence writes a discovered equivalence between atom's positive
// literal and lit: "= <atom> <lit> 0".
func (w *Writer) Equivalence(atom cnf.Atom, lit cnf.Literal) error {
	_, err := fmt.Fprintf(w.w, "= %d %d 0\n", int32(atom), int32(lit))
	return err
}

// Empty writes the terminating empty clause that marks the formula
// unsatisfiable.
func (w *Writer) Empty() error {
	_, err := fmt.Fprintln(w.w, "0")
	return err
}

// Flush flushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
