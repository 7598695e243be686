package cnf

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Problem is a parsed DIMACS CNF instance: the declared variable/clause
// counts from the header, and the raw (not yet sanitised) clauses.
type Problem struct {
	NumVars    int
	NumClauses int
	Clauses    [][]Literal
}

// Parse reads a DIMACS CNF file (spec §6): blank lines and `c ...`
// comment lines are skipped, the header is `p cnf <nvars> <nclauses>`,
// and clauses are whitespace-separated integers terminated by 0,
// possibly spanning multiple lines.
func Parse(r io.Reader) (*Problem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)

	p := &Problem{}
	haveHeader := false
	var current []Literal

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[1] != "cnf" {
				return nil, errors.Errorf("cnf: malformed header %q", line)
			}
			nv, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrapf(err, "cnf: bad variable count in header %q", line)
			}
			nc, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, errors.Wrapf(err, "cnf: bad clause count in header %q", line)
			}
			p.NumVars, p.NumClauses = nv, nc
			haveHeader = true
			continue
		}
		if !haveHeader {
			return nil, errors.Errorf("cnf: clause data before header: %q", line)
		}

		for _, tok := range strings.Fields(line) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "cnf: malformed literal %q", tok)
			}
			if n == 0 {
				p.Clauses = append(p.Clauses, current)
				current = nil
				continue
			}
			if n > 0 {
				current = append(current, NewLiteral(Atom(n), Positive))
			} else {
				current = append(current, NewLiteral(Atom(-n), Negative))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "cnf: reading input")
	}
	if len(current) != 0 {
		return nil, errors.New("cnf: final clause missing terminating 0")
	}
	return p, nil
}
