package proof

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gokanren/ratsat/internal/cnf"
)

// Scanner tokenizes an EDRAT proof stream: whitespace-separated tokens
// that may span multiple lines, pulled lazily one line at a time.
type Scanner struct {
	sc     *bufio.Scanner
	tokens []string
}

// NewScanner wraps r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	return &Scanner{sc: sc}
}

// Token returns the next whitespace-separated token, or false at EOF.
func (s *Scanner) Token() (string, bool) {
	for len(s.tokens) == 0 {
		if !s.sc.Scan() {
			return "", false
		}
		s.tokens = strings.Fields(s.sc.Text())
	}
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok, true
}

// Int reads the next token as an integer.
func (s *Scanner) Int() (int, error) {
	tok, ok := s.Token()
	if !ok {
		return 0, errors.New("proof: unexpected end of EDRAT stream")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(err, "proof: malformed integer token %q", tok)
	}
	return n, nil
}

// Literal reads the next token as a signed literal.
func (s *Scanner) Literal() (cnf.Literal, error) {
	n, err := s.Int()
	if err != nil {
		return 0, err
	}
	return cnf.Literal(n), nil
}

// Rule reads literals, starting with the already-consumed tokens in
// first, until a terminating 0 token.
func (s *Scanner) Rule(first []cnf.Literal) ([]cnf.Literal, error) {
	rule := append([]cnf.Literal(nil), first...)
	for {
		lit, err := s.Literal()
		if err != nil {
			return nil, err
		}
		if lit == 0 {
			return rule, nil
		}
		rule = append(rule, lit)
	}
}
