package proof

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gokanren/ratsat/internal/cnf"
)

// ruleKey turns a sanitised rule into a comparable map key (a Rule is
// a slice, and slices cannot be map keys themselves).
func ruleKey(r cnf.Rule) string {
	var b strings.Builder
	for _, l := range r {
		fmt.Fprintf(&b, "%d,", int32(l))
	}
	return b.String()
}

// Translator rewrites an EDRAT proof into a pure DRAT proof by
// materialising every `=` directive's substitution across the
// currently live rule set, so a standard DRAT checker never has to
// understand equivalences (spec §4.7). It tracks, for every live rule,
// its current (post-substitution) literals and which rules currently
// mention each literal, so an `=` directive's rewrite touches exactly
// the rules it needs to.
type Translator struct {
	nextIndex     cnf.RuleIndex
	literalToRule map[cnf.Literal]map[cnf.RuleIndex]bool
	indexToRule   map[cnf.RuleIndex]cnf.Rule
	ruleToIndex   map[string]cnf.RuleIndex
	out           io.Writer
}

// NewTranslator seeds the translator's bookkeeping from the base CNF's
// clauses (baseRules is a Problem.Clauses slice) and writes the
// translated proof to out.
func NewTranslator(baseRules [][]cnf.Literal, out io.Writer) *Translator {
	t := &Translator{
		literalToRule: make(map[cnf.Literal]map[cnf.RuleIndex]bool),
		indexToRule:   make(map[cnf.RuleIndex]cnf.Rule),
		ruleToIndex:   make(map[string]cnf.RuleIndex),
		out:           out,
	}
	for _, raw := range baseRules {
		rule, _, err := cnf.Sanitise(raw)
		if err != nil {
			continue
		}
		key := ruleKey(rule)
		if _, exists := t.ruleToIndex[key]; exists {
			continue
		}
		t.addLiveRule(rule)
	}
	return t
}

func (t *Translator) addLiveRule(rule cnf.Rule) cnf.RuleIndex {
	idx := t.nextIndex
	t.nextIndex++
	t.indexToRule[idx] = rule
	t.ruleToIndex[ruleKey(rule)] = idx
	for _, l := range rule {
		t.addWatch(l, idx)
	}
	return idx
}

func (t *Translator) addWatch(l cnf.Literal, idx cnf.RuleIndex) {
	set := t.literalToRule[l]
	if set == nil {
		set = make(map[cnf.RuleIndex]bool)
		t.literalToRule[l] = set
	}
	set[idx] = true
}

func (t *Translator) removeWatch(l cnf.Literal, idx cnf.RuleIndex) {
	if set := t.literalToRule[l]; set != nil {
		delete(set, idx)
	}
}

func (t *Translator) writeLine(line string) error {
	_, err := fmt.Fprintln(t.out, line)
	return err
}

// Run translates every directive from edrat until the terminating "0",
// writing the translated DRAT proof to t's output.
func (t *Translator) Run(edrat *Scanner) error {
	for {
		tok, ok := edrat.Token()
		if !ok {
			return nil
		}
		var err error
		switch tok {
		case "d":
			err = t.deleteDirective(edrat)
		case "=":
			err = t.equivalenceDirective(edrat)
		case "0":
			return t.writeLine("0")
		default:
			err = t.addDirective(edrat, tok)
		}
		if err != nil {
			return err
		}
	}
}

func (t *Translator) deleteDirective(edrat *Scanner) error {
	rule, err := edrat.Rule(nil)
	if err != nil {
		return err
	}
	sanitised, _, err := cnf.Sanitise(rule)
	if err != nil {
		return errors.Wrap(err, "proof: delete directive names a tautological rule")
	}
	if err := t.writeLine("d " + FormatRule(sanitised)); err != nil {
		return err
	}
	return t.forget(sanitised)
}

// forget removes a live rule's bookkeeping entirely; the caller has
// already written its DRAT deletion line.
func (t *Translator) forget(rule cnf.Rule) error {
	key := ruleKey(rule)
	idx, ok := t.ruleToIndex[key]
	if !ok {
		panic(fmt.Sprintf("proof: delete of unknown rule %v", rule))
	}
	delete(t.ruleToIndex, key)
	delete(t.indexToRule, idx)
	for _, l := range rule {
		t.removeWatch(l, idx)
	}
	return nil
}

func (t *Translator) addDirective(edrat *Scanner, firstTok string) error {
	n, convErr := strconv.Atoi(firstTok)
	if convErr != nil {
		return errors.Wrapf(convErr, "proof: malformed EDRAT token %q", firstTok)
	}
	rule, err := edrat.Rule([]cnf.Literal{cnf.Literal(n)})
	if err != nil {
		return err
	}
	// Emitted verbatim, unsanitised: it may be a RAT clause, whose
	// validity depends on more than the literals it shares with
	// existing rules, so only the checker can judge it.
	if err := t.writeLine(FormatRule(rule)); err != nil {
		return err
	}
	sanitised, _, err := cnf.Sanitise(rule)
	if err != nil {
		return errors.Wrap(err, "proof: added clause is tautological")
	}
	key := ruleKey(sanitised)
	if _, exists := t.ruleToIndex[key]; exists {
		return nil
	}
	t.addLiveRule(sanitised)
	return nil
}

func (t *Translator) equivalenceDirective(edrat *Scanner) error {
	a, err := edrat.Int()
	if err != nil {
		return err
	}
	b, err := edrat.Literal()
	if err != nil {
		return err
	}
	zero, err := edrat.Int()
	if err != nil {
		return err
	}
	if zero != 0 {
		panic("proof: malformed equivalence directive, expected trailing 0")
	}
	atom := cnf.Atom(a)
	pos := cnf.NewLiteral(atom, cnf.Positive)
	neg := cnf.NewLiteral(atom, cnf.Negative)

	if err := t.writeLine(fmt.Sprintf("%d %d 0", int32(neg), int32(b))); err != nil {
		return err
	}
	if err := t.writeLine(fmt.Sprintf("%d %d 0", int32(pos), int32(b.Negate()))); err != nil {
		return err
	}
	// Order matters here only insofar as it matches the original
	// derivation's own iteration order; the two substitutions are
	// otherwise independent.
	if err := t.replace(neg, b.Negate()); err != nil {
		return err
	}
	if err := t.replace(pos, b); err != nil {
		return err
	}
	if err := t.writeLine(fmt.Sprintf("d %d %d 0", int32(neg), int32(b))); err != nil {
		return err
	}
	return t.writeLine(fmt.Sprintf("d %d %d 0", int32(pos), int32(b.Negate())))
}

// replace rewrites every rule currently watching literal a, substituting
// b for a throughout. A rewrite that turns out tautological, or that
// collides with an already-live rule, is dropped instead of kept
// (spec §4.7): either way the old rule's defining clause is deleted.
func (t *Translator) replace(a, b cnf.Literal) error {
	watchers := t.literalToRule[a]
	delete(t.literalToRule, a)
	for idx := range watchers {
		oldRule := t.indexToRule[idx]
		substituted := make([]cnf.Literal, len(oldRule))
		for i, x := range oldRule {
			if x == a {
				substituted[i] = b
			} else {
				substituted[i] = x
			}
		}
		newRule, _, err := cnf.Sanitise(substituted)

		var keep cnf.Rule
		if err == nil {
			if _, dup := t.ruleToIndex[ruleKey(newRule)]; !dup {
				keep = newRule
			}
		}

		if keep != nil {
			if err := t.writeLine(FormatRule(keep)); err != nil {
				return err
			}
			t.indexToRule[idx] = keep
			t.addWatch(b, idx)
			t.ruleToIndex[ruleKey(keep)] = idx
		} else {
			delete(t.indexToRule, idx)
			for _, x := range oldRule {
				if x != a {
					t.removeWatch(x, idx)
				}
			}
		}

		if err := t.writeLine("d " + FormatRule(oldRule)); err != nil {
			return err
		}
		oldKey := ruleKey(oldRule)
		got, ok := t.ruleToIndex[oldKey]
		if !ok || got != idx {
			panic(fmt.Sprintf("proof: rule_to_index inconsistent for rule %v", oldRule))
		}
		delete(t.ruleToIndex, oldKey)
	}
	return nil
}
