package version

import (
	"strings"

	"github.com/shinji-kodama/chakra/internal/model"
)

// operators lists the supported comparison operators, longest first so that
// prefix matching picks ">=" before ">".
var operators = []string{"~=", "==", "!=", ">=", "<=", ">", "<"}

// clause is one "<op><version>" term of a constraint.
type clause struct {
	op      string
	version Version

	// wildcard is set for "==X.Y.*" and "!=X.Y.*" terms.
	wildcard bool
}

// Constraint is a comma-separated conjunction of version clauses, such as the
// value of requires-python (">=3.8, <4"). The zero value allows every version.
type Constraint struct {
	raw     string
	clauses []clause
}

// ParseConstraint parses a requires-python style constraint. Whitespace around
// clauses and operators is ignored. An empty string yields a constraint that
// allows everything.
func ParseConstraint(text string) (Constraint, error) {
	c := Constraint{raw: strings.TrimSpace(text)}
	if c.raw == "" {
		return c, nil
	}

	for _, term := range strings.Split(c.raw, ",") {
		term = strings.TrimSpace(term)
		op := ""
		for _, candidate := range operators {
			if strings.HasPrefix(term, candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			return Constraint{}, &model.FormatError{Kind: "version constraint", Input: text, Reason: "missing comparison operator in " + term}
		}

		operand := strings.TrimSpace(strings.TrimPrefix(term, op))
		wildcard := false
		if strings.HasSuffix(operand, ".*") && (op == "==" || op == "!=") {
			operand = strings.TrimSuffix(operand, ".*")
			wildcard = true
		}

		v, err := Parse(operand)
		if err != nil {
			return Constraint{}, err
		}
		if op == "~=" && v.parts < 2 {
			return Constraint{}, &model.FormatError{Kind: "version constraint", Input: text, Reason: "~= needs at least two components"}
		}
		c.clauses = append(c.clauses, clause{op: op, version: v, wildcard: wildcard})
	}
	return c, nil
}

// String returns the constraint as written.
func (c Constraint) String() string {
	return c.raw
}

// Allows reports whether v satisfies every clause.
func (c Constraint) Allows(v Version) bool {
	for _, cl := range c.clauses {
		if !cl.allows(v) {
			return false
		}
	}
	return true
}

func (cl clause) allows(v Version) bool {
	// Outside wildcards, missing components count as zero: "3.8" is 3.8.0.
	c := Compare(v.pad(), cl.version.pad())
	switch cl.op {
	case "==":
		if cl.wildcard {
			return Compare(v.truncate(cl.version.parts), cl.version) == 0
		}
		return c == 0
	case "!=":
		if cl.wildcard {
			return Compare(v.truncate(cl.version.parts), cl.version) != 0
		}
		return c != 0
	case ">=":
		return c >= 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case "<":
		return c < 0
	case "~=":
		// ~=X.Y means >=X.Y and ==X.*
		prefix := cl.version.truncate(cl.version.parts - 1)
		return c >= 0 && Compare(v.truncate(prefix.parts), prefix) == 0
	default:
		return false
	}
}

// pad returns v with every numeric component present; absent ones are zero.
func (v Version) pad() Version {
	v.parts = 3
	return v
}
