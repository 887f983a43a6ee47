package semver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Constraint is a parsed version-constraint expression: exact (=x.y.z),
// caret (^x.y.z), tilde (~x.y.z), comparator (>=, <, ...), and union (||).
type Constraint struct {
	raw string
	c   *semver.Constraints
}

// ParseConstraint parses expr. Returns InvalidConstraintError on malformed input.
func ParseConstraint(expr string) (Constraint, error) {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return Constraint{}, &InvalidConstraintError{Raw: expr, Cause: err}
	}
	return Constraint{raw: expr, c: c}, nil
}

// MustParseConstraint is ParseConstraint, panicking on error.
func MustParseConstraint(expr string) Constraint {
	c, err := ParseConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the original constraint expression.
func (c Constraint) String() string { return c.raw }

// Check evaluates the constraint against v.
func (c Constraint) Check(v Version) bool {
	if c.c == nil {
		return true
	}
	return c.c.Check(v.v)
}

// InvalidConstraintError is returned when a constraint expression cannot be parsed.
type InvalidConstraintError struct {
	Raw   string
	Cause error
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %q: %v", e.Raw, e.Cause)
}

func (e *InvalidConstraintError) Unwrap() error { return e.Cause }
