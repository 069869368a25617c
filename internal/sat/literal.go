// Package sat implements the CDCL core: a two-watched-literal propagator,
// first-UIP conflict analysis with LBD computation, an activity-ordered
// decision heap with phase saving, and the hook that lets an external
// continuous ("Ising") signal steer decisions.
package sat

import "fmt"

// Literal is a nonzero signed integer. A positive value asserts its
// variable true, a negative value asserts it false. Variable ids run
// 1..V; Literal 0 never occurs.
type Literal int32

// Var returns the variable id of the literal, i.e. |l|.
func (l Literal) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Opposite returns the complementary literal -l.
func (l Literal) Opposite() Literal {
	return -l
}

// IsPositive reports whether the literal asserts its variable true.
func (l Literal) IsPositive() bool {
	return l > 0
}

func (l Literal) String() string {
	return fmt.Sprintf("%d", int(l))
}
