package query

// Predicate represents one filter condition over archived runs.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the SQL compiler.
//
// Predicate types:
//   - Equals: column = value
//   - AtLeast: column >= value (numeric columns only)
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals filters rows where a column equals a literal value.
//
// Example:
//
//	Equals{Column: "program", Value: "hello.bf"}
type Equals struct {
	Column string
	Value  any
}

func (Equals) predicateNode() {}

// AtLeast filters rows where a numeric column is >= a lower bound.
//
// Example:
//
//	AtLeast{Column: "steps", Value: 1000}
type AtLeast struct {
	Column string
	Value  int64
}

func (AtLeast) predicateNode() {}

// And filters rows matching every child predicate.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
