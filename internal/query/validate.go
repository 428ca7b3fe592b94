package query

import "fmt"

// columnKind classifies a runs column for type checking.
type columnKind int

const (
	textColumn columnKind = iota
	intColumn
	boolColumn
)

// columns is the allowlist of filterable runs columns. Column names used
// in SQL come from here and nowhere else.
var columns = map[string]columnKind{
	"token":          textColumn,
	"program":        textColumn,
	"source_hash":    textColumn,
	"optimized":      boolColumn,
	"steps":          intColumn,
	"output_bytes":   intColumn,
	"tape_capacity":  intColumn,
	"engine_version": textColumn,
	"ir_version":     textColumn,
}

// Validate checks a predicate tree against the runs schema: every column
// must exist, every value must match its column's type, and conjunctions
// must not be empty.
//
// Validate is a pure function with no side effects.
func Validate(p Predicate) error {
	switch pred := p.(type) {
	case nil:
		return fmt.Errorf("nil predicate")

	case Equals:
		kind, ok := columns[pred.Column]
		if !ok {
			return fmt.Errorf("unknown column %q", pred.Column)
		}
		return checkValue(pred.Column, kind, pred.Value)

	case AtLeast:
		kind, ok := columns[pred.Column]
		if !ok {
			return fmt.Errorf("unknown column %q", pred.Column)
		}
		if kind != intColumn {
			return fmt.Errorf("column %q does not support lower bounds", pred.Column)
		}
		return nil

	case And:
		if len(pred.Predicates) == 0 {
			return fmt.Errorf("empty conjunction")
		}
		for _, child := range pred.Predicates {
			if err := Validate(child); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported predicate type %T", p)
	}
}

func checkValue(column string, kind columnKind, value any) error {
	switch kind {
	case textColumn:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("column %q needs a string, got %T", column, value)
		}
	case intColumn:
		switch value.(type) {
		case int, int64:
		default:
			return fmt.Errorf("column %q needs an integer, got %T", column, value)
		}
	case boolColumn:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("column %q needs a bool, got %T", column, value)
		}
	}
	return nil
}
