package query

import (
	"fmt"
	"strings"
)

// CompileWhere converts a validated predicate tree to a parameterized SQL
// fragment for the runs table. Returns (sql, params, error).
//
// Values are always parameterized, never interpolated; the only
// identifiers in the fragment are allowlisted column names. The caller
// appends a deterministic ORDER BY.
func CompileWhere(p Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, fmt.Errorf("cannot compile nil predicate")
	}
	if err := Validate(p); err != nil {
		return "", nil, fmt.Errorf("invalid filter: %w", err)
	}
	return compile(p)
}

func compile(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case Equals:
		return fmt.Sprintf("%s = ?", pred.Column), []any{pred.Value}, nil

	case AtLeast:
		return fmt.Sprintf("%s >= ?", pred.Column), []any{pred.Value}, nil

	case And:
		parts := make([]string, 0, len(pred.Predicates))
		var params []any
		for _, child := range pred.Predicates {
			sql, childParams, err := compile(child)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "("+sql+")")
			params = append(params, childParams...)
		}
		return strings.Join(parts, " AND "), params, nil

	default:
		return "", nil, fmt.Errorf("unsupported predicate type %T", p)
	}
}
