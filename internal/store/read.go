package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tburk/tapevm/internal/query"
)

// ErrRunNotFound reports a token with no archived run.
var ErrRunNotFound = errors.New("store: run not found")

// ListRuns returns all archived runs.
// Ordered by token ascending: tokens are UUIDv7, so the listing is
// chronological and deterministic at once.
//
// Returns an empty slice (not nil) when the archive is empty.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, program, source_hash, optimized, steps, op_counts,
		       output_bytes, tape_capacity, duration_us, engine_version, ir_version
		FROM runs
		ORDER BY token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// FindRuns returns the archived runs matching filter, ordered like
// ListRuns. The filter compiles to a parameterized WHERE clause; see
// package query for what can be expressed.
func (s *Store) FindRuns(ctx context.Context, filter query.Predicate) ([]Run, error) {
	where, params, err := query.CompileWhere(filter)
	if err != nil {
		return nil, fmt.Errorf("find runs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT token, program, source_hash, optimized, steps, op_counts,
		       output_bytes, tape_capacity, duration_us, engine_version, ir_version
		FROM runs
		WHERE `+where+`
		ORDER BY token ASC
	`, params...)
	if err != nil {
		return nil, fmt.Errorf("find runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// GetRun returns the archived run for a token, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, token string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, program, source_hash, optimized, steps, op_counts,
		       output_bytes, tape_capacity, duration_us, engine_version, ir_version
		FROM runs
		WHERE token = ?
	`, token)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, token)
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var countsJSON string

	err := sc.Scan(
		&run.Token,
		&run.Program,
		&run.SourceHash,
		&run.Optimized,
		&run.Steps,
		&countsJSON,
		&run.OutputBytes,
		&run.TapeCapacity,
		&run.DurationMicros,
		&run.EngineVersion,
		&run.IRVersion,
	)
	if err != nil {
		return Run{}, err
	}

	if err := json.Unmarshal([]byte(countsJSON), &run.OpCounts); err != nil {
		return Run{}, fmt.Errorf("unmarshal op counts for %s: %w", run.Token, err)
	}
	return run, nil
}
