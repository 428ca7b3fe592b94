package store

import (
	"context"
	"fmt"

	"github.com/tburk/tapevm/internal/ir"
)

// Run is one archived program execution.
type Run struct {
	// Token is the engine's run token (UUIDv7) and the primary key.
	Token string `json:"token"`

	// Program identifies what ran: a file path or scenario name.
	Program string `json:"program"`

	// SourceHash is the source-addressed program identity
	// (ir.ProgramHash of the executed instructions).
	SourceHash string `json:"source_hash"`

	// Optimized records whether the optimizer ran.
	Optimized bool `json:"optimized"`

	// Steps is the total instruction count executed.
	Steps int64 `json:"steps"`

	// OpCounts breaks Steps down per opcode name.
	OpCounts map[string]int64 `json:"op_counts"`

	// OutputBytes is the number of bytes the program wrote.
	OutputBytes int64 `json:"output_bytes"`

	// TapeCapacity is the final tape cell count.
	TapeCapacity int64 `json:"tape_capacity"`

	// DurationMicros is the wall-clock execution time in microseconds.
	// Diagnostic only - nothing orders by it.
	DurationMicros int64 `json:"duration_us"`

	// EngineVersion and IRVersion pin the producing toolchain.
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

// RecordRun inserts a run record.
// Uses ON CONFLICT(token) DO NOTHING for idempotency - re-recording the
// same token is silently ignored. Other constraint violations still
// return errors.
//
// OpCounts are serialized to canonical JSON so identical runs produce
// byte-identical rows.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	countsJSON, err := marshalOpCounts(run.OpCounts)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(token, program, source_hash, optimized, steps, op_counts,
		 output_bytes, tape_capacity, duration_us, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.Program,
		run.SourceHash,
		run.Optimized,
		run.Steps,
		countsJSON,
		run.OutputBytes,
		run.TapeCapacity,
		run.DurationMicros,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	return nil
}

// marshalOpCounts serializes opcode counts to canonical JSON.
func marshalOpCounts(counts map[string]int64) (string, error) {
	obj := make(map[string]any, len(counts))
	for op, n := range counts {
		obj[op] = n
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal op counts: %w", err)
	}
	return string(data), nil
}
