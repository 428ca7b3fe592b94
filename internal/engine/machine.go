package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tburk/tapevm/internal/ir"
	"github.com/tburk/tapevm/internal/tape"
)

// EOFMode selects what happens to the current cell when an Input
// instruction hits end of input. The input stager itself always leaves the
// cell untouched and reports the condition; the machine applies the mode.
type EOFMode string

const (
	// EOFLeave keeps the cell's prior value. The default.
	EOFLeave EOFMode = "leave"

	// EOFZero writes 0 into the cell.
	EOFZero EOFMode = "zero"

	// EOFHighBit writes 255 into the cell, the byte reading of the
	// traditional getchar() == -1 convention.
	EOFHighBit EOFMode = "eof255"
)

// ParseEOFMode validates a mode name from a flag or profile.
func ParseEOFMode(s string) (EOFMode, error) {
	switch EOFMode(s) {
	case EOFLeave, EOFZero, EOFHighBit:
		return EOFMode(s), nil
	}
	return "", fmt.Errorf("invalid eof mode %q: must be one of leave, zero, eof255", s)
}

// Machine executes compiled programs against a tape.
//
// A machine owns its tape, its input stager, and its output writer for the
// duration of a run. It is single-use state in the sense that the tape
// persists across Run calls (capacity never shrinks), but typical drivers
// create one machine per program execution.
//
// Not safe for concurrent use.
type Machine struct {
	tape     *tape.Tape
	in       *tape.InputStager
	out      io.Writer
	eofMode  EOFMode
	maxSteps int64
	tokenGen RunTokenGenerator
	logger   *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithInitialCapacity sets the tape's starting cell count.
// Rounded up to a power of two. Default: tape.DefaultCapacity.
func WithInitialCapacity(cells int) Option {
	return func(m *Machine) {
		m.tape = tape.New(cells)
	}
}

// WithEOFMode sets the end-of-input convention. Default: EOFLeave.
func WithEOFMode(mode EOFMode) Option {
	return func(m *Machine) {
		m.eofMode = mode
	}
}

// WithMaxSteps caps the number of executed instructions. 0 means no limit.
// Use a small cap when executing untrusted or possibly-looping programs.
func WithMaxSteps(n int64) Option {
	return func(m *Machine) {
		m.maxSteps = n
	}
}

// WithTokenGenerator overrides the run token generator (for testing).
func WithTokenGenerator(g RunTokenGenerator) Option {
	return func(m *Machine) {
		m.tokenGen = g
	}
}

// WithLogger overrides the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// New creates a machine reading input bytes from in and writing output
// bytes to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Machine {
	m := &Machine{
		tape:     tape.New(tape.DefaultCapacity),
		in:       tape.NewInputStager(in),
		out:      out,
		eofMode:  EOFLeave,
		tokenGen: UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tape exposes the machine's tape for inspection between runs.
func (m *Machine) Tape() *tape.Tape {
	return m.tape
}

// Report summarizes one program execution.
type Report struct {
	// Token is the run token stamped on this execution.
	Token string `json:"token"`

	// Steps is the total number of instructions executed, loop
	// iterations included.
	Steps int64 `json:"steps"`

	// OpCounts breaks Steps down per opcode.
	OpCounts map[ir.Opcode]int64 `json:"op_counts"`

	// OutputBytes is the number of bytes written to the output stream.
	OutputBytes int64 `json:"output_bytes"`

	// TapeCapacity is the final cell count, after any growth.
	TapeCapacity int `json:"tape_capacity"`

	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration"`
}

// Run executes program to completion and returns its report.
//
// The context is checked at loop back-edges; cancellation surfaces as
// ctx.Err(). On a RuntimeError the report is returned alongside the error
// so callers can still record the partial run.
func (m *Machine) Run(ctx context.Context, program []ir.Instruction) (*Report, error) {
	rpt := &Report{
		Token:    m.tokenGen.Generate(),
		OpCounts: make(map[ir.Opcode]int64),
	}

	m.logger.Debug("run starting",
		"token", rpt.Token,
		"instructions", ir.Count(program),
		"capacity", m.tape.Cap())

	start := time.Now()
	err := m.exec(ctx, program, rpt, 1)
	rpt.Duration = time.Since(start)
	rpt.TapeCapacity = m.tape.Cap()

	if err != nil {
		m.logger.Debug("run failed", "token", rpt.Token, "steps", rpt.Steps, "error", err)
		return rpt, err
	}

	m.logger.Debug("run finished",
		"token", rpt.Token,
		"steps", rpt.Steps,
		"output_bytes", rpt.OutputBytes,
		"capacity", rpt.TapeCapacity,
		"duration", rpt.Duration)
	return rpt, nil
}

// exec walks one instruction sequence. multiplier scales Increment and
// Decrement amounts; it is 1 everywhere except inside WithMultiplier
// bodies, which the optimizer builds flat (moves and cell changes only).
func (m *Machine) exec(ctx context.Context, program []ir.Instruction, rpt *Report, multiplier byte) error {
	for _, in := range program {
		// Loops are counted per iteration below, so an empty loop body
		// still burns quota instead of spinning forever.
		if in.Op != ir.OpLoop {
			if err := m.step(in.Op, rpt); err != nil {
				return err
			}
		}

		switch in.Op {
		case ir.OpMoveRight:
			m.tape.MoveRight(in.Arg)

		case ir.OpMoveLeft:
			if err := m.tape.MoveLeft(in.Arg); err != nil {
				return newUnderflowError(string(in.Op), rpt.Steps, err)
			}

		case ir.OpIncrement:
			m.tape.Add(byte(in.Arg) * multiplier)

		case ir.OpDecrement:
			m.tape.Add(-(byte(in.Arg) * multiplier))

		case ir.OpOutput:
			if _, err := m.out.Write([]byte{m.tape.Cell()}); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			rpt.OutputBytes++

		case ir.OpInput:
			err := m.in.FetchByte(m.tape.Cells(), m.tape.Cursor())
			switch {
			case err == nil:
			case errors.Is(err, tape.ErrEndOfInput):
				m.applyEOF()
			default:
				return err
			}

		case ir.OpLoop:
			for m.tape.Cell() != 0 {
				if err := m.step(in.Op, rpt); err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := m.exec(ctx, in.Body, rpt, multiplier); err != nil {
					return err
				}
			}

		case ir.OpMoveRightUntilZero:
			m.tape.MoveRightUntilZero(in.Arg)

		case ir.OpMoveLeftUntilZero:
			if err := m.tape.MoveLeftUntilZero(in.Arg); err != nil {
				return newUnderflowError(string(in.Op), rpt.Steps, err)
			}

		case ir.OpSetToZero:
			m.tape.SetCell(0)

		case ir.OpWithMultiplier:
			// The counter cell's value scales every cell change in the
			// body; afterwards the counter reads zero, exactly as the
			// original loop would have left it.
			if err := m.exec(ctx, in.Body, rpt, m.tape.Cell()); err != nil {
				return err
			}
			m.tape.SetCell(0)

		case ir.OpMoveValueRight:
			m.tape.MoveValueRight(m.tape.Cursor(), in.Arg)

		case ir.OpMoveValueLeft:
			if err := m.tape.MoveValueLeft(m.tape.Cursor(), in.Arg); err != nil {
				return newUnderflowError(string(in.Op), rpt.Steps, err)
			}

		default:
			return fmt.Errorf("unknown opcode %q", in.Op)
		}
	}
	return nil
}

// step records one executed instruction (or loop iteration) and enforces
// the step quota.
func (m *Machine) step(op ir.Opcode, rpt *Report) error {
	rpt.Steps++
	rpt.OpCounts[op]++
	if m.maxSteps > 0 && rpt.Steps > m.maxSteps {
		return newQuotaError(string(op), rpt.Steps, m.maxSteps)
	}
	return nil
}

// applyEOF implements the configured end-of-input convention.
func (m *Machine) applyEOF() {
	switch m.eofMode {
	case EOFZero:
		m.tape.SetCell(0)
	case EOFHighBit:
		m.tape.SetCell(255)
	default:
		// EOFLeave: cell keeps its prior value.
	}
}
