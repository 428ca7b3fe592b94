package ir

import (
	"fmt"
	"strings"
)

// Opcode identifies an instruction variant.
type Opcode string

const (
	// OpMoveRight advances the cursor by Arg cells, growing the tape on demand.
	OpMoveRight Opcode = "MoveRight"

	// OpMoveLeft retreats the cursor by Arg cells. Fails on underflow.
	OpMoveLeft Opcode = "MoveLeft"

	// OpIncrement adds Arg (mod 256) to the current cell.
	OpIncrement Opcode = "Increment"

	// OpDecrement subtracts Arg (mod 256) from the current cell.
	OpDecrement Opcode = "Decrement"

	// OpOutput writes the current cell to the output stream.
	OpOutput Opcode = "Output"

	// OpInput reads one byte from the input stream into the current cell.
	OpInput Opcode = "Input"

	// OpLoop executes Body repeatedly while the current cell is non-zero.
	OpLoop Opcode = "Loop"

	// OpMoveRightUntilZero scans right in steps of Arg until a zero cell.
	// Rewritten from loops like [>] by the optimizer.
	OpMoveRightUntilZero Opcode = "MoveRightUntilZero"

	// OpMoveLeftUntilZero scans left in steps of Arg until a zero cell.
	// Rewritten from loops like [<] by the optimizer. Fails on underflow.
	OpMoveLeftUntilZero Opcode = "MoveLeftUntilZero"

	// OpSetToZero clears the current cell. Rewritten from [-] and [+].
	OpSetToZero Opcode = "SetToZero"

	// OpWithMultiplier executes Body once with every Increment and Decrement
	// scaled by the current cell's value, then clears the current cell.
	// Rewritten from balanced multiplication loops like [->++>+++<<].
	OpWithMultiplier Opcode = "WithMultiplier"

	// OpMoveValueRight clears the current cell and adds its value (mod 256)
	// into the cell Arg positions to the right, growing the tape on demand.
	// The cursor does not move. Rewritten from loops like [->+<].
	OpMoveValueRight Opcode = "MoveValueRight"

	// OpMoveValueLeft clears the current cell and adds its value (mod 256)
	// into the cell Arg positions to the left. The cursor does not move.
	// Fails on underflow. Rewritten from loops like [-<+>].
	OpMoveValueLeft Opcode = "MoveValueLeft"
)

// HasArg reports whether the opcode carries an integer argument.
func (op Opcode) HasArg() bool {
	switch op {
	case OpMoveRight, OpMoveLeft, OpIncrement, OpDecrement,
		OpMoveRightUntilZero, OpMoveLeftUntilZero,
		OpMoveValueRight, OpMoveValueLeft:
		return true
	}
	return false
}

// HasBody reports whether the opcode carries a nested instruction body.
func (op Opcode) HasBody() bool {
	return op == OpLoop || op == OpWithMultiplier
}

// Instruction is one node of a compiled program.
//
// Arg holds the movement distance, step size, or increment amount for leaf
// opcodes that take one; Body holds the nested program for Loop and
// WithMultiplier. The unused field is always zero-valued.
type Instruction struct {
	Op   Opcode        `json:"op"`
	Arg  int           `json:"arg,omitempty"`
	Body []Instruction `json:"body,omitempty"`
}

// String renders the instruction in compact debug form, e.g. "MoveRight(3)",
// "Output", or "Loop([Decrement(1), MoveRight(1)])".
func (in Instruction) String() string {
	switch {
	case in.Op.HasBody():
		parts := make([]string, len(in.Body))
		for i, nested := range in.Body {
			parts[i] = nested.String()
		}
		return fmt.Sprintf("%s([%s])", in.Op, strings.Join(parts, ", "))
	case in.Op.HasArg():
		return fmt.Sprintf("%s(%d)", in.Op, in.Arg)
	default:
		return string(in.Op)
	}
}

// Count returns the total number of instructions in the program,
// including those nested inside loop bodies.
func Count(program []Instruction) int {
	n := 0
	for _, in := range program {
		n++
		n += Count(in.Body)
	}
	return n
}

// Listing renders a program as an indented multi-line listing, one
// instruction per line with loop bodies nested in braces. Used by the
// compile command's text output.
func Listing(program []Instruction) string {
	var b strings.Builder
	writeListing(&b, program, 0)
	return b.String()
}

func writeListing(b *strings.Builder, program []Instruction, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, in := range program {
		if in.Op.HasBody() {
			fmt.Fprintf(b, "%s%s {\n", indent, in.Op)
			writeListing(b, in.Body, depth+1)
			fmt.Fprintf(b, "%s}\n", indent)
			continue
		}
		if in.Op.HasArg() {
			fmt.Fprintf(b, "%s%s(%d)\n", indent, in.Op, in.Arg)
			continue
		}
		fmt.Fprintf(b, "%s%s\n", indent, in.Op)
	}
}
