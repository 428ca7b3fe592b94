package compiler

import (
	"sort"

	"github.com/tburk/tapevm/internal/ir"
)

// Optimize rewrites recognizable loop shapes into dedicated instructions,
// recursing into loop bodies it cannot rewrite:
//
//	[>>>]      -> MoveRightUntilZero(3)
//	[<]        -> MoveLeftUntilZero(1)
//	[-], [+]   -> SetToZero
//	[->+<]     -> MoveValueRight(1)
//	[-<<+>>]   -> MoveValueLeft(2)
//	[->++>+<<] -> WithMultiplier([...])
//
// The input program is not modified; everything the optimizer cannot
// improve passes through untouched.
func Optimize(program []ir.Instruction) []ir.Instruction {
	out := make([]ir.Instruction, 0, len(program))
	for _, in := range program {
		if in.Op != ir.OpLoop {
			out = append(out, in)
			continue
		}
		out = append(out, optimizeLoop(in))
	}
	return out
}

func optimizeLoop(loop ir.Instruction) ir.Instruction {
	body := loop.Body

	if len(body) == 1 {
		switch only := body[0]; only.Op {
		case ir.OpMoveRight:
			return ir.Instruction{Op: ir.OpMoveRightUntilZero, Arg: only.Arg}
		case ir.OpMoveLeft:
			return ir.Instruction{Op: ir.OpMoveLeftUntilZero, Arg: only.Arg}
		case ir.OpIncrement, ir.OpDecrement:
			if only.Arg == 1 {
				return ir.Instruction{Op: ir.OpSetToZero}
			}
		}
	}

	if rewritten, ok := rewriteTransferLoop(body); ok {
		return rewritten
	}

	return ir.Instruction{Op: ir.OpLoop, Body: Optimize(body)}
}

// rewriteTransferLoop recognizes balanced loops made only of moves and cell
// changes that decrement the counter cell by exactly one per iteration.
// Such a loop adds counter*delta into each touched cell and clears the
// counter, so it collapses into a single pass: MoveValueRight/Left when one
// target cell gains exactly the counter value, WithMultiplier otherwise.
func rewriteTransferLoop(body []ir.Instruction) (ir.Instruction, bool) {
	offset := 0
	deltas := map[int]uint8{}

	for _, in := range body {
		switch in.Op {
		case ir.OpMoveRight:
			offset += in.Arg
		case ir.OpMoveLeft:
			offset -= in.Arg
		case ir.OpIncrement:
			deltas[offset] += uint8(in.Arg)
		case ir.OpDecrement:
			deltas[offset] -= uint8(in.Arg)
		default:
			return ir.Instruction{}, false
		}
	}

	// The cursor must return to the counter cell, and the counter must
	// drop by exactly one per iteration - otherwise the iteration count
	// is not the cell value and the rewrite would be wrong.
	if offset != 0 || deltas[0] != 0xff {
		return ir.Instruction{}, false
	}

	targets := make([]int, 0, len(deltas))
	for off, d := range deltas {
		if off == 0 || d == 0 {
			continue
		}
		targets = append(targets, off)
	}
	if len(targets) == 0 {
		// Pure countdown, e.g. [->-<+] with cancelling changes.
		return ir.Instruction{Op: ir.OpSetToZero}, true
	}
	sort.Ints(targets)

	// Single target gaining exactly the counter value: a plain move.
	if len(targets) == 1 && deltas[targets[0]] == 1 {
		if off := targets[0]; off > 0 {
			return ir.Instruction{Op: ir.OpMoveValueRight, Arg: off}, true
		}
		return ir.Instruction{Op: ir.OpMoveValueLeft, Arg: -targets[0]}, true
	}

	return ir.Instruction{Op: ir.OpWithMultiplier, Body: multiplierBody(targets, deltas)}, true
}

// multiplierBody lays the per-offset deltas out as a walk: step to each
// target in ascending order, apply the scaled change, and step back to the
// counter cell. Deltas above 127 render as decrements for readability of
// dumps; the engine wraps either way.
func multiplierBody(targets []int, deltas map[int]uint8) []ir.Instruction {
	var out []ir.Instruction
	at := 0
	for _, target := range targets {
		out = append(out, moveBy(target-at))
		at = target

		if d := deltas[target]; d <= 127 {
			out = append(out, ir.Instruction{Op: ir.OpIncrement, Arg: int(d)})
		} else {
			out = append(out, ir.Instruction{Op: ir.OpDecrement, Arg: int(-d)})
		}
	}
	out = append(out, moveBy(-at))
	return out
}

func moveBy(distance int) ir.Instruction {
	if distance >= 0 {
		return ir.Instruction{Op: ir.OpMoveRight, Arg: distance}
	}
	return ir.Instruction{Op: ir.OpMoveLeft, Arg: -distance}
}
