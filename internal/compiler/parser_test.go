package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tburk/tapevm/internal/ir"
)

func TestParse_FoldsRuns(t *testing.T) {
	program, err := Parse(">>> <<% ++++ --")
	require.NoError(t, err)

	assert.Equal(t, []ir.Instruction{
		{Op: ir.OpMoveRight, Arg: 3},
		{Op: ir.OpMoveLeft, Arg: 2},
		{Op: ir.OpIncrement, Arg: 4},
		{Op: ir.OpDecrement, Arg: 2},
	}, program)
}

func TestParse_RunsInterruptedByComments(t *testing.T) {
	// Comments between commands do not break a run.
	program, err := Parse("+ plus + plus +")
	require.NoError(t, err)

	assert.Equal(t, []ir.Instruction{{Op: ir.OpIncrement, Arg: 3}}, program)
}

func TestParse_IncrementWrapsModulo256(t *testing.T) {
	src := ""
	for i := 0; i < 257; i++ {
		src += "+"
	}

	program, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, program, 1)
	assert.Equal(t, ir.OpIncrement, program[0].Op)
	assert.Equal(t, 1, program[0].Arg, "257 mod 256")
}

func TestParse_OutputInput(t *testing.T) {
	program, err := Parse(".,")
	require.NoError(t, err)

	assert.Equal(t, []ir.Instruction{
		{Op: ir.OpOutput},
		{Op: ir.OpInput},
	}, program)
}

func TestParse_NestedLoops(t *testing.T) {
	program, err := Parse("+[->[+]<]")
	require.NoError(t, err)

	require.Len(t, program, 2)
	assert.Equal(t, ir.Instruction{Op: ir.OpIncrement, Arg: 1}, program[0])

	outer := program[1]
	assert.Equal(t, ir.OpLoop, outer.Op)
	require.Len(t, outer.Body, 4)
	assert.Equal(t, ir.OpDecrement, outer.Body[0].Op)
	assert.Equal(t, ir.OpMoveRight, outer.Body[1].Op)

	inner := outer.Body[2]
	assert.Equal(t, ir.OpLoop, inner.Op)
	assert.Equal(t, []ir.Instruction{{Op: ir.OpIncrement, Arg: 1}}, inner.Body)

	assert.Equal(t, ir.OpMoveLeft, outer.Body[3].Op)
}

func TestParse_EmptyLoop(t *testing.T) {
	program, err := Parse("[]")
	require.NoError(t, err)

	require.Len(t, program, 1)
	assert.Equal(t, ir.OpLoop, program[0].Op)
	assert.Empty(t, program[0].Body)
}

func TestParse_UnexpectedLoopEnd(t *testing.T) {
	_, err := Parse("++\n  ]")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "unexpected loop end at 2:3", perr.Error())
}

func TestParse_UnclosedLoop(t *testing.T) {
	_, err := Parse("+[->+<")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "expected loop end for start at 1:2", perr.Error())
}

func TestParse_UnclosedInnerLoop(t *testing.T) {
	_, err := Parse("[[]")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, Pos{Line: 1, Col: 1}, perr.Pos, "outermost unclosed bracket is reported")
}

func TestParse_EmptySource(t *testing.T) {
	program, err := Parse("just a comment")
	require.NoError(t, err)
	assert.Empty(t, program)
}

func TestCompile_OptimizeFlag(t *testing.T) {
	plain, err := Compile("[-]", false)
	require.NoError(t, err)
	assert.Equal(t, ir.OpLoop, plain[0].Op)

	optimized, err := Compile("[-]", true)
	require.NoError(t, err)
	assert.Equal(t, ir.OpSetToZero, optimized[0].Op)
}
