package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramHash_KnownVector(t *testing.T) {
	// Pins the hash format: SHA256("tapevm/program/v1" + 0x00 + canonical
	// JSON). If this breaks, archived source_hash values stop matching.
	program := []Instruction{
		{Op: OpIncrement, Arg: 1},
		{Op: OpOutput},
	}

	hash, err := ProgramHash(program)
	require.NoError(t, err)
	assert.Equal(t, "71aed50351877130cd402480dafadf139fc0b57f86f1d7202f4a396f1be5e422", hash)
}

func TestProgramHash_Deterministic(t *testing.T) {
	program := []Instruction{
		{Op: OpIncrement, Arg: 3},
		{Op: OpLoop, Body: []Instruction{
			{Op: OpDecrement, Arg: 1},
			{Op: OpMoveRight, Arg: 2},
		}},
	}

	first, err := ProgramHash(program)
	require.NoError(t, err)
	second, err := ProgramHash(program)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64, "hex SHA-256")
}

func TestProgramHash_SensitiveToStructure(t *testing.T) {
	base := []Instruction{{Op: OpIncrement, Arg: 1}}
	differentArg := []Instruction{{Op: OpIncrement, Arg: 2}}
	differentOp := []Instruction{{Op: OpDecrement, Arg: 1}}

	baseHash, err := ProgramHash(base)
	require.NoError(t, err)
	argHash, err := ProgramHash(differentArg)
	require.NoError(t, err)
	opHash, err := ProgramHash(differentOp)
	require.NoError(t, err)

	assert.NotEqual(t, baseHash, argHash)
	assert.NotEqual(t, baseHash, opHash)
}

func TestProgramHash_EmptyProgram(t *testing.T) {
	hash, err := ProgramHash(nil)
	require.NoError(t, err)
	assert.Len(t, hash, 64)
}
