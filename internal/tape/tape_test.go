package tape

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{255, 256},
		{256, 256},
		{257, 512},
		{1 << 20, 1 << 20},
		{1<<20 + 1, 1 << 21},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nextPowerOfTwo(tt.n), "nextPowerOfTwo(%d)", tt.n)
	}
}

func TestNew_RoundsToPowerOfTwo(t *testing.T) {
	tests := []struct {
		initial int
		wantCap int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{100, 128},
		{256, 256},
	}

	for _, tt := range tests {
		tp := New(tt.initial)
		assert.Equal(t, tt.wantCap, tp.Cap(), "New(%d)", tt.initial)
		assert.Equal(t, 0, tp.Cursor())
		assert.Equal(t, byte(0), tp.Cell())
	}
}

func TestMoveRight_GrowsAndZeroFills(t *testing.T) {
	tp := New(1)
	tp.SetCell(5)

	tp.MoveRight(3)

	assert.Equal(t, 3, tp.Cursor())
	assert.Equal(t, 4, tp.Cap(), "nextPowerOfTwo(4) = 4")
	assert.Equal(t, byte(5), tp.At(0), "growth must preserve written data")
	assert.Equal(t, byte(0), tp.At(1))
	assert.Equal(t, byte(0), tp.At(2))
	assert.Equal(t, byte(0), tp.At(3))
}

func TestMoveRight_NoGrowthWithinCapacity(t *testing.T) {
	tp := New(8)
	tp.MoveRight(3)

	assert.Equal(t, 3, tp.Cursor())
	assert.Equal(t, 8, tp.Cap())
}

func TestMoveRight_ZeroAmount(t *testing.T) {
	tp := New(1)
	tp.MoveRight(0)

	assert.Equal(t, 0, tp.Cursor())
	assert.Equal(t, 1, tp.Cap())
}

func TestMoveRight_GrowthPreservesData(t *testing.T) {
	tp := New(1)

	// Write a recognizable pattern while repeatedly forcing growth.
	for i := 0; i < 100; i++ {
		tp.SetCell(byte(i + 1))
		tp.MoveRight(1)
	}

	assert.GreaterOrEqual(t, tp.Cap(), 101)
	for i := 0; i < 100; i++ {
		assert.Equal(t, byte(i+1), tp.At(i), "cell %d", i)
	}
	assert.Equal(t, byte(0), tp.Cell(), "never-written cell reads zero")
}

func TestInvariants_CapacityPowerOfTwoAboveCursor(t *testing.T) {
	tp := New(1)

	moves := []int{1, 7, 0, 100, 3, 1000, 1}
	for _, m := range moves {
		tp.MoveRight(m)
		assert.Equal(t, 1, bits.OnesCount(uint(tp.Cap())), "capacity %d must be a power of two", tp.Cap())
		assert.Greater(t, tp.Cap(), tp.Cursor())
	}
}

func TestMoveLeft(t *testing.T) {
	tp := New(8)
	tp.MoveRight(5)

	require.NoError(t, tp.MoveLeft(3))
	assert.Equal(t, 2, tp.Cursor())

	err := tp.MoveLeft(3)
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, 2, tp.Cursor(), "cursor unchanged on underflow")

	require.NoError(t, tp.MoveLeft(2))
	assert.Equal(t, 0, tp.Cursor())
}

func TestMoveRightUntilZero_StopsOnZeroCell(t *testing.T) {
	tp := New(8)
	tp.SetAt(0, 3)
	tp.SetAt(1, 7)
	tp.SetAt(2, 9)
	// cell 3 is zero

	tp.MoveRightUntilZero(1)

	assert.Equal(t, 3, tp.Cursor())
	assert.Equal(t, byte(0), tp.Cell())
	assert.Equal(t, 8, tp.Cap(), "no growth needed")
}

func TestMoveRightUntilZero_AlreadyOnZero(t *testing.T) {
	tp := New(4)
	tp.MoveRightUntilZero(1)

	assert.Equal(t, 0, tp.Cursor(), "scan from a zero cell does not move")
}

func TestMoveRightUntilZero_StepSize(t *testing.T) {
	tp := New(8)
	// Non-zero at even indices 0, 2; zero at 4.
	tp.SetAt(0, 1)
	tp.SetAt(2, 1)
	tp.SetAt(3, 99) // skipped over, must not matter

	tp.MoveRightUntilZero(2)

	assert.Equal(t, 4, tp.Cursor())
	assert.Equal(t, byte(0), tp.Cell())
}

func TestMoveRightUntilZero_TerminatesViaGrowth(t *testing.T) {
	tp := New(4)
	for i := 0; i < 4; i++ {
		tp.SetAt(i, 1)
	}

	tp.MoveRightUntilZero(1)

	// The scan walks off the old end, grows once, and stops in the
	// freshly zero-filled region.
	assert.Equal(t, 4, tp.Cursor())
	assert.Equal(t, 8, tp.Cap())
	assert.Equal(t, byte(0), tp.Cell())
	for i := 0; i < 4; i++ {
		assert.Equal(t, byte(1), tp.At(i), "scan must not clobber cells")
	}
}

func TestMoveLeftUntilZero_LandsOnZero(t *testing.T) {
	tp := New(4)
	tp.SetAt(0, 3)
	tp.SetAt(2, 7)
	tp.MoveRight(2) // cursor=2, value 7; cell 1 is zero

	require.NoError(t, tp.MoveLeftUntilZero(1))
	assert.Equal(t, 1, tp.Cursor())
	assert.Equal(t, byte(0), tp.Cell())
}

func TestMoveLeftUntilZero_NoopOnZeroCell(t *testing.T) {
	tp := New(1)

	// cell 0 is zero: the loop body never runs, no underflow even though
	// cursor < step.
	require.NoError(t, tp.MoveLeftUntilZero(1))
	assert.Equal(t, 0, tp.Cursor())
}

func TestMoveLeftUntilZero_Underflow(t *testing.T) {
	tp := New(1)
	tp.SetCell(9)

	err := tp.MoveLeftUntilZero(1)
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, 0, tp.Cursor(), "cursor unchanged on underflow")
	assert.Equal(t, byte(9), tp.Cell(), "cell unchanged on underflow")
}

func TestMoveLeftUntilZero_UnderflowMidScan(t *testing.T) {
	tp := New(4)
	tp.SetAt(0, 1)
	tp.SetAt(1, 1)
	tp.SetAt(2, 1)
	tp.MoveRight(2)

	// Every cell down to 0 is non-zero: stepping below 0 must fail and
	// the cursor must not be corrupted by the partial walk.
	err := tp.MoveLeftUntilZero(1)
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, 2, tp.Cursor())
}

func TestMoveLeftUntilZero_NeverGrows(t *testing.T) {
	tp := New(4)
	tp.SetAt(2, 5)
	tp.MoveRight(2)

	require.NoError(t, tp.MoveLeftUntilZero(1))
	assert.Equal(t, 4, tp.Cap())
}

func TestMoveValueRight_Accumulates(t *testing.T) {
	tp := New(8)
	tp.SetAt(1, 5)
	tp.SetAt(3, 10)

	tp.MoveValueRight(1, 2)

	assert.Equal(t, byte(0), tp.At(1), "source cleared")
	assert.Equal(t, byte(15), tp.At(3), "destination accumulates")
	assert.Equal(t, 0, tp.Cursor(), "cursor does not move")
}

func TestMoveValueRight_WrapsModulo256(t *testing.T) {
	tp := New(4)
	tp.SetAt(0, 200)
	tp.SetAt(1, 100)

	tp.MoveValueRight(0, 1)

	assert.Equal(t, byte(0), tp.At(0))
	assert.Equal(t, byte(44), tp.At(1), "(200+100) mod 256")
}

func TestMoveValueRight_Grows(t *testing.T) {
	tp := New(2)
	tp.SetAt(1, 7)

	tp.MoveValueRight(1, 4)

	assert.Equal(t, 8, tp.Cap(), "nextPowerOfTwo(6) = 8")
	assert.Equal(t, byte(0), tp.At(1))
	assert.Equal(t, byte(7), tp.At(5))
}

func TestMoveValueLeft(t *testing.T) {
	tp := New(8)
	tp.SetAt(4, 9)
	tp.SetAt(1, 2)

	require.NoError(t, tp.MoveValueLeft(4, 3))
	assert.Equal(t, byte(0), tp.At(4))
	assert.Equal(t, byte(11), tp.At(1))
}

func TestMoveValueLeft_Underflow(t *testing.T) {
	tp := New(8)
	tp.SetAt(2, 9)

	err := tp.MoveValueLeft(2, 3)
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, byte(9), tp.At(2), "state unchanged on underflow")
}

func TestCells_ReflectsGrowth(t *testing.T) {
	tp := New(1)
	before := tp.Cells()
	assert.Len(t, before, 1)

	tp.MoveRight(10)

	after := tp.Cells()
	assert.Len(t, after, tp.Cap())
	assert.Equal(t, 16, len(after))
}
