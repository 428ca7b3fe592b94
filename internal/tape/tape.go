package tape

import (
	"errors"
	"math/bits"
)

// DefaultCapacity is the initial cell count used by the machine driver.
// Small programs never grow past it.
const DefaultCapacity = 256

// ErrUnderflow reports a leftward movement that would cross below index 0.
// The tape is left unchanged; the caller decides whether that is fatal.
var ErrUnderflow = errors.New("tape: cannot move cursor below cell 0")

// Tape is the growable sequence of byte cells with a cursor.
//
// INVARIANTS:
//   - cap(cells) == len(cells), always a power of two, always > cursor
//   - cells never written by the driver read as zero
//   - capacity grows monotonically; previously written bytes survive growth
//
// The zero value is not usable; construct with New.
type Tape struct {
	cells  []byte
	cursor int
}

// New creates a tape with the cursor at cell 0. The initial capacity is
// rounded up to a power of two, with a minimum of one cell.
func New(initial int) *Tape {
	if initial < 1 {
		initial = 1
	}
	return &Tape{cells: make([]byte, nextPowerOfTwo(initial))}
}

// nextPowerOfTwo returns the smallest power of two >= n.
// nextPowerOfTwo(0) and nextPowerOfTwo(1) are both 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// grow reallocates to newCap cells, preserving existing contents.
// make zero-fills, so the added region [old, newCap) reads as zero.
func (t *Tape) grow(newCap int) {
	grown := make([]byte, newCap)
	copy(grown, t.cells)
	t.cells = grown
}

// Cursor returns the current cell index.
func (t *Tape) Cursor() int {
	return t.cursor
}

// Cap returns the current allocated cell count.
func (t *Tape) Cap() int {
	return len(t.cells)
}

// Cells exposes the backing cell array for direct reads and writes, as the
// input stager requires. Any call that may grow the tape invalidates the
// returned slice; re-fetch it afterwards.
func (t *Tape) Cells() []byte {
	return t.cells
}

// Cell returns the value of the cell under the cursor.
func (t *Tape) Cell() byte {
	return t.cells[t.cursor]
}

// SetCell stores v into the cell under the cursor.
func (t *Tape) SetCell(v byte) {
	t.cells[t.cursor] = v
}

// Add adds delta to the cell under the cursor, wrapping modulo 256.
func (t *Tape) Add(delta byte) {
	t.cells[t.cursor] += delta
}

// At returns the value of cell i. i must be < Cap().
func (t *Tape) At(i int) byte {
	return t.cells[i]
}

// SetAt stores v into cell i. i must be < Cap().
func (t *Tape) SetAt(i int, v byte) {
	t.cells[i] = v
}

// MoveRight advances the cursor by amount cells, growing the tape when the
// new cursor lands at or past the current capacity. The grown region is
// zero-filled and growth happens at most once per call.
func (t *Tape) MoveRight(amount int) {
	t.cursor += amount
	if t.cursor >= len(t.cells) {
		t.grow(nextPowerOfTwo(t.cursor + 1))
	}
}

// MoveLeft retreats the cursor by amount cells. Returns ErrUnderflow,
// leaving the cursor unchanged, if the move would cross below cell 0.
func (t *Tape) MoveLeft(amount int) error {
	if amount > t.cursor {
		return ErrUnderflow
	}
	t.cursor -= amount
	return nil
}

// MoveRightUntilZero advances the cursor in steps of step while the cell
// under it is non-zero, checking before each step, and stops as soon as it
// lands on a zero cell. A step past the end triggers the same grow-and-fill
// as MoveRight; the freshly grown cell reads as zero, so the scan
// terminates immediately after at most one growth.
func (t *Tape) MoveRightUntilZero(step int) {
	for t.cells[t.cursor] != 0 {
		t.cursor += step
		if t.cursor >= len(t.cells) {
			t.grow(nextPowerOfTwo(t.cursor + 1))
			break
		}
	}
}

// MoveLeftUntilZero retreats the cursor in steps of step while the cell
// under it is non-zero. Returns ErrUnderflow, leaving the cursor unchanged,
// if a step would cross below cell 0. Leftward scans never grow the tape;
// on success the cursor rests on a zero cell.
func (t *Tape) MoveLeftUntilZero(step int) error {
	cursor := t.cursor
	for t.cells[cursor] != 0 {
		if cursor < step {
			return ErrUnderflow
		}
		cursor -= step
	}
	t.cursor = cursor
	return nil
}

// MoveValueRight clears cell index and adds its value, modulo 256, into the
// cell amount positions to the right, growing the tape when the destination
// lies past the current capacity. The destination accumulates: a non-zero
// destination keeps its prior value plus the moved one. The cursor does not
// move.
func (t *Tape) MoveValueRight(index, amount int) {
	dest := index + amount
	if dest >= len(t.cells) {
		t.grow(nextPowerOfTwo(dest + 1))
	}
	v := t.cells[index]
	t.cells[index] = 0
	t.cells[dest] += v
}

// MoveValueLeft clears cell index and adds its value, modulo 256, into the
// cell amount positions to the left. Returns ErrUnderflow, leaving the tape
// unchanged, if the destination would lie below cell 0. Never grows the
// tape and never moves the cursor.
func (t *Tape) MoveValueLeft(index, amount int) error {
	if index < amount {
		return ErrUnderflow
	}
	v := t.cells[index]
	t.cells[index] = 0
	t.cells[index-amount] += v
	return nil
}
