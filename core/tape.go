package core

import (
	"bytes"
	"fmt"
)

const (
	// DefaultTapeSize is the number of cells of a fresh tape.
	DefaultTapeSize = 30000
	// MaxTapeSize is the largest tape NewTape will allocate.
	MaxTapeSize = 1 << 26
)

// Tape is a fixed array of byte cells with a data pointer. The pointer never
// leaves the tape: every move is clamped to [0, Len()-1].
type Tape struct {
	cells  []byte
	pos    int
	clamps int64
}

// NewTape allocates a zeroed tape.
func NewTape(size int) (*Tape, error) {
	if size < 1 || size > MaxTapeSize {
		return nil, fmt.Errorf("%w: %d cells", ErrAllocation, size)
	}

	return &Tape{cells: make([]byte, size)}, nil
}

// Len returns the number of cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Pos returns the data pointer.
func (t *Tape) Pos() int {
	return t.pos
}

// Clamps returns how many moves hit a boundary.
func (t *Tape) Clamps() int64 {
	return t.clamps
}

// Cell returns the current cell.
func (t *Tape) Cell() byte {
	return t.cells[t.pos]
}

// Set writes the current cell.
func (t *Tape) Set(v byte) {
	t.cells[t.pos] = v
}

// Add adds n to the current cell modulo 256.
func (t *Tape) Add(n int) {
	t.cells[t.pos] += byte(n)
}

// At returns the cell at i.
func (t *Tape) At(i int) byte {
	return t.cells[i]
}

// SetAt writes the cell at i.
func (t *Tape) SetAt(i int, v byte) {
	t.cells[i] = v
}

// Seek places the pointer at i, clamped to the tape.
func (t *Tape) Seek(i int) {
	t.pos = t.clamp(i)
}

// Move moves the pointer by n cells, stopping at either end.
func (t *Tape) Move(n int) {
	t.pos = t.clamp(t.pos + n)
}

func (t *Tape) clamp(p int) int {
	switch {
	case p < 0:
		t.clamps++
		return 0
	case p >= len(t.cells):
		t.clamps++
		return len(t.cells) - 1
	}

	return p
}

// InRange reports whether every offset in [lo, hi] from the pointer is on
// the tape.
func (t *Tape) InRange(lo, hi int) bool {
	return t.pos+lo >= 0 && t.pos+hi < len(t.cells)
}

// ScanRight moves the pointer right in steps of step cells until it sits on
// a zero cell. Only cells a multiple of step away are candidates. If there
// is none, the pointer stops on the last cell.
func (t *Tape) ScanRight(step int) {
	from := t.pos
	search := from

	for search < len(t.cells) {
		i := bytes.IndexByte(t.cells[search:], 0)
		if i < 0 {
			break
		}

		z := search + i
		if (z-from)%step == 0 {
			t.pos = z
			return
		}

		search = z + 1
	}

	t.clamps++
	t.pos = len(t.cells) - 1
}

// ScanLeft moves the pointer left in steps of step cells until it sits on a
// zero cell, stopping on cell 0 if the next step would leave the tape.
func (t *Tape) ScanLeft(step int) {
	for t.cells[t.pos] != 0 {
		if t.pos < step {
			t.clamps++
			t.pos = 0

			return
		}

		t.pos -= step
	}
}

// Window returns the index of the first cell and a copy of the cells within
// half cells of the pointer.
func (t *Tape) Window(half int) (int, []byte) {
	start := max(t.pos-half, 0)
	end := min(t.pos+half, len(t.cells)-1)

	return start, bytes.Clone(t.cells[start : end+1])
}

// Bytes returns a copy of all cells.
func (t *Tape) Bytes() []byte {
	return bytes.Clone(t.cells)
}

// Used returns the index one past the last non-zero cell, or one past the
// pointer if that is further.
func (t *Tape) Used() int {
	n := len(bytes.TrimRight(t.cells, "\x00"))

	return max(n, t.pos+1)
}

// Reset zeroes every cell and returns the pointer to cell 0.
func (t *Tape) Reset() {
	clear(t.cells)
	t.pos = 0
	t.clamps = 0
}
