package optimizer

import "github.com/sarchlab/tapeopt/program"

// EliminateDeadPairs cancels adjacent inverse pairs ("+-", "-+", "><", "<>")
// in one pass. The comparison is always against the tail of the output, so a
// cancellation that exposes a new pair cancels it too. It returns the new
// stream and the number of pairs removed.
func EliminateDeadPairs(code []byte) ([]byte, int) {
	out := make([]byte, 0, len(code))
	removed := 0

	for _, c := range code {
		if n := len(out); n > 0 {
			if inv, ok := program.Inverse(c); ok && out[n-1] == inv {
				out = out[:n-1]
				removed++

				continue
			}
		}

		out = append(out, c)
	}

	return out, removed
}

// RunLength returns the length of the run of identical symbols starting at
// pos. Only '+', '-', '>' and '<' form runs; every other symbol, and any
// position out of range, has length 1 or 0.
func RunLength(code []byte, pos int) int {
	if pos < 0 || pos >= len(code) {
		return 0
	}

	c := code[pos]
	if !collapsible(c) {
		return 1
	}

	n := 1
	for pos+n < len(code) && code[pos+n] == c {
		n++
	}

	return n
}

func collapsible(c byte) bool {
	switch c {
	case program.OpInc, program.OpDec, program.OpRight, program.OpLeft:
		return true
	}

	return false
}

// Delta converts a run of n cell or pointer symbols into a signed amount.
func Delta(c byte, n int) int {
	switch c {
	case program.OpInc, program.OpRight:
		return n
	case program.OpDec, program.OpLeft:
		return -n
	}

	return 0
}
