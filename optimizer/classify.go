package optimizer

import (
	"fmt"

	"github.com/sarchlab/tapeopt/instr"
	"github.com/sarchlab/tapeopt/program"
)

// LoopKind is the outcome of classifying one bracketed loop.
type LoopKind uint8

const (
	// LoopGeneric loops run through the bracket state machine.
	LoopGeneric LoopKind = iota
	// LoopClear loops set the current cell to zero.
	LoopClear
	// LoopScan loops move the pointer by Step until a zero cell.
	LoopScan
	// LoopMulCopy loops add multiples of the current cell to other cells
	// and then clear it.
	LoopMulCopy
)

func (k LoopKind) String() string {
	switch k {
	case LoopGeneric:
		return "generic"
	case LoopClear:
		return "clear"
	case LoopScan:
		return "scan"
	case LoopMulCopy:
		return "mulcopy"
	}

	return fmt.Sprintf("LoopKind(%d)", uint8(k))
}

// Loop is the classification of the loop opened at some '['.
type Loop struct {
	Kind LoopKind
	// Step is the signed scan step. Positive steps scan right.
	Step  int
	Terms []instr.Term
	// End is the position of the closing ']', or -1 when the body contains
	// a nested loop or the loop is not closed.
	End int
	// MinOffset and MaxOffset bound every pointer offset a multiply/copy
	// body visits.
	MinOffset int
	MaxOffset int
}

func generic(end int) Loop {
	return Loop{Kind: LoopGeneric, End: end}
}

// MatchClear matches a body that is exactly "-" or "+".
func MatchClear(body []byte) (Loop, bool) {
	if len(body) != 1 {
		return Loop{}, false
	}

	if body[0] != program.OpDec && body[0] != program.OpInc {
		return Loop{}, false
	}

	return Loop{Kind: LoopClear}, true
}

// MatchScan matches a non-empty body made only of '>' or only of '<'. The
// step is the run length, negated for '<'.
func MatchScan(body []byte) (Loop, bool) {
	if len(body) == 0 {
		return Loop{}, false
	}

	c := body[0]
	if c != program.OpRight && c != program.OpLeft {
		return Loop{}, false
	}

	for _, b := range body[1:] {
		if b != c {
			return Loop{}, false
		}
	}

	return Loop{Kind: LoopScan, Step: Delta(c, len(body))}, true
}

// MatchMulCopy matches a body of '+', '-', '>' and '<' with zero net pointer
// displacement in which the counter cell (offset 0) is decremented by
// exactly one per iteration and every '-' acts on the counter. Each other
// offset becomes a term whose factor is the total increment it receives.
// Bodies touching more than maxTerms distinct offsets are rejected;
// maxTerms <= 0 means no limit.
func MatchMulCopy(body []byte, maxTerms int) (Loop, bool) {
	var (
		offset, minOff, maxOff int
		counter                int
		order                  []int
	)

	deltas := make(map[int]int)

	for _, c := range body {
		switch c {
		case program.OpRight:
			offset++
			maxOff = max(maxOff, offset)
		case program.OpLeft:
			offset--
			minOff = min(minOff, offset)
		case program.OpInc:
			if offset == 0 {
				counter++
				continue
			}

			if _, seen := deltas[offset]; !seen {
				order = append(order, offset)
				if maxTerms > 0 && len(order) > maxTerms {
					return Loop{}, false
				}
			}

			deltas[offset]++
		case program.OpDec:
			if offset != 0 {
				return Loop{}, false
			}

			counter--
		default:
			return Loop{}, false
		}
	}

	if offset != 0 || byte(counter) != 0xFF {
		return Loop{}, false
	}

	terms := make([]instr.Term, 0, len(order))
	for _, off := range order {
		f := byte(deltas[off])
		if f == 0 {
			continue
		}

		terms = append(terms, instr.Term{Offset: off, Factor: f})
	}

	return Loop{
		Kind:      LoopMulCopy,
		Terms:     terms,
		MinOffset: minOff,
		MaxOffset: maxOff,
	}, true
}

// Classify decides which rewrite applies to the loop opened at code[open].
// Only innermost loops are candidates: the body ends at the first bracket
// after open, and if that is another '[' the loop stays generic. The
// rewrites are tried in the order clear, scan, multiply/copy.
func Classify(code []byte, open int, opts Options) Loop {
	if open < 0 || open >= len(code) || code[open] != program.OpOpen {
		return generic(-1)
	}

	end := -1
	for i := open + 1; i < len(code); i++ {
		if code[i] == program.OpOpen {
			return generic(-1)
		}

		if code[i] == program.OpClose {
			end = i
			break
		}
	}

	if end < 0 {
		return generic(-1)
	}

	body := code[open+1 : end]

	if opts.Clear {
		if l, ok := MatchClear(body); ok {
			l.End = end
			return l
		}
	}

	if opts.Scan {
		if l, ok := MatchScan(body); ok {
			l.End = end
			return l
		}
	}

	if opts.MulCopy {
		if l, ok := MatchMulCopy(body, opts.MaxTerms); ok {
			l.End = end
			return l
		}
	}

	return generic(end)
}
