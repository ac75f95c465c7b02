package program

import "fmt"

// EOFPolicy decides what ',' stores when the input is exhausted.
type EOFPolicy uint8

const (
	// EOFZero stores 0.
	EOFZero EOFPolicy = iota
	// EOFUnchanged leaves the cell as it was.
	EOFUnchanged
	// EOFMax stores 255, the truncation of a C getchar() EOF.
	EOFMax
)

// ParseEOFPolicy parses "zero", "unchanged" or "max".
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	switch s {
	case "", "zero", "0":
		return EOFZero, nil
	case "unchanged", "keep":
		return EOFUnchanged, nil
	case "max", "255", "-1":
		return EOFMax, nil
	}

	return EOFZero, fmt.Errorf("unknown eof policy %q", s)
}

func (p EOFPolicy) String() string {
	switch p {
	case EOFZero:
		return "zero"
	case EOFUnchanged:
		return "unchanged"
	case EOFMax:
		return "max"
	}

	return fmt.Sprintf("EOFPolicy(%d)", uint8(p))
}

// Fill returns the cell value after a read that hit end of input.
func (p EOFPolicy) Fill(old byte) byte {
	switch p {
	case EOFUnchanged:
		return old
	case EOFMax:
		return 0xFF
	default:
		return 0
	}
}
