package instr

import (
	"fmt"
	"strings"
)

// Kind identifies a lowered instruction.
type Kind uint8

const (
	// Add adds Arg to the current cell, modulo 256.
	Add Kind = iota
	// Move moves the pointer by Arg cells.
	Move
	// Output writes the current cell.
	Output
	// Input reads one byte into the current cell.
	Input
	// LoopBegin opens a generic loop. Arg is the index of the LoopEnd.
	LoopBegin
	// LoopEnd closes a generic loop. Arg is the index of the LoopBegin.
	LoopEnd
	// Clear sets the current cell to zero.
	Clear
	// Scan moves the pointer by Arg until it sits on a zero cell.
	Scan
	// MulCopy adds factor*cell to every term target and clears the cell.
	MulCopy
)

var kindNames = [...]string{
	Add:       "add",
	Move:      "move",
	Output:    "output",
	Input:     "input",
	LoopBegin: "loop",
	LoopEnd:   "end",
	Clear:     "clear",
	Scan:      "scan",
	MulCopy:   "mulcopy",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Inst is one instruction of the lowered program.
type Inst struct {
	Kind  Kind
	Arg   int
	Terms []Term
	// Label is the loop id shared by a LoopBegin and its LoopEnd, and the
	// id of a Scan.
	Label int
	// Pos is the offset of the first source symbol the instruction was
	// built from.
	Pos int
}

func (i Inst) String() string {
	switch i.Kind {
	case Add, Move:
		return fmt.Sprintf("%s %+d", i.Kind, i.Arg)
	case Scan:
		return fmt.Sprintf("scan %+d #%d", i.Arg, i.Label)
	case LoopBegin, LoopEnd:
		return fmt.Sprintf("%s #%d", i.Kind, i.Label)
	case MulCopy:
		parts := make([]string, len(i.Terms))
		for n, t := range i.Terms {
			parts[n] = t.String()
		}

		return "mulcopy [" + strings.Join(parts, " ") + "]"
	}

	return i.Kind.String()
}

// Format renders a listing of insts, one per line, indented by loop depth.
func Format(insts []Inst) string {
	var b strings.Builder

	depth := 0
	for n, in := range insts {
		if in.Kind == LoopEnd && depth > 0 {
			depth--
		}

		fmt.Fprintf(&b, "%4d  %s%s\n", n, strings.Repeat("  ", depth), in)

		if in.Kind == LoopBegin {
			depth++
		}
	}

	return b.String()
}
