package instr

import "fmt"

// Term is one target of a multiply-copy loop: the cell at Offset from the
// loop's pointer receives Factor times the loop counter.
type Term struct {
	Offset int
	Factor uint8
}

func (t Term) String() string {
	return fmt.Sprintf("%+d*%d", t.Offset, t.Factor)
}
