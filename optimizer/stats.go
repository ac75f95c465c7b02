package optimizer

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Stats counts what the optimizer did to one program.
type Stats struct {
	DeadPairs int
	Runs      int
	Collapsed int
	Clear     int
	Scan      int
	MulCopy   int
	Generic   int
}

// Folded returns the number of loops replaced by a fast path.
func (s Stats) Folded() int {
	return s.Clear + s.Scan + s.MulCopy
}

// Table renders the stats as a text table.
func (s Stats) Table() string {
	t := table.NewWriter()
	t.SetTitle("Optimizer")
	t.AppendHeader(table.Row{"Pass", "Count"})
	t.AppendRows([]table.Row{
		{"dead pairs removed", s.DeadPairs},
		{"runs collapsed", s.Runs},
		{"symbols saved by runs", s.Collapsed},
		{"clear loops", s.Clear},
		{"scan loops", s.Scan},
		{"multiply/copy loops", s.MulCopy},
		{"generic loops", s.Generic},
	})
	t.AppendFooter(table.Row{"folded", s.Folded()})

	return t.Render()
}
