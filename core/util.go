package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1

	// DefaultWindow is the default half-width of the traced tape window.
	DefaultWindow = 8
	// MaxWindow is the largest accepted half-width.
	MaxWindow = 64
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// ClampWindow limits a trace window half-width to [1, MaxWindow].
func ClampWindow(w int) int {
	return min(max(w, 1), MaxWindow)
}

// CharRepr renders a cell value as a readable character.
func CharRepr(v byte) string {
	switch {
	case v == 0:
		return `\0`
	case v == '\n':
		return `\n`
	case v == '\r':
		return `\r`
	case v == '\t':
		return `\t`
	case v >= 0x20 && v < 0x7F:
		return string(rune(v))
	}

	return fmt.Sprintf(`\x%02X`, v)
}

// Tracer writes one line per executed instruction.
type Tracer struct {
	w      io.Writer
	window int
}

// NewTracer creates a tracer that writes to w with the given window
// half-width.
func NewTracer(w io.Writer, window int) *Tracer {
	return &Tracer{w: w, window: ClampWindow(window)}
}

// Window returns the half-width of the traced window.
func (t *Tracer) Window() int {
	return t.window
}

// Newline ends a partial line so the next record starts on its own line.
func (t *Tracer) Newline() {
	fmt.Fprintln(t.w)
}

// Trace writes the record for the instruction at ip.
func (t *Tracer) Trace(ip int, inst byte, tape *Tape) {
	var b strings.Builder

	v := tape.Cell()
	start, cells := tape.Window(t.window)

	fmt.Fprintf(&b, "[DEBUG] ip=%d instr=%c dp=%d val=%d ch='%s' | tape[%d..%d]: ",
		ip, inst, tape.Pos(), v, CharRepr(v), start, start+len(cells)-1)

	for i, c := range cells {
		if start+i == tape.Pos() {
			fmt.Fprintf(&b, "[%d] ", c)
		} else {
			fmt.Fprintf(&b, "%d ", c)
		}
	}

	b.WriteByte('\n')
	io.WriteString(t.w, b.String())
}

// PrintState writes the used part of the tape as a table, 16 cells per row.
func PrintState(w io.Writer, tape *Tape) {
	const perRow = 16

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Tape (dp=%d, %d cells)", tape.Pos(), tape.Len()))

	header := table.Row{"Base"}
	for i := 0; i < perRow; i++ {
		header = append(header, fmt.Sprintf("+%X", i))
	}
	t.AppendHeader(header)

	used := tape.Used()
	for base := 0; base < used; base += perRow {
		row := table.Row{base}
		for i := base; i < base+perRow && i < tape.Len(); i++ {
			if i == tape.Pos() {
				row = append(row, fmt.Sprintf("[%d]", tape.At(i)))
			} else {
				row = append(row, tape.At(i))
			}
		}
		t.AppendRow(row)
	}

	t.Render()
}

// Table renders the counters as a text table.
func (c Counters) Table() string {
	t := table.NewWriter()
	t.SetTitle("Run")
	t.AppendHeader(table.Row{"Counter", "Count"})
	t.AppendRows([]table.Row{
		{"steps", c.Steps},
		{"clear fast paths", c.Clear},
		{"scan fast paths", c.Scan},
		{"multiply/copy fast paths", c.MulCopy},
		{"bytes written", c.Outputs},
		{"bytes read", c.Inputs},
		{"reads at end of input", c.EOFs},
		{"clamped moves", c.Clamps},
	})
	t.AppendFooter(table.Row{"folded", c.Folded()})

	return t.Render()
}

// LogState writes a debug checkpoint of the machine.
func LogState(m *Machine) {
	start, cells := m.tape.Window(DefaultWindow)

	slog.Debug("StateCheckpoint",
		"IP", m.ip,
		"DP", m.tape.Pos(),
		"Cell", m.tape.Cell(),
		"WindowStart", start,
		"Window", cells,
		"Steps", m.counters.Steps,
	)
}
