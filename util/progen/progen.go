// Package progen generates random well-formed tape programs for equivalence
// testing.
//
// Every generated loop has the shape "[ body -]" where body only touches
// cells to the right of the loop counter and returns the pointer to it. Loops
// therefore terminate, and the pointer position at every symbol outside a
// loop body is known statically and stays inside [0, Width).
package progen

import (
	"bytes"
	"math/rand"
)

// Options shapes generated programs.
type Options struct {
	Width    int  // Number of cells the program may touch
	Length   int  // Approximate number of top-level pieces
	MaxDepth int  // Deepest nesting of counted loops, clear loops add one level
	IO       bool // Emit '.' and ','
}

// DefaultOptions returns a small shape that runs well under a million steps
// for most seeds.
func DefaultOptions() Options {
	return Options{Width: 8, Length: 24, MaxDepth: 2, IO: true}
}

// Generator produces random programs.
type Generator struct {
	rng  *rand.Rand
	opts Options
	buf  bytes.Buffer
}

// New creates a generator with a fixed seed.
func New(seed int64, opts Options) *Generator {
	opts.Width = max(opts.Width, 2)
	opts.Length = max(opts.Length, 1)

	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		opts: opts,
	}
}

// Program returns the next random program.
func (g *Generator) Program() []byte {
	g.buf.Reset()
	g.block(0, 0, 0, g.opts.Length)

	return bytes.Clone(g.buf.Bytes())
}

// block emits n pieces with the pointer starting at dp and staying in
// [lo, Width). It returns the final pointer.
func (g *Generator) block(lo, dp, depth, n int) int {
	for i := 0; i < n; i++ {
		switch r := g.rng.Intn(10); {
		case r < 3:
			g.cell()
		case r < 5:
			dp = g.moveTo(dp, lo+g.rng.Intn(g.opts.Width-lo))
		case r < 6 && g.opts.IO:
			g.io()
		case r < 7:
			g.clear()
		case depth < g.opts.MaxDepth && dp+1 < g.opts.Width:
			g.loop(dp, depth)
		default:
			g.cell()
		}
	}

	return dp
}

func (g *Generator) cell() {
	sym := byte('+')
	if g.rng.Intn(3) == 0 {
		sym = '-'
	}

	g.run(sym, 1+g.rng.Intn(5))
}

func (g *Generator) io() {
	if g.rng.Intn(3) == 0 {
		g.buf.WriteByte(',')
		return
	}

	g.buf.WriteByte('.')
}

func (g *Generator) clear() {
	if g.rng.Intn(4) == 0 {
		g.buf.WriteString("[+]")
		return
	}

	g.buf.WriteString("[-]")
}

func (g *Generator) loop(counter, depth int) {
	g.run('+', 1+g.rng.Intn(4))
	g.buf.WriteByte('[')

	lo := counter + 1
	dp := g.moveTo(counter, lo+g.rng.Intn(g.opts.Width-lo))
	dp = g.block(lo, dp, depth+1, 1+g.rng.Intn(4))
	g.moveTo(dp, counter)

	g.buf.WriteString("-]")
}

func (g *Generator) moveTo(from, to int) int {
	if to > from {
		g.run('>', to-from)
	} else {
		g.run('<', from-to)
	}

	return to
}

func (g *Generator) run(sym byte, n int) {
	for i := 0; i < n; i++ {
		g.buf.WriteByte(sym)
	}
}
