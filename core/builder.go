package core

import (
	"bufio"
	"bytes"
	"io"

	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

// Builder can create new machines and sessions.
type Builder struct {
	tapeSize int
	input    io.Reader
	output   io.Writer
	eof      program.EOFPolicy
	opts     optimizer.Options
	tracer   *Tracer
	maxSteps int64
}

// NewBuilder returns a builder with a 30000-cell tape, every rewrite
// enabled, no input and discarded output.
func NewBuilder() Builder {
	return Builder{
		tapeSize: DefaultTapeSize,
		opts:     optimizer.DefaultOptions(),
	}
}

// WithTapeSize sets the number of tape cells.
func (b Builder) WithTapeSize(n int) Builder {
	b.tapeSize = n
	return b
}

// WithInput sets the stream ',' reads from.
func (b Builder) WithInput(r io.Reader) Builder {
	b.input = r
	return b
}

// WithOutput sets the stream '.' writes to.
func (b Builder) WithOutput(w io.Writer) Builder {
	b.output = w
	return b
}

// WithEOF sets what ',' stores at end of input.
func (b Builder) WithEOF(p program.EOFPolicy) Builder {
	b.eof = p
	return b
}

// WithOptions sets the optimizer options.
func (b Builder) WithOptions(opts optimizer.Options) Builder {
	b.opts = opts
	return b
}

// WithTracer enables the per-instruction debug trace.
func (b Builder) WithTracer(t *Tracer) Builder {
	b.tracer = t
	return b
}

// WithStepLimit bounds the number of dispatched instructions. Zero means no
// limit.
func (b Builder) WithStepLimit(n int64) Builder {
	b.maxSteps = n
	return b
}

// Build creates a machine for a sanitized program.
func (b Builder) Build(code []byte) (*Machine, error) {
	if b.opts.DeadPairs {
		code, _ = optimizer.EliminateDeadPairs(code)
	}

	brackets, err := program.Match(code, b.opts.MaxDepth)
	if err != nil {
		return nil, err
	}

	tape, err := NewTape(b.tapeSize)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		code:     code,
		brackets: brackets,
		tape:     tape,
		in:       b.reader(),
		out:      bufio.NewWriter(b.writer()),
		eof:      b.eof,
		opts:     b.opts,
		tracer:   b.tracer,
		maxSteps: b.maxSteps,
		lastOut:  '\n',
	}

	return m, nil
}

// BuildSession creates an empty incremental session.
func (b Builder) BuildSession() (*Session, error) {
	tape, err := NewTape(b.tapeSize)
	if err != nil {
		return nil, err
	}

	s := &Session{
		tape:     tape,
		in:       b.reader(),
		eof:      b.eof,
		opts:     b.opts,
		maxSteps: b.maxSteps,
	}

	return s, nil
}

func (b Builder) reader() *bufio.Reader {
	if b.input == nil {
		return bufio.NewReader(bytes.NewReader(nil))
	}

	return bufio.NewReader(b.input)
}

func (b Builder) writer() io.Writer {
	if b.output == nil {
		return io.Discard
	}

	return b.output
}
