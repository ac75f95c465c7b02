// Package core is the interpreter backend: a byte tape machine that executes
// a sanitized instruction stream, taking the optimizer's fast paths for
// classified loops.
package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

// Counters records what a run did.
type Counters struct {
	Steps   int64
	Clear   int64
	Scan    int64
	MulCopy int64
	Outputs int64
	Inputs  int64
	EOFs    int64
	Clamps  int64
}

// Folded returns the number of loops that took a fast path.
func (c Counters) Folded() int64 {
	return c.Clear + c.Scan + c.MulCopy
}

// Machine runs one program on one tape.
type Machine struct {
	code     []byte
	brackets *program.BracketTable
	tape     *Tape
	ip       int

	in  *bufio.Reader
	out *bufio.Writer
	eof program.EOFPolicy

	opts     optimizer.Options
	tracer   *Tracer
	maxSteps int64
	counters Counters
	lastOut  byte
}

// Tape returns the machine's tape.
func (m *Machine) Tape() *Tape {
	return m.tape
}

// Code returns the program being run.
func (m *Machine) Code() []byte {
	return m.code
}

// IP returns the instruction pointer.
func (m *Machine) IP() int {
	return m.ip
}

// Done reports whether the program has finished.
func (m *Machine) Done() bool {
	return m.ip >= len(m.code)
}

// Counters returns the run counters.
func (m *Machine) Counters() Counters {
	c := m.counters
	c.Clamps = m.tape.Clamps()

	return c
}

// Run executes the program to the end. Output is flushed before every read
// and before Run returns.
func (m *Machine) Run() error {
	err := m.run()

	if ferr := m.flush(); err == nil {
		err = ferr
	}

	LogState(m)

	return err
}

func (m *Machine) run() error {
	for !m.Done() {
		if m.maxSteps > 0 && m.counters.Steps >= m.maxSteps {
			return fmt.Errorf("%w: %d steps", ErrStepLimit, m.maxSteps)
		}

		if err := m.step(); err != nil {
			return err
		}
	}

	return nil
}

func (m *Machine) flush() error {
	if err := m.out.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

func (m *Machine) write(v byte) error {
	if err := m.out.WriteByte(v); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	m.counters.Outputs++
	m.lastOut = v

	if m.tracer != nil {
		return m.flush()
	}

	return nil
}

func (m *Machine) read() error {
	if err := m.flush(); err != nil {
		return err
	}

	m.counters.Inputs++

	v, err := m.in.ReadByte()
	if errors.Is(err, io.EOF) {
		m.counters.EOFs++
		m.tape.Set(m.eof.Fill(m.tape.Cell()))

		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	m.tape.Set(v)

	return nil
}
