package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

// Session executes a program that is typed a piece at a time. Each Feed
// extends the program and runs as far as the typed prefix allows.
type Session struct {
	code []byte
	ip   int
	tape *Tape

	in     *bufio.Reader
	output bytes.Buffer
	eof    program.EOFPolicy

	opts     optimizer.Options
	maxSteps int64
	counters Counters
	pending  bool
}

// Snapshot is a view of a session's state.
type Snapshot struct {
	IP          int
	DP          int
	Cell        byte
	WindowStart int
	Window      []byte
	Pending     bool
}

// Feed appends the instruction symbols of src and runs them. It returns
// true if execution is parked on a '[' whose cell is zero and whose ']'
// has not been typed yet.
func (s *Session) Feed(src []byte) (bool, error) {
	s.code = append(s.code, program.Sanitize(src)...)

	steps := int64(0)
	for s.ip < len(s.code) {
		if s.maxSteps > 0 && steps >= s.maxSteps {
			return s.pending, fmt.Errorf("%w: %d steps", ErrStepLimit, s.maxSteps)
		}

		advanced, err := s.step()
		if err != nil {
			return s.pending, err
		}

		if !advanced {
			break
		}

		steps++
		s.counters.Steps++
	}

	return s.pending, nil
}

func (s *Session) step() (bool, error) {
	s.pending = false

	switch c := s.code[s.ip]; c {
	case program.OpInc, program.OpDec, program.OpRight, program.OpLeft:
		n := optimizer.RunLength(s.code, s.ip)
		if c == program.OpInc || c == program.OpDec {
			s.tape.Add(optimizer.Delta(c, n))
		} else {
			s.tape.Move(optimizer.Delta(c, n))
		}
		s.ip += n

		return true, nil
	case program.OpOutput:
		s.output.WriteByte(s.tape.Cell())
		s.counters.Outputs++
	case program.OpInput:
		if err := s.read(); err != nil {
			return false, err
		}
	case program.OpOpen:
		return s.open(), nil
	case program.OpClose:
		if open, ok := program.FindBackward(s.code, s.ip); ok && s.tape.Cell() != 0 {
			s.ip = open
		}
	}

	s.ip++

	return true, nil
}

func (s *Session) open() bool {
	if s.tape.Cell() == 0 {
		end, ok := program.FindForward(s.code, s.ip)
		if !ok {
			s.pending = true
			return false
		}

		s.ip = end + 1

		return true
	}

	if s.opts.Folds() {
		loop := optimizer.Classify(s.code, s.ip, s.opts)
		if runFolded(s.tape, loop, &s.counters) {
			s.ip = loop.End + 1
			return true
		}
	}

	s.ip++

	return true
}

func (s *Session) read() error {
	s.counters.Inputs++

	v, err := s.in.ReadByte()
	if errors.Is(err, io.EOF) {
		s.counters.EOFs++
		s.tape.Set(s.eof.Fill(s.tape.Cell()))

		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	s.tape.Set(v)

	return nil
}

// Pending reports whether execution waits for a closing bracket.
func (s *Session) Pending() bool {
	return s.pending
}

// Output returns everything the program has written so far.
func (s *Session) Output() []byte {
	return s.output.Bytes()
}

// Code returns the program typed so far.
func (s *Session) Code() []byte {
	return s.code
}

// Tape returns the session's tape.
func (s *Session) Tape() *Tape {
	return s.tape
}

// Counters returns the counters accumulated since the last reset.
func (s *Session) Counters() Counters {
	c := s.counters
	c.Clamps = s.tape.Clamps()

	return c
}

// SetStepLimit bounds the steps a single Feed may take. Zero means no limit.
func (s *Session) SetStepLimit(n int64) {
	s.maxSteps = n
}

// Snapshot returns the current state with a window of half cells on each
// side of the pointer.
func (s *Session) Snapshot(half int) Snapshot {
	start, cells := s.tape.Window(ClampWindow(half))

	return Snapshot{
		IP:          s.ip,
		DP:          s.tape.Pos(),
		Cell:        s.tape.Cell(),
		WindowStart: start,
		Window:      cells,
		Pending:     s.pending,
	}
}

// Reset clears the program, the tape and the output.
func (s *Session) Reset() {
	s.code = s.code[:0]
	s.ip = 0
	s.tape.Reset()
	s.output.Reset()
	s.counters = Counters{}
	s.pending = false
}
