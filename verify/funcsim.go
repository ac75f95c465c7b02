package verify

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/tapeopt/core"
	"github.com/sarchlab/tapeopt/program"
)

// ReferenceSimulator executes one symbol at a time. It shares no execution
// code with core.Machine: brackets are found by scanning, moves and cell
// updates are applied one unit at a time.
type ReferenceSimulator struct {
	code  []byte
	ip    int
	tape  []byte
	dp    int
	eof   program.EOFPolicy
	steps int64

	output bytes.Buffer
	clamps int64

	// TraceStep, if set, is called before each symbol executes.
	TraceStep func(ip, dp int, cell byte)
}

// NewReferenceSimulator creates a simulator over a sanitized stream.
func NewReferenceSimulator(
	code []byte,
	tapeSize int,
	eof program.EOFPolicy,
) *ReferenceSimulator {
	return &ReferenceSimulator{
		code: code,
		tape: make([]byte, max(tapeSize, 1)),
		eof:  eof,
	}
}

// Run executes the program until it ends or maxSteps symbols have executed.
// maxSteps <= 0 means no limit. Returns an error if execution fails.
func (rs *ReferenceSimulator) Run(in io.Reader, maxSteps int64) error {
	if in == nil {
		in = bytes.NewReader(nil)
	}

	r := bufio.NewReader(in)

	for rs.ip < len(rs.code) {
		if maxSteps > 0 && rs.steps >= maxSteps {
			return fmt.Errorf("%w: %d steps", core.ErrStepLimit, maxSteps)
		}

		if rs.TraceStep != nil {
			rs.TraceStep(rs.ip, rs.dp, rs.tape[rs.dp])
		}

		if err := rs.execute(r); err != nil {
			return err
		}

		rs.steps++
		rs.ip++
	}

	return nil
}

func (rs *ReferenceSimulator) execute(r *bufio.Reader) error {
	switch rs.code[rs.ip] {
	case program.OpInc:
		rs.tape[rs.dp]++
	case program.OpDec:
		rs.tape[rs.dp]--
	case program.OpRight:
		rs.move(1)
	case program.OpLeft:
		rs.move(-1)
	case program.OpOutput:
		rs.output.WriteByte(rs.tape[rs.dp])
	case program.OpInput:
		return rs.input(r)
	case program.OpOpen:
		if rs.tape[rs.dp] == 0 {
			return rs.jump(program.FindForward)
		}
	case program.OpClose:
		if rs.tape[rs.dp] != 0 {
			return rs.jump(program.FindBackward)
		}
	}

	return nil
}

func (rs *ReferenceSimulator) move(d int) {
	next := rs.dp + d
	if next < 0 || next >= len(rs.tape) {
		rs.clamps++
		return
	}

	rs.dp = next
}

func (rs *ReferenceSimulator) input(r *bufio.Reader) error {
	b, err := r.ReadByte()

	switch {
	case err == nil:
		rs.tape[rs.dp] = b
	case errors.Is(err, io.EOF):
		rs.tape[rs.dp] = rs.eof.Fill(rs.tape[rs.dp])
	default:
		return fmt.Errorf("%w: %w", core.ErrIO, err)
	}

	return nil
}

func (rs *ReferenceSimulator) jump(find func([]byte, int) (int, bool)) error {
	target, ok := find(rs.code, rs.ip)
	if !ok {
		return &program.BracketError{
			Err:    program.ErrUnmatchedBracket,
			Pos:    rs.ip,
			Symbol: rs.code[rs.ip],
		}
	}

	rs.ip = target

	return nil
}

// Output returns the bytes written so far.
func (rs *ReferenceSimulator) Output() []byte {
	return rs.output.Bytes()
}

// Tape returns the tape cells.
func (rs *ReferenceSimulator) Tape() []byte {
	return rs.tape
}

// Pos returns the data pointer.
func (rs *ReferenceSimulator) Pos() int {
	return rs.dp
}

// Steps returns the number of symbols executed.
func (rs *ReferenceSimulator) Steps() int64 {
	return rs.steps
}

// Clamps returns how many moves were stopped at a tape end.
func (rs *ReferenceSimulator) Clamps() int64 {
	return rs.clamps
}
