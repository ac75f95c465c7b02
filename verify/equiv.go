package verify

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sarchlab/tapeopt/config"
	"github.com/sarchlab/tapeopt/core"
)

// DefaultStepLimit bounds both runs of an equivalence check when the
// configuration sets no limit.
const DefaultStepLimit = 10_000_000

// Status is the outcome of an equivalence check.
type Status string

const (
	StatusEqual        Status = "EQUAL"
	StatusMismatch     Status = "MISMATCH"
	StatusInconclusive Status = "INCONCLUSIVE"
	StatusError        Status = "ERROR"
)

// Equivalence compares the optimizing interpreter with the reference
// simulator on one program and one input.
type Equivalence struct {
	Status   Status
	Reason   string
	RefSteps int64
	OptSteps int64
	Folded   int64
	Output   []byte
}

// OK reports whether the check found no difference.
func (e Equivalence) OK() bool {
	return e.Status == StatusEqual || e.Status == StatusInconclusive
}

// CheckEquivalence runs code on both interpreters with the settings of cfg
// and compares output, final pointer and tape contents.
func CheckEquivalence(code, input []byte, cfg config.Config) Equivalence {
	eof, err := cfg.EOFPolicy()
	if err != nil {
		return Equivalence{Status: StatusError, Reason: err.Error()}
	}

	limit := cfg.StepLimit
	if limit <= 0 {
		limit = DefaultStepLimit
	}

	rs := NewReferenceSimulator(code, cfg.TapeSize, eof)
	refErr := rs.Run(bytes.NewReader(input), limit)

	var out bytes.Buffer

	m, err := core.NewBuilder().
		WithTapeSize(cfg.TapeSize).
		WithEOF(eof).
		WithOptions(cfg.Options()).
		WithInput(bytes.NewReader(input)).
		WithOutput(&out).
		WithStepLimit(limit).
		Build(code)
	if err != nil {
		return Equivalence{Status: StatusError, Reason: err.Error(), RefSteps: rs.Steps()}
	}

	optErr := m.Run()
	c := m.Counters()

	res := Equivalence{
		RefSteps: rs.Steps(),
		OptSteps: c.Steps,
		Folded:   c.Folded(),
		Output:   out.Bytes(),
	}

	switch {
	case errors.Is(refErr, core.ErrStepLimit) || errors.Is(optErr, core.ErrStepLimit):
		res.Status = StatusInconclusive
		res.Reason = "step limit reached"
	case refErr != nil:
		res.Status = StatusError
		res.Reason = "reference: " + refErr.Error()
	case optErr != nil:
		res.Status = StatusError
		res.Reason = "optimized: " + optErr.Error()
	default:
		res.Status, res.Reason = compare(rs, m.Tape(), out.Bytes())
	}

	return res
}

func compare(rs *ReferenceSimulator, tape *core.Tape, out []byte) (Status, string) {
	if i := firstDiff(rs.Output(), out); i >= 0 {
		return StatusMismatch, fmt.Sprintf("output differs at byte %d", i)
	}

	if rs.Pos() != tape.Pos() {
		return StatusMismatch, fmt.Sprintf("pointer %d, reference %d", tape.Pos(), rs.Pos())
	}

	if i := firstDiff(rs.Tape(), tape.Bytes()); i >= 0 {
		return StatusMismatch, fmt.Sprintf("cell %d differs", i)
	}

	return StatusEqual, ""
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}

	if len(a) != len(b) {
		return n
	}

	return -1
}
