package core

import (
	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

// step dispatches the instruction at ip. Each run* method leaves ip on the
// last symbol it consumed; step then traces it and moves past it.
func (m *Machine) step() error {
	var err error

	switch m.code[m.ip] {
	case program.OpInc, program.OpDec:
		m.runAdd()
	case program.OpRight, program.OpLeft:
		m.runMove()
	case program.OpOutput:
		err = m.write(m.tape.Cell())
	case program.OpInput:
		err = m.read()
	case program.OpOpen:
		m.runOpen()
	case program.OpClose:
		m.runClose()
	}

	if err != nil {
		return err
	}

	m.counters.Steps++

	if m.tracer != nil {
		m.trace()
	}

	m.ip++

	return nil
}

func (m *Machine) trace() {
	if m.lastOut != '\n' {
		m.tracer.Newline()
		m.lastOut = '\n'
	}

	m.tracer.Trace(m.ip, m.code[m.ip], m.tape)
}

func (m *Machine) run1() (byte, int) {
	c := m.code[m.ip]

	n := 1
	if m.opts.RunLength {
		n = optimizer.RunLength(m.code, m.ip)
	}

	m.ip += n - 1

	return c, n
}

func (m *Machine) runAdd() {
	c, n := m.run1()
	m.tape.Add(optimizer.Delta(c, n))
}

func (m *Machine) runMove() {
	c, n := m.run1()
	m.tape.Move(optimizer.Delta(c, n))
}

func (m *Machine) runOpen() {
	if m.tape.Cell() == 0 {
		m.ip = m.brackets.Match(m.ip)
		return
	}

	if !m.opts.Folds() {
		return
	}

	loop := optimizer.Classify(m.code, m.ip, m.opts)
	if runFolded(m.tape, loop, &m.counters) {
		Trace("Fold", "kind", loop.Kind, "ip", m.ip, "dp", m.tape.Pos())
		m.ip = loop.End
	}
}

func (m *Machine) runClose() {
	if m.tape.Cell() != 0 {
		m.ip = m.brackets.Match(m.ip)
	}
}

// runFolded applies the fast path of a classified loop whose counter cell
// is non-zero. It reports false when the loop has to run generically.
func runFolded(t *Tape, loop optimizer.Loop, c *Counters) bool {
	switch loop.Kind {
	case optimizer.LoopClear:
		t.Set(0)
		c.Clear++
	case optimizer.LoopScan:
		if loop.Step > 0 {
			t.ScanRight(loop.Step)
		} else {
			t.ScanLeft(-loop.Step)
		}
		c.Scan++
	case optimizer.LoopMulCopy:
		if !t.InRange(loop.MinOffset, loop.MaxOffset) {
			return false
		}

		p, v := t.Pos(), t.Cell()
		for _, term := range loop.Terms {
			i := p + term.Offset
			t.SetAt(i, t.At(i)+v*term.Factor)
		}
		t.Set(0)
		c.MulCopy++
	default:
		return false
	}

	return true
}
