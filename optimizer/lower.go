package optimizer

import (
	"log/slog"

	"github.com/sarchlab/tapeopt/instr"
	"github.com/sarchlab/tapeopt/program"
)

// Result is the output of Lower.
type Result struct {
	// Code is the stream that was lowered, after dead-pair elimination.
	Code  []byte
	Insts []instr.Inst
	Stats Stats
}

// Lower runs the optimizer over a sanitized stream and produces the decision
// stream for the static backends. Brackets are validated first, so a
// malformed program yields no instructions at all.
func Lower(code []byte, opts Options) (*Result, error) {
	var stats Stats

	if opts.DeadPairs {
		code, stats.DeadPairs = EliminateDeadPairs(code)
	}

	if _, err := program.Match(code, opts.MaxDepth); err != nil {
		return nil, err
	}

	l := lowering{code: code, opts: opts, stats: &stats}
	l.run()

	slog.Debug("Lowered",
		"symbols", len(code),
		"insts", len(l.insts),
		"dead_pairs", stats.DeadPairs,
		"clear", stats.Clear,
		"scan", stats.Scan,
		"mulcopy", stats.MulCopy,
		"generic", stats.Generic,
	)

	return &Result{Code: code, Insts: l.insts, Stats: stats}, nil
}

type lowering struct {
	code  []byte
	opts  Options
	stats *Stats

	insts     []instr.Inst
	open      []int
	nextLabel int
}

func (l *lowering) label() int {
	id := l.nextLabel
	l.nextLabel++

	return id
}

func (l *lowering) run() {
	for i := 0; i < len(l.code); {
		i = l.step(i)
	}
}

func (l *lowering) step(i int) int {
	c := l.code[i]

	switch c {
	case program.OpInc, program.OpDec:
		return l.run1(instr.Add, i)
	case program.OpRight, program.OpLeft:
		return l.run1(instr.Move, i)
	case program.OpOutput:
		l.emit(instr.Inst{Kind: instr.Output, Pos: i})
	case program.OpInput:
		l.emit(instr.Inst{Kind: instr.Input, Pos: i})
	case program.OpOpen:
		return l.loopOpen(i)
	case program.OpClose:
		l.loopClose(i)
	}

	return i + 1
}

func (l *lowering) run1(kind instr.Kind, i int) int {
	n := 1
	if l.opts.RunLength {
		n = RunLength(l.code, i)
	}

	if n > 1 {
		l.stats.Runs++
		l.stats.Collapsed += n - 1
	}

	l.emit(instr.Inst{Kind: kind, Arg: Delta(l.code[i], n), Pos: i})

	return i + n
}

func (l *lowering) loopOpen(i int) int {
	if l.opts.Folds() {
		loop := Classify(l.code, i, l.opts)

		switch loop.Kind {
		case LoopClear:
			l.stats.Clear++
			l.emit(instr.Inst{Kind: instr.Clear, Pos: i})

			return loop.End + 1
		case LoopScan:
			l.stats.Scan++
			l.emit(instr.Inst{Kind: instr.Scan, Arg: loop.Step, Label: l.label(), Pos: i})

			return loop.End + 1
		case LoopMulCopy:
			l.stats.MulCopy++
			l.emit(instr.Inst{Kind: instr.MulCopy, Terms: loop.Terms, Pos: i})

			return loop.End + 1
		}
	}

	l.stats.Generic++
	l.open = append(l.open, len(l.insts))
	l.emit(instr.Inst{Kind: instr.LoopBegin, Label: l.label(), Pos: i})

	return i + 1
}

func (l *lowering) loopClose(i int) {
	n := len(l.open) - 1
	begin := l.open[n]
	l.open = l.open[:n]

	l.insts[begin].Arg = len(l.insts)
	l.emit(instr.Inst{
		Kind:  instr.LoopEnd,
		Arg:   begin,
		Label: l.insts[begin].Label,
		Pos:   i,
	})
}

func (l *lowering) emit(in instr.Inst) {
	l.insts = append(l.insts, in)
}
