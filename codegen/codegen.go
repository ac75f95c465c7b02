// Package codegen turns the optimizer's decision stream into target source.
// One dispatch loop drives a Backend; each target is a Backend that appends
// its own statements.
package codegen

import (
	"fmt"
	"strings"

	"github.com/sarchlab/tapeopt/instr"
	"github.com/sarchlab/tapeopt/program"
)

// Backend receives one call per lowered instruction.
type Backend interface {
	Prologue()
	Add(n int)
	Move(n int)
	Output()
	Input()
	LoopBegin(id int)
	LoopEnd(id int)
	Clear()
	Scan(id, step int)
	MulCopy(terms []instr.Term)
	Epilogue()
	Source() string
}

// Emit drives b over insts and returns the complete program.
func Emit(insts []instr.Inst, b Backend) string {
	b.Prologue()

	for _, in := range insts {
		switch in.Kind {
		case instr.Add:
			b.Add(in.Arg)
		case instr.Move:
			b.Move(in.Arg)
		case instr.Output:
			b.Output()
		case instr.Input:
			b.Input()
		case instr.LoopBegin:
			b.LoopBegin(in.Label)
		case instr.LoopEnd:
			b.LoopEnd(in.Label)
		case instr.Clear:
			b.Clear()
		case instr.Scan:
			b.Scan(in.Label, in.Arg)
		case instr.MulCopy:
			b.MulCopy(in.Terms)
		}
	}

	b.Epilogue()

	return b.Source()
}

// Target names an output language.
type Target string

const (
	TargetX86   Target = "x86"
	TargetX8664 Target = "x86_64"
	TargetLLVM  Target = "llvm"
)

// Targets lists the supported targets.
var Targets = []Target{TargetX86, TargetX8664, TargetLLVM}

// ParseTarget accepts a target name or one of its common aliases.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "x86", "i386", "386", "ia32":
		return TargetX86, nil
	case "x86_64", "x86-64", "amd64", "x64":
		return TargetX8664, nil
	case "llvm", "ll", "llvm-ir":
		return TargetLLVM, nil
	}

	return "", fmt.Errorf("unknown target %q", s)
}

// Ext returns the usual file extension of the target's source.
func (t Target) Ext() string {
	if t == TargetLLVM {
		return ".ll"
	}

	return ".s"
}

// New creates a fresh backend for target.
func New(target Target, tapeSize int, eof program.EOFPolicy) (Backend, error) {
	if tapeSize < 1 {
		return nil, fmt.Errorf("invalid tape size %d", tapeSize)
	}

	switch target {
	case TargetX86:
		return NewX86(tapeSize, eof), nil
	case TargetX8664:
		return NewX8664(tapeSize, eof), nil
	case TargetLLVM:
		return NewLLVM(tapeSize, eof), nil
	}

	return nil, fmt.Errorf("unknown target %q", target)
}

// cellAmount reduces a cell increment to [0, 255].
func cellAmount(n int) uint8 {
	return uint8(n)
}
