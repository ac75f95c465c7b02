package codegen

import (
	"fmt"
	"strings"

	"github.com/sarchlab/tapeopt/instr"
	"github.com/sarchlab/tapeopt/program"
)

// dialect holds what differs between the two AT&T assembly targets.
type dialect struct {
	ptr    string
	suffix string
	setup  []string
	write  []string
	read   []string
	exit   []string
}

var i386 = dialect{
	ptr:    "%ecx",
	suffix: "l",
	// %esi and %edi hold the constants 1 and 0 for the whole program.
	setup: []string{
		"leal memory, %ecx",
		"movl $1, %esi",
		"movl $0, %edi",
	},
	write: []string{
		"movl $4, %eax",
		"movl %esi, %ebx",
		"movl %esi, %edx",
		"int $0x80",
	},
	read: []string{
		"movl $3, %eax",
		"movl %edi, %ebx",
		"movl %esi, %edx",
		"int $0x80",
	},
	exit: []string{
		"movl $1, %eax",
		"xorl %ebx, %ebx",
		"int $0x80",
	},
}

var amd64 = dialect{
	ptr:    "%r12",
	suffix: "q",
	setup: []string{
		"leaq memory(%rip), %r12",
	},
	write: []string{
		"movq $1, %rax",
		"movq $1, %rdi",
		"movq %r12, %rsi",
		"movq $1, %rdx",
		"syscall",
	},
	read: []string{
		"movq $0, %rax",
		"movq $0, %rdi",
		"movq %r12, %rsi",
		"movq $1, %rdx",
		"syscall",
	},
	exit: []string{
		"movq $60, %rax",
		"xorq %rdi, %rdi",
		"syscall",
	},
}

// Asm emits a freestanding Linux program in GNU AT&T syntax that talks to
// the kernel directly. Pointer arithmetic in the output is unchecked.
type Asm struct {
	d        dialect
	tapeSize int
	eof      program.EOFPolicy
	b        strings.Builder
}

// NewX86 creates an i386 backend using int $0x80 system calls.
func NewX86(tapeSize int, eof program.EOFPolicy) *Asm {
	return &Asm{d: i386, tapeSize: tapeSize, eof: eof}
}

// NewX8664 creates an x86-64 backend using syscall.
func NewX8664(tapeSize int, eof program.EOFPolicy) *Asm {
	return &Asm{d: amd64, tapeSize: tapeSize, eof: eof}
}

func (a *Asm) line(format string, args ...any) {
	a.b.WriteString("    ")
	fmt.Fprintf(&a.b, format, args...)
	a.b.WriteByte('\n')
}

func (a *Asm) lines(ls []string) {
	for _, l := range ls {
		a.line("%s", l)
	}
}

func (a *Asm) label(format string, args ...any) {
	fmt.Fprintf(&a.b, format, args...)
	a.b.WriteString(":\n")
}

func (a *Asm) cell() string {
	return "(" + a.d.ptr + ")"
}

func (a *Asm) Prologue() {
	a.b.WriteString(".section .note.GNU-stack,\"\",%progbits\n")
	a.b.WriteString(".section .data\n")
	fmt.Fprintf(&a.b, "memory: .skip %d\n", a.tapeSize)
	a.b.WriteString(".section .text\n")
	a.b.WriteString(".global _start\n")
	a.label("_start")
	a.lines(a.d.setup)
}

func (a *Asm) Add(n int) {
	switch k := cellAmount(n); {
	case k == 0:
	case k == 1:
		a.line("incb %s", a.cell())
	case k == 0xFF:
		a.line("decb %s", a.cell())
	case k < 0x80:
		a.line("addb $%d, %s", k, a.cell())
	default:
		a.line("subb $%d, %s", 256-int(k), a.cell())
	}
}

func (a *Asm) Move(n int) {
	s := a.d.suffix

	switch {
	case n == 0:
	case n == 1:
		a.line("inc%s %s", s, a.d.ptr)
	case n == -1:
		a.line("dec%s %s", s, a.d.ptr)
	case n > 0:
		a.line("add%s $%d, %s", s, n, a.d.ptr)
	default:
		a.line("sub%s $%d, %s", s, -n, a.d.ptr)
	}
}

func (a *Asm) Output() {
	a.lines(a.d.write)
}

// Input stores the end-of-input value first; a read of zero bytes leaves it
// in place.
func (a *Asm) Input() {
	switch a.eof {
	case program.EOFZero:
		a.line("movb $0, %s", a.cell())
	case program.EOFMax:
		a.line("movb $255, %s", a.cell())
	}

	a.lines(a.d.read)
}

func (a *Asm) LoopBegin(id int) {
	a.line("cmpb $0, %s", a.cell())
	a.line("je bracket_%d_end", id)
	a.label("bracket_%d_start", id)
}

func (a *Asm) LoopEnd(id int) {
	a.line("cmpb $0, %s", a.cell())
	a.line("jne bracket_%d_start", id)
	a.label("bracket_%d_end", id)
}

func (a *Asm) Clear() {
	a.line("movb $0, %s", a.cell())
}

func (a *Asm) Scan(id, step int) {
	a.label("scan_%d", id)
	a.line("cmpb $0, %s", a.cell())
	a.line("je scan_%d_end", id)
	a.Move(step)
	a.line("jmp scan_%d", id)
	a.label("scan_%d_end", id)
}

// MulCopy uses %al and %dl as scratch: mulb leaves the low byte of the
// product in %al.
func (a *Asm) MulCopy(terms []instr.Term) {
	for _, t := range terms {
		a.line("movb %s, %%al", a.cell())

		if t.Factor != 1 {
			a.line("movb $%d, %%dl", t.Factor)
			a.line("mulb %%dl")
		}

		a.line("addb %%al, %d%s", t.Offset, a.cell())
	}

	a.Clear()
}

func (a *Asm) Epilogue() {
	a.lines(a.d.exit)
}

func (a *Asm) Source() string {
	return a.b.String()
}
