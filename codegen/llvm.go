package codegen

import (
	"fmt"
	"strings"

	"github.com/sarchlab/tapeopt/instr"
	"github.com/sarchlab/tapeopt/program"
)

// LLVM emits textual LLVM IR with opaque pointers. The program is a single
// @main that keeps the tape on the stack and the pointer in an i64 slot.
type LLVM struct {
	tapeSize int
	eof      program.EOFPolicy
	reg      int
	b        strings.Builder
}

// NewLLVM creates an LLVM IR backend.
func NewLLVM(tapeSize int, eof program.EOFPolicy) *LLVM {
	return &LLVM{tapeSize: tapeSize, eof: eof}
}

func (l *LLVM) next() string {
	r := fmt.Sprintf("%%r%d", l.reg)
	l.reg++

	return r
}

func (l *LLVM) line(format string, args ...any) {
	l.b.WriteString("  ")
	fmt.Fprintf(&l.b, format, args...)
	l.b.WriteByte('\n')
}

// block closes the current basic block with a branch and opens name.
func (l *LLVM) block(name string) {
	fmt.Fprintf(&l.b, "\n%s:\n", name)
}

func (l *LLVM) tapeType() string {
	return fmt.Sprintf("[%d x i8]", l.tapeSize)
}

// index loads the pointer and adds off to it.
func (l *LLVM) index(off int) string {
	p := l.next()
	l.line("%s = load i64, ptr %%ptr, align 8", p)

	if off == 0 {
		return p
	}

	q := l.next()
	l.line("%s = add i64 %s, %d", q, p, off)

	return q
}

// cellAt returns a register holding the address of the cell at off.
func (l *LLVM) cellAt(off int) string {
	i := l.index(off)
	c := l.next()
	l.line("%s = getelementptr inbounds %s, ptr %%memory, i64 0, i64 %s", c, l.tapeType(), i)

	return c
}

func (l *LLVM) load(cell string) string {
	v := l.next()
	l.line("%s = load i8, ptr %s, align 1", v, cell)

	return v
}

func (l *LLVM) Prologue() {
	l.b.WriteString("; ModuleID = 'tapeopt'\n")
	l.b.WriteString("source_filename = \"tapeopt\"\n")
	l.b.WriteString("target triple = \"x86_64-pc-linux-gnu\"\n\n")
	l.b.WriteString("declare i32 @putchar(i32)\n")
	l.b.WriteString("declare i32 @getchar()\n")
	l.b.WriteString("declare void @llvm.memset.p0.i64(ptr nocapture writeonly, i8, i64, i1 immarg)\n\n")
	l.b.WriteString("define dso_local i32 @main() {\n")
	l.b.WriteString("entry:\n")
	l.line("%%memory = alloca %s, align 16", l.tapeType())
	l.line("call void @llvm.memset.p0.i64(ptr align 16 %%memory, i8 0, i64 %d, i1 false)", l.tapeSize)
	l.line("%%ptr = alloca i64, align 8")
	l.line("store i64 0, ptr %%ptr, align 8")
	l.line("br label %%code")
	l.block("code")
}

func (l *LLVM) Add(n int) {
	k := cellAmount(n)
	if k == 0 {
		return
	}

	c := l.cellAt(0)
	v := l.load(c)
	r := l.next()
	l.line("%s = add i8 %s, %d", r, v, int8(k))
	l.line("store i8 %s, ptr %s, align 1", r, c)
}

func (l *LLVM) Move(n int) {
	if n == 0 {
		return
	}

	p := l.index(n)
	l.line("store i64 %s, ptr %%ptr, align 8", p)
}

func (l *LLVM) Output() {
	v := l.load(l.cellAt(0))
	x := l.next()
	l.line("%s = zext i8 %s to i32", x, v)
	l.line("call i32 @putchar(i32 %s)", x)
}

// Input stores the byte read, or the end-of-input value when getchar
// returns -1.
func (l *LLVM) Input() {
	in := l.next()
	l.line("%s = call i32 @getchar()", in)
	eof := l.next()
	l.line("%s = icmp eq i32 %s, -1", eof, in)
	t := l.next()
	l.line("%s = trunc i32 %s to i8", t, in)

	c := l.cellAt(0)

	var fallback string
	switch l.eof {
	case program.EOFUnchanged:
		fallback = l.load(c)
	case program.EOFMax:
		fallback = "-1"
	default:
		fallback = "0"
	}

	v := l.next()
	l.line("%s = select i1 %s, i8 %s, i8 %s", v, eof, fallback, t)
	l.line("store i8 %s, ptr %s, align 1", v, c)
}

// test branches to yes if the current cell is non-zero and to no otherwise.
func (l *LLVM) test(yes, no string) {
	v := l.load(l.cellAt(0))
	cmp := l.next()
	l.line("%s = icmp ne i8 %s, 0", cmp, v)
	l.line("br i1 %s, label %%%s, label %%%s", cmp, yes, no)
}

func (l *LLVM) LoopBegin(id int) {
	check := fmt.Sprintf("loop_check%d", id)

	l.line("br label %%%s", check)
	l.block(check)
	l.test(fmt.Sprintf("loop_body%d", id), fmt.Sprintf("loop_end%d", id))
	l.block(fmt.Sprintf("loop_body%d", id))
}

func (l *LLVM) LoopEnd(id int) {
	l.line("br label %%loop_check%d", id)
	l.block(fmt.Sprintf("loop_end%d", id))
}

func (l *LLVM) Clear() {
	c := l.cellAt(0)
	l.line("store i8 0, ptr %s, align 1", c)
}

func (l *LLVM) Scan(id, step int) {
	check := fmt.Sprintf("scan_check%d", id)

	l.line("br label %%%s", check)
	l.block(check)
	l.test(fmt.Sprintf("scan_step%d", id), fmt.Sprintf("scan_end%d", id))
	l.block(fmt.Sprintf("scan_step%d", id))
	l.Move(step)
	l.line("br label %%%s", check)
	l.block(fmt.Sprintf("scan_end%d", id))
}

func (l *LLVM) MulCopy(terms []instr.Term) {
	src := l.cellAt(0)
	v := l.load(src)

	for _, t := range terms {
		dst := l.cellAt(t.Offset)
		old := l.load(dst)

		prod := v
		if t.Factor != 1 {
			prod = l.next()
			l.line("%s = mul i8 %s, %d", prod, v, int8(t.Factor))
		}

		sum := l.next()
		l.line("%s = add i8 %s, %s", sum, old, prod)
		l.line("store i8 %s, ptr %s, align 1", sum, dst)
	}

	l.line("store i8 0, ptr %s, align 1", src)
}

func (l *LLVM) Epilogue() {
	l.line("ret i32 0")
	l.b.WriteString("}\n")
}

func (l *LLVM) Source() string {
	return l.b.String()
}
