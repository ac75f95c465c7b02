package core_test

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tapeopt/core"
	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

const helloWorld = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`

func run(b core.Builder, src string) (*core.Machine, string, error) {
	var out bytes.Buffer

	m, err := b.WithOutput(&out).Build(program.Sanitize([]byte(src)))
	if err != nil {
		return nil, "", err
	}

	err = m.Run()

	return m, out.String(), err
}

var _ = Describe("Machine", func() {
	var b core.Builder

	BeforeEach(func() {
		b = core.NewBuilder()
	})

	It("should print hello world", func() {
		_, out, err := run(b, helloWorld)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Hello World!\n"))
	})

	It("should print the same without any rewrite", func() {
		_, out, err := run(b.WithOptions(optimizer.NoOptions()), helloWorld)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Hello World!\n"))
	})

	It("should compute 4*4 through a folded loop", func() {
		m, out, err := run(b.WithTapeSize(256), "++++[>++++<-]>.")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("\x10"))
		Expect(m.Tape().At(1)).To(Equal(byte(16)))
		Expect(m.Counters().MulCopy).To(Equal(int64(1)))
	})

	It("should move the counter without running the loop", func() {
		m, _, err := run(b, "+++++[>+<-]")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape().At(0)).To(BeZero())
		Expect(m.Tape().At(1)).To(Equal(byte(5)))

		c := m.Counters()
		Expect(c.MulCopy).To(Equal(int64(1)))
		Expect(c.Steps).To(Equal(int64(2)))
	})

	It("should skip a loop whose cell is zero", func() {
		m, out, err := run(b, "[.>+<]+.")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("\x01"))
		Expect(m.Tape().At(1)).To(BeZero())
	})

	It("should clear and scan", func() {
		m, _, err := run(b, "+++[-]>+>+>+>>+<<<<[>]<[<]")
		Expect(err).NotTo(HaveOccurred())
		c := m.Counters()
		Expect(c.Clear).To(Equal(int64(1)))
		Expect(c.Scan).To(Equal(int64(2)))
		Expect(m.Tape().Pos()).To(Equal(0))
	})

	It("should echo input and store zero at end of input", func() {
		var out bytes.Buffer
		m, err := b.WithInput(strings.NewReader("ab")).
			WithOutput(&out).
			Build([]byte(",.,.,."))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())
		Expect(out.Bytes()).To(Equal([]byte{'a', 'b', 0}))
		Expect(m.Counters().EOFs).To(Equal(int64(1)))
	})

	DescribeTable("EOF policies",
		func(p program.EOFPolicy, want byte) {
			m, err := b.WithEOF(p).Build([]byte("+++++,"))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Run()).To(Succeed())
			Expect(m.Tape().Cell()).To(Equal(want))
		},
		Entry("zero", program.EOFZero, byte(0)),
		Entry("unchanged", program.EOFUnchanged, byte(5)),
		Entry("max", program.EOFMax, byte(255)),
	)

	It("should report unmatched brackets", func() {
		_, _, err := run(b, "[")
		Expect(errors.Is(err, program.ErrUnmatchedBracket)).To(BeTrue())
	})

	It("should report an allocation failure", func() {
		_, _, err := run(b.WithTapeSize(0), "+")
		Expect(errors.Is(err, core.ErrAllocation)).To(BeTrue())
	})

	It("should stop at the step limit", func() {
		_, _, err := run(b.WithStepLimit(100), "+[]")
		Expect(errors.Is(err, core.ErrStepLimit)).To(BeTrue())
	})

	It("should run a multiply loop generically near the edge", func() {
		m, _, err := run(b.WithTapeSize(4), ">>>+++[<<<+>>>-]")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape().At(0)).To(Equal(byte(3)))
		Expect(m.Counters().MulCopy).To(Equal(int64(1)))

		m, _, err = run(b.WithTapeSize(4), ">>>++[>+<-]")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Counters().MulCopy).To(BeZero())
		Expect(m.Tape().At(2)).To(BeZero())
		Expect(m.Tape().At(3)).To(Equal(byte(2)))
	})

	It("should keep dead pairs when asked to", func() {
		opts := optimizer.DefaultOptions()
		opts.DeadPairs = false
		m, _, err := run(b.WithOptions(opts), "<>+")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape().At(1)).To(Equal(byte(1)))
		Expect(m.Counters().Clamps).To(Equal(int64(1)))

		m, _, err = run(b, "<>+")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape().At(0)).To(Equal(byte(1)))
	})
})

var _ = Describe("Tracer", func() {
	It("should render cells", func() {
		Expect(core.CharRepr(0)).To(Equal(`\0`))
		Expect(core.CharRepr('\n')).To(Equal(`\n`))
		Expect(core.CharRepr('\r')).To(Equal(`\r`))
		Expect(core.CharRepr('\t')).To(Equal(`\t`))
		Expect(core.CharRepr('A')).To(Equal("A"))
		Expect(core.CharRepr(0x7F)).To(Equal(`\x7F`))
		Expect(core.CharRepr(200)).To(Equal(`\xC8`))
	})

	It("should clamp the window", func() {
		Expect(core.ClampWindow(0)).To(Equal(1))
		Expect(core.ClampWindow(100)).To(Equal(64))
		Expect(core.NewTracer(nil, 8).Window()).To(Equal(8))
	})

	It("should write one line per instruction", func() {
		var trace bytes.Buffer
		m, err := core.NewBuilder().
			WithTracer(core.NewTracer(&trace, 2)).
			Build([]byte("+++>+"))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())

		lines := strings.Split(strings.TrimRight(trace.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(Equal("[DEBUG] ip=2 instr=+ dp=0 val=3 ch='\\x03' | tape[0..2]: [3] 0 0 "))
		Expect(lines[2]).To(Equal("[DEBUG] ip=4 instr=+ dp=1 val=1 ch='\\x01' | tape[0..3]: 3 [1] 0 0 "))
	})

	It("should break the line after partial output", func() {
		var trace, out bytes.Buffer
		m, err := core.NewBuilder().
			WithOutput(&out).
			WithTracer(core.NewTracer(&trace, 1)).
			Build(program.Sanitize([]byte("++++++++[>++++++++<-]>+.")))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())

		Expect(out.String()).To(Equal("A"))
		Expect(trace.String()).To(ContainSubstring("\n\n[DEBUG] ip=23 instr=. dp=1 val=65 ch='A'"))
	})

	It("should dump the tape as a table", func() {
		m, _, err := run(core.NewBuilder(), "+>++>+++")
		Expect(err).NotTo(HaveOccurred())

		var dump bytes.Buffer
		core.PrintState(&dump, m.Tape())
		Expect(dump.String()).To(ContainSubstring("[3]"))
		Expect(dump.String()).To(ContainSubstring("dp=2"))
	})
})

var _ = Describe("Counters", func() {
	It("should render as a table", func() {
		m, _, err := run(core.NewBuilder(), "+++[>+<-][-]")
		Expect(err).NotTo(HaveOccurred())

		out := m.Counters().Table()
		Expect(out).To(ContainSubstring("multiply/copy fast paths"))
		Expect(out).To(MatchRegexp(`(?i)folded\s*\|\s*1`))
	})
})
