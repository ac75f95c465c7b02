package optimizer_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tapeopt/instr"
	"github.com/sarchlab/tapeopt/optimizer"
)

// naiveLoop runs "[body]" cell by cell. The body must not contain brackets.
func naiveLoop(tape []byte, p int, body string) int {
	for tape[p] != 0 {
		for _, c := range []byte(body) {
			switch c {
			case '+':
				tape[p]++
			case '-':
				tape[p]--
			case '>':
				p++
			case '<':
				p--
			}
		}
	}

	return p
}

func foldMulCopy(tape []byte, p int, l optimizer.Loop) {
	v := tape[p]
	for _, t := range l.Terms {
		tape[p+t.Offset] += v * t.Factor
	}
	tape[p] = 0
}

var _ = Describe("Loop classifier", func() {
	opts := optimizer.DefaultOptions()

	Describe("MatchClear", func() {
		It("should match a single decrement or increment", func() {
			for _, body := range []string{"-", "+"} {
				l, ok := optimizer.MatchClear([]byte(body))
				Expect(ok).To(BeTrue())
				Expect(l.Kind).To(Equal(optimizer.LoopClear))
			}
		})

		It("should reject anything longer", func() {
			for _, body := range []string{"", "--", "->", "."} {
				_, ok := optimizer.MatchClear([]byte(body))
				Expect(ok).To(BeFalse(), body)
			}
		})

		It("should reach zero from every start value", func() {
			for _, body := range []string{"-", "+"} {
				for v := 0; v < 256; v++ {
					tape := []byte{byte(v)}
					naiveLoop(tape, 0, body)
					Expect(tape[0]).To(BeZero())
				}
			}
		})
	})

	Describe("MatchScan", func() {
		It("should take the run length as step", func() {
			l, ok := optimizer.MatchScan([]byte(">>>"))
			Expect(ok).To(BeTrue())
			Expect(l.Step).To(Equal(3))

			l, ok = optimizer.MatchScan([]byte("<"))
			Expect(ok).To(BeTrue())
			Expect(l.Step).To(Equal(-1))
		})

		It("should reject mixed or empty bodies", func() {
			for _, body := range []string{"", "><", ">+", "<<>"} {
				_, ok := optimizer.MatchScan([]byte(body))
				Expect(ok).To(BeFalse(), body)
			}
		})
	})

	Describe("MatchMulCopy", func() {
		It("should build terms in order of first appearance", func() {
			l, ok := optimizer.MatchMulCopy([]byte("->++>+++<<"), 100)
			Expect(ok).To(BeTrue())
			Expect(l.Terms).To(Equal([]instr.Term{{Offset: 1, Factor: 2}, {Offset: 2, Factor: 3}}))
			Expect(l.MinOffset).To(Equal(0))
			Expect(l.MaxOffset).To(Equal(2))
		})

		It("should accept the decrement anywhere at offset zero", func() {
			l, ok := optimizer.MatchMulCopy([]byte(">+<-"), 100)
			Expect(ok).To(BeTrue())
			Expect(l.Terms).To(Equal([]instr.Term{{Offset: 1, Factor: 1}}))
		})

		It("should track negative offsets", func() {
			l, ok := optimizer.MatchMulCopy([]byte("-<<+>>"), 100)
			Expect(ok).To(BeTrue())
			Expect(l.Terms).To(Equal([]instr.Term{{Offset: -2, Factor: 1}}))
			Expect(l.MinOffset).To(Equal(-2))
		})

		It("should drop terms whose factor wraps to zero", func() {
			body := "->" + strings.Repeat("+", 256) + "<"
			l, ok := optimizer.MatchMulCopy([]byte(body), 100)
			Expect(ok).To(BeTrue())
			Expect(l.Terms).To(BeEmpty())
		})

		DescribeTable("should reject",
			func(body string) {
				_, ok := optimizer.MatchMulCopy([]byte(body), 100)
				Expect(ok).To(BeFalse())
			},
			Entry("non-zero displacement", "->+"),
			Entry("decrement away from the counter", "->-<"),
			Entry("counter not decremented", ">+<"),
			Entry("counter decremented twice", "-->+<"),
			Entry("output", "->+<."),
			Entry("input", "->,<"),
			Entry("nested bracket", "->[+]<"),
		)

		It("should reject too many distinct offsets", func() {
			body := "-" + strings.Repeat(">+", 5) + strings.Repeat("<", 5)
			_, ok := optimizer.MatchMulCopy([]byte(body), 4)
			Expect(ok).To(BeFalse())

			_, ok = optimizer.MatchMulCopy([]byte(body), 5)
			Expect(ok).To(BeTrue())
		})

		DescribeTable("should match naive execution",
			func(body string) {
				l, ok := optimizer.MatchMulCopy([]byte(body), 100)
				Expect(ok).To(BeTrue())

				for _, start := range []byte{0, 1, 5, 77, 255} {
					naive := []byte{3, 9, start, 11, 4, 0}
					folded := append([]byte(nil), naive...)

					naiveLoop(naive, 2, body)
					if start != 0 {
						foldMulCopy(folded, 2, l)
					}

					Expect(folded).To(Equal(naive))
				}
			},
			Entry("copy", "->+<"),
			Entry("double", "->++<"),
			Entry("triple", ">+++<-"),
			Entry("factor 255", "->"+strings.Repeat("+", 255)+"<"),
			Entry("two targets", "->+>++<<"),
			Entry("two targets left and right", "-<+++>>+<"),
			Entry("three targets", "->+>+++>+++++<<<"),
		)
	})

	Describe("Classify", func() {
		It("should fold innermost loops in priority order", func() {
			Expect(optimizer.Classify([]byte("[-]"), 0, opts).Kind).To(Equal(optimizer.LoopClear))
			Expect(optimizer.Classify([]byte("[>>]"), 0, opts).Kind).To(Equal(optimizer.LoopScan))
			Expect(optimizer.Classify([]byte("[->+<]"), 0, opts).Kind).To(Equal(optimizer.LoopMulCopy))
			Expect(optimizer.Classify([]byte("[.-]"), 0, opts).Kind).To(Equal(optimizer.LoopGeneric))
		})

		It("should report the closing bracket", func() {
			l := optimizer.Classify([]byte("+[>+<-]>"), 1, opts)
			Expect(l.End).To(Equal(6))
		})

		It("should keep outer loops generic", func() {
			l := optimizer.Classify([]byte("[[-]]"), 0, opts)
			Expect(l.Kind).To(Equal(optimizer.LoopGeneric))
			Expect(l.End).To(Equal(-1))
		})

		It("should keep unclosed loops generic", func() {
			l := optimizer.Classify([]byte("[-"), 0, opts)
			Expect(l.Kind).To(Equal(optimizer.LoopGeneric))
			Expect(l.End).To(Equal(-1))
		})

		It("should honour disabled rewrites", func() {
			o := optimizer.DefaultOptions()
			o.Scan = false
			Expect(optimizer.Classify([]byte("[>]"), 0, o).Kind).To(Equal(optimizer.LoopGeneric))

			o = optimizer.NoOptions()
			Expect(optimizer.Classify([]byte("[-]"), 0, o).Kind).To(Equal(optimizer.LoopGeneric))
		})

		It("should ignore positions that are not '['", func() {
			Expect(optimizer.Classify([]byte("+[-]"), 0, opts).End).To(Equal(-1))
		})
	})
})
