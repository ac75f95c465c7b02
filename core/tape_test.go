package core

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// naiveScan repeats the loop body one step at a time under the clamp policy.
// It gives up after limit iterations.
func naiveScan(t *Tape, step, limit int) bool {
	for i := 0; t.Cell() != 0; i++ {
		if i == limit {
			return false
		}
		t.Move(step)
	}

	return true
}

var _ = Describe("Tape", func() {
	var t *Tape

	BeforeEach(func() {
		var err error
		t, err = NewTape(16)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject impossible sizes", func() {
		for _, n := range []int{0, -1, MaxTapeSize + 1} {
			_, err := NewTape(n)
			Expect(errors.Is(err, ErrAllocation)).To(BeTrue())
		}
	})

	It("should wrap cells modulo 256", func() {
		t.Add(-1)
		Expect(t.Cell()).To(Equal(byte(255)))
		t.Add(3)
		Expect(t.Cell()).To(Equal(byte(2)))
		t.Add(512)
		Expect(t.Cell()).To(Equal(byte(2)))
	})

	It("should clamp moves at both ends", func() {
		t.Move(-3)
		Expect(t.Pos()).To(Equal(0))
		t.Move(100)
		Expect(t.Pos()).To(Equal(15))
		Expect(t.Clamps()).To(Equal(int64(2)))
		t.Move(-5)
		Expect(t.Pos()).To(Equal(10))
	})

	It("should check offset ranges", func() {
		t.Seek(2)
		Expect(t.InRange(-2, 13)).To(BeTrue())
		Expect(t.InRange(-3, 0)).To(BeFalse())
		Expect(t.InRange(0, 14)).To(BeFalse())
	})

	Describe("ScanRight", func() {
		It("should stop on the nearest zero on a step boundary", func() {
			for i := 0; i < 16; i++ {
				t.SetAt(i, 1)
			}
			t.SetAt(5, 0)
			t.SetAt(7, 0)

			t.Seek(1)
			t.ScanRight(3)
			Expect(t.Pos()).To(Equal(7))

			t.Seek(1)
			t.ScanRight(1)
			Expect(t.Pos()).To(Equal(5))
		})

		It("should clamp to the last cell without a zero", func() {
			for i := 0; i < 16; i++ {
				t.SetAt(i, 1)
			}
			t.SetAt(4, 0)

			t.Seek(5)
			t.ScanRight(2)
			Expect(t.Pos()).To(Equal(15))
		})

		It("should match naive execution when a zero is reachable", func() {
			pattern := []byte{1, 2, 0, 3, 4, 5, 0, 6, 7, 8, 9, 0, 1, 1, 1, 0}
			for step := 1; step <= 4; step++ {
				for start := 0; start < 16; start++ {
					a, _ := NewTape(16)
					b, _ := NewTape(16)
					for i, v := range pattern {
						a.SetAt(i, v)
						b.SetAt(i, v)
					}
					a.Seek(start)
					b.Seek(start)

					if !naiveScan(a, step, 64) {
						continue
					}
					b.ScanRight(step)
					Expect(b.Pos()).To(Equal(a.Pos()), "step %d start %d", step, start)
				}
			}
		})
	})

	Describe("ScanLeft", func() {
		It("should stop on a zero on a step boundary", func() {
			for i := 0; i < 16; i++ {
				t.SetAt(i, 1)
			}
			t.SetAt(3, 0)
			t.SetAt(8, 0)

			t.Seek(12)
			t.ScanLeft(3)
			Expect(t.Pos()).To(Equal(3))
		})

		It("should clamp to cell 0", func() {
			for i := 0; i < 16; i++ {
				t.SetAt(i, 1)
			}

			t.Seek(10)
			t.ScanLeft(4)
			Expect(t.Pos()).To(Equal(0))
		})

		It("should not move from a zero cell", func() {
			t.Seek(9)
			t.ScanLeft(2)
			Expect(t.Pos()).To(Equal(9))
		})
	})

	It("should return a window around the pointer", func() {
		t.Seek(1)
		t.Set(9)
		start, cells := t.Window(3)
		Expect(start).To(Equal(0))
		Expect(cells).To(Equal([]byte{0, 9, 0, 0, 0}))

		t.Seek(15)
		start, cells = t.Window(2)
		Expect(start).To(Equal(13))
		Expect(cells).To(HaveLen(3))
	})

	It("should reset", func() {
		t.Seek(4)
		t.Set(3)
		t.Reset()
		Expect(t.Pos()).To(Equal(0))
		Expect(t.Bytes()).To(Equal(make([]byte, 16)))
		Expect(t.Used()).To(Equal(1))
	})
})
