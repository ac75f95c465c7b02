package core_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tapeopt/core"
)

var _ = Describe("Session", func() {
	var s *core.Session

	BeforeEach(func() {
		var err error
		s, err = core.NewBuilder().
			WithInput(strings.NewReader("x")).
			BuildSession()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should run each piece as it is typed", func() {
		pending, err := s.Feed([]byte("+++"))
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeFalse())
		Expect(s.Tape().Cell()).To(Equal(byte(3)))

		_, err = s.Feed([]byte("> ++ comment"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tape().Pos()).To(Equal(1))
		Expect(s.Tape().Cell()).To(Equal(byte(2)))
		Expect(string(s.Code())).To(Equal("+++>++"))
	})

	It("should wait for the closing bracket of a skipped loop", func() {
		pending, err := s.Feed([]byte("[+"))
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeTrue())
		Expect(s.Pending()).To(BeTrue())
		Expect(s.Tape().Cell()).To(BeZero())

		pending, err = s.Feed([]byte("]+."))
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeFalse())
		Expect(s.Output()).To(Equal([]byte{1}))
	})

	It("should finish a running loop once it is closed", func() {
		_, err := s.Feed([]byte("+++[>++<-"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tape().At(1)).To(Equal(byte(2)))

		_, err = s.Feed([]byte("]"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tape().At(0)).To(BeZero())
		Expect(s.Tape().At(1)).To(Equal(byte(6)))
	})

	It("should fold loops typed in one piece", func() {
		_, err := s.Feed([]byte("+++++[>+<-]"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tape().At(1)).To(Equal(byte(5)))
		Expect(s.Counters().MulCopy).To(Equal(int64(1)))
	})

	It("should ignore a stray closing bracket", func() {
		_, err := s.Feed([]byte("+]+"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tape().Cell()).To(Equal(byte(2)))
	})

	It("should read input and then store zero", func() {
		_, err := s.Feed([]byte(",.,."))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Output()).To(Equal([]byte{'x', 0}))
		Expect(s.Counters().EOFs).To(Equal(int64(1)))
	})

	It("should stop runaway loops", func() {
		s.SetStepLimit(50)
		_, err := s.Feed([]byte("+[>+<]"))
		Expect(errors.Is(err, core.ErrStepLimit)).To(BeTrue())
	})

	It("should snapshot and reset", func() {
		_, err := s.Feed([]byte(">>+++"))
		Expect(err).NotTo(HaveOccurred())

		snap := s.Snapshot(1)
		Expect(snap.DP).To(Equal(2))
		Expect(snap.Cell).To(Equal(byte(3)))
		Expect(snap.WindowStart).To(Equal(1))
		Expect(snap.Window).To(Equal([]byte{0, 3, 0}))

		s.Reset()
		Expect(s.Code()).To(BeEmpty())
		Expect(s.Tape().Pos()).To(BeZero())
		Expect(s.Output()).To(BeEmpty())
		Expect(s.Snapshot(1).IP).To(BeZero())
	})
})
