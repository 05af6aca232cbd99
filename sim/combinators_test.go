package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AnyOf", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = New()
	})

	It("fires once the earliest input fires", func() {
		a := s.Timeout(5)
		b := s.Timeout(2)

		result := s.AnyOf(a, b)
		s.Run()

		Expect(result.Processed()).To(BeTrue())
	})

	It("fires immediately if an input is already Processed", func() {
		a := s.Event()
		a.Trigger()
		s.Step()

		result := s.AnyOf(a)

		Expect(result.Pending()).To(BeFalse())
	})

	It("never fires if every input is Aborted", func() {
		a := s.Event()
		b := s.Event()
		a.Abort()
		b.Abort()

		result := s.AnyOf(a, b)
		s.Run()

		Expect(result.Pending()).To(BeTrue())
	})

	It("ignores an Aborted input among several", func() {
		a := s.Event()
		b := s.Timeout(4)
		a.Abort()

		result := s.AnyOf(a, b)
		s.Run()

		Expect(result.Processed()).To(BeTrue())
	})
})

var _ = Describe("AllOf", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = New()
	})

	It("fires once every input has fired", func() {
		a := s.Timeout(2)
		b := s.Timeout(5)

		result := s.AllOf(a, b)

		s.Step() // a fires
		Expect(result.Pending()).To(BeTrue())

		s.Step() // b fires, triggering result
		s.Step() // result is processed
		Expect(result.Processed()).To(BeTrue())
	})

	It("fires immediately if every input is already Processed", func() {
		a := s.Event()
		a.Trigger()
		s.Step()

		result := s.AllOf(a)

		Expect(result.Pending()).To(BeFalse())
	})

	It("never fires if any input is Aborted before processing", func() {
		a := s.Timeout(2)
		b := s.Event()
		b.Abort()

		result := s.AllOf(a, b)
		s.Run()

		Expect(result.Pending()).To(BeTrue())
	})
})

var _ = Describe("AnyOfValue", func() {
	It("carries the winning input's value", func() {
		s := New()

		a := TimeoutValue(s, 5, "slow")
		b := TimeoutValue(s, 2, "fast")

		result := AnyOfValue(s, a, b)
		s.Run()

		Expect(result.Value()).To(Equal("fast"))
	})
})
