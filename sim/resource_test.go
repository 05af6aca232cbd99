package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resource", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = New()
	})

	It("grants a request immediately when units are available", func() {
		r := NewResource(s, 1)

		req := r.Request()

		Expect(req.Pending()).To(BeFalse())
		Expect(r.Available()).To(Equal(uint64(0)))
	})

	It("queues a request when no units are available", func() {
		r := NewResource(s, 1)

		first := r.Request()
		second := r.Request()

		Expect(first.Pending()).To(BeFalse())
		Expect(second.Pending()).To(BeTrue())
	})

	It("grants the oldest queued request on Release", func() {
		r := NewResource(s, 1)

		r.Request()
		second := r.Request()

		r.Release()

		Expect(second.Pending()).To(BeFalse())
		Expect(r.Available()).To(Equal(uint64(0)))
	})

	It("skips an Aborted waiter when draining", func() {
		r := NewResource(s, 1)

		r.Request()
		second := r.Request()
		third := r.Request()

		second.Abort()
		r.Release()

		Expect(third.Pending()).To(BeFalse(), "the unit should skip past the aborted waiter")
	})

	It("reports Capacity as the starting availability", func() {
		r := NewResource(s, 3)
		Expect(r.Capacity()).To(Equal(uint64(3)))

		r.Request()
		Expect(r.Capacity()).To(Equal(uint64(3)))
	})
})
