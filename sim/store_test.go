package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = New()
	})

	It("fires Put immediately when there is room", func() {
		st := NewStore[int](s, 2)

		put := st.Put(7)

		Expect(put.Pending()).To(BeFalse())
		Expect(st.Len()).To(Equal(1))
	})

	It("queues a Put once the store is full", func() {
		st := NewStore[int](s, 1)

		st.Put(1)
		second := st.Put(2)

		Expect(second.Pending()).To(BeTrue())
		Expect(st.Len()).To(Equal(1))
	})

	It("fires Get immediately when a value is already present", func() {
		st := NewStore[string](s, Unbounded)
		st.Put("a")

		get := st.Get()

		Expect(get.Processed()).To(BeFalse())
		Expect(get.Triggered()).To(BeTrue())
	})

	It("parks Get until a value arrives, then delivers it in FIFO order", func() {
		st := NewStore[int](s, Unbounded)

		first := st.Get()
		second := st.Get()

		Expect(first.Pending()).To(BeTrue())
		Expect(second.Pending()).To(BeTrue())

		st.Put(10)
		st.Put(20)

		s.Run()

		Expect(first.Value()).To(Equal(10))
		Expect(second.Value()).To(Equal(20))
	})

	It("hands a freed slot to the oldest queued Put once a Get drains a value", func() {
		st := NewStore[int](s, 1)

		st.Put(1)
		secondPut := st.Put(2)

		Expect(secondPut.Pending()).To(BeTrue())

		get := st.Get()
		s.Run()

		Expect(get.Value()).To(Equal(1))
		Expect(secondPut.Processed()).To(BeTrue())
		Expect(st.Len()).To(Equal(1))
	})

	It("skips an Aborted Get when draining values", func() {
		st := NewStore[int](s, Unbounded)

		firstGet := st.Get()
		secondGet := st.Get()
		firstGet.Abort()

		st.Put(99)
		s.Run()

		Expect(secondGet.Value()).To(Equal(99))
	})

	It("skips an Aborted Put when draining capacity", func() {
		st := NewStore[int](s, 1)

		st.Put(1)
		secondPut := st.Put(2)
		secondPut.Abort()

		get := st.Get()
		s.Run()

		Expect(get.Value()).To(Equal(1))
		Expect(st.Len()).To(Equal(0))
	})

	It("reports Capacity as Unbounded when constructed without a limit", func() {
		st := NewStore[int](s, Unbounded)
		Expect(st.Capacity()).To(Equal(Unbounded))
	})
})
