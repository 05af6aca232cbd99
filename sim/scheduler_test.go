package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scheduler", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = New()
	})

	It("starts at time Zero", func() {
		Expect(s.Now()).To(Equal(Zero))
	})

	It("advances Now to each event's fire time as it steps", func() {
		s.Timeout(3)
		s.Timeout(1)

		s.Step()
		Expect(s.Now()).To(Equal(VTime(1)))

		s.Step()
		Expect(s.Now()).To(Equal(VTime(3)))
	})

	It("panics when Step is called on an empty queue", func() {
		Expect(func() { s.Step() }).To(Panic())
	})

	It("Run drains every scheduled event", func() {
		for i := 0; i < 5; i++ {
			s.Timeout(VTime(i))
		}

		s.Run()

		Expect(s.Empty()).To(BeTrue())
	})

	It("RunUntil stops strictly before events scheduled at the target time", func() {
		at5 := s.Timeout(5)
		s.RunUntil(5)

		Expect(s.Now()).To(Equal(VTime(5)))
		Expect(at5.Processed()).To(BeFalse(), "events exactly at the target are not processed")
	})

	It("RunUntil processes events strictly before the target", func() {
		before := s.Timeout(3)
		s.RunUntil(5)

		Expect(before.Processed()).To(BeTrue())
	})

	It("panics when RunUntil's target precedes Now", func() {
		s.RunUntil(5)
		Expect(func() { s.RunUntil(3) }).To(Panic())
	})

	It("Shutdown destroys every still-parked process without running more of its body", func() {
		ranAfterAwait := false

		Go(s, func(p *Proc) {
			p.Await(s.Event()) // never triggered
			ranAfterAwait = true
		})
		s.Run() // the process starts and parks on the never-triggered event

		s.Shutdown()

		Expect(ranAfterAwait).To(BeFalse())
	})
})
