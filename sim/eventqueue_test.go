package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("eventQueue", func() {
	var queue *eventQueue

	BeforeEach(func() {
		queue = newEventQueue()
	})

	It("should pop in fire-time order", func() {
		s := New()
		numEvents := 100

		for i := 0; i < numEvents; i++ {
			queue.push(scheduledEntry{
				time: VTime(rand.Float64() / 1e8),
				id:   insertionID(i),
				ev:   newEvent(s),
			})
		}

		now := VTime(-1)
		for i := 0; i < numEvents; i++ {
			entry := queue.pop()
			Expect(entry.time >= now).To(BeTrue())
			now = entry.time
		}

		Expect(queue.len()).To(Equal(0))
	})

	It("should break ties by insertion id", func() {
		s := New()

		queue.push(scheduledEntry{time: 1, id: 2, ev: newEvent(s)})
		queue.push(scheduledEntry{time: 1, id: 1, ev: newEvent(s)})
		queue.push(scheduledEntry{time: 1, id: 3, ev: newEvent(s)})

		Expect(queue.pop().id).To(Equal(insertionID(1)))
		Expect(queue.pop().id).To(Equal(insertionID(2)))
		Expect(queue.pop().id).To(Equal(insertionID(3)))
	})
})
