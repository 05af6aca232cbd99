package sim

import (
	"sync/atomic"

	"github.com/rs/xid"
)

// insertionID is the 64-bit tiebreaker used to order events scheduled at the
// same virtual time. It is monotonically increasing within a Scheduler.
type insertionID uint64

// idCounter hands out strictly increasing insertionIDs for a single
// Scheduler. It is not exported: insertion order is an internal ordering
// detail, not part of the public API.
type idCounter struct {
	next uint64
}

func (c *idCounter) nextID() insertionID {
	return insertionID(atomic.AddUint64(&c.next, 1) - 1)
}

// newDebugID returns a short, human-readable identifier used only for
// logging and trace recording. It never participates in ordering.
func newDebugID() string {
	return xid.New().String()
}
