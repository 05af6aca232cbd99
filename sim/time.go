package sim

// VTime is the simulation's virtual time, in seconds. It is unrelated to
// wall-clock time: it only ever advances when the Scheduler processes an
// event.
type VTime float64

// Zero is the virtual time at which every Scheduler starts.
const Zero VTime = 0
