package ttd

import "sync/atomic"

// EventClock is the monotone counter that assigns event_time to every
// appended entry (spec §4.4). It is the total order of record and
// replay (invariant I1).
//
// Grounded on serf's LamportClock (lamport.go): same Time/Increment
// shape, minus Witness — event time is purely local, there is no
// distributed clock to reconcile against.
type EventClock struct {
	counter uint64
}

// Time returns the current value without advancing it.
func (c *EventClock) Time() uint64 {
	return atomic.LoadUint64(&c.counter)
}

// GetAndAdvance returns the counter's current value and then
// increments it, so the first appended entry gets event_time 0, the
// second gets 1, and so on (spec §4.4 "get_and_advance()"; scenario S1
// expects event-times {0,1,2}).
func (c *EventClock) GetAndAdvance() uint64 {
	return atomic.AddUint64(&c.counter, 1) - 1
}

// Set forces the counter to v. Used only when repositioning after an
// inflate (spec §4.9: "set event_time_ctr = restore_event_time").
func (c *EventClock) Set(v uint64) {
	atomic.StoreUint64(&c.counter, v)
}

// FunctionClock is running_function_time_ctr: incremented on every call
// frame push AND pop, so entry and exit are distinguishable points in
// time (spec §4.4).
type FunctionClock struct {
	counter uint64
}

// Advance increments the counter and returns the new value.
func (c *FunctionClock) Advance() uint64 {
	return atomic.AddUint64(&c.counter, 1)
}

// Time returns the current value without advancing it.
func (c *FunctionClock) Time() uint64 {
	return atomic.LoadUint64(&c.counter)
}

// Reset zeroes the counter. Called by CallStack.ResetForTopLevel on every
// top-level callback boundary (spec §4.6).
func (c *FunctionClock) Reset() {
	atomic.StoreUint64(&c.counter, 0)
}
