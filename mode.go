package ttd

import (
	"fmt"
	"sync"
)

// Mode is a bitmask covering both the base modes and the overlay
// modes (spec §4.5, §3). Base and overlay values never share bits, so
// OR-folding the whole stack produces the "computed mode".
type Mode uint32

const (
	// Base modes. Exactly one is ever at mode_stack[0].
	ModePending          Mode = 1 << iota // Pending
	ModeDetached                          // Detached
	ModeRecordEnabled                     // RecordEnabled
	ModeDebuggingEnabled                  // DebuggingEnabled

	// Overlay modes. May only be pushed above the base.
	ModeExcludedExecution
)

func (m Mode) String() string {
	names := []struct {
		bit  Mode
		name string
	}{
		{ModePending, "Pending"},
		{ModeDetached, "Detached"},
		{ModeRecordEnabled, "RecordEnabled"},
		{ModeDebuggingEnabled, "DebuggingEnabled"},
		{ModeExcludedExecution, "ExcludedExecution"},
	}
	s := ""
	for _, n := range names {
		if m&n.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "(none)"
	}
	return s
}

func isBaseMode(m Mode) bool {
	switch m {
	case ModePending, ModeDetached, ModeRecordEnabled, ModeDebuggingEnabled:
		return true
	default:
		return false
	}
}

// ModeStack holds the base mode at position 0 and a nested stack of
// overlays above it (spec §3 invariant: "the base element is always at
// position 0 ... push/pop are strictly balanced").
//
// Grounded on serf.Serf's stateLock-guarded SerfState field (serf.go),
// generalized from a single enum to a bitmask stack per spec §4.5.
type ModeStack struct {
	mu      sync.Mutex
	stack   []Mode
	onApply func(Mode)
}

// NewModeStack creates a stack with the given base mode. onApply, if
// non-nil, is invoked with the newly computed mode after every push/pop
// (spec: "propagated to the attached runtime context").
func NewModeStack(base Mode, onApply func(Mode)) *ModeStack {
	if !isBaseMode(base) {
		panic(fmt.Sprintf("ttd: %v is not a valid base mode", base))
	}
	ms := &ModeStack{stack: []Mode{base}, onApply: onApply}
	ms.apply()
	return ms
}

// SetBase replaces the base mode (mode_stack[0]). Overlays above it are
// untouched.
func (ms *ModeStack) SetBase(base Mode) {
	if !isBaseMode(base) {
		panic(fmt.Sprintf("ttd: %v is not a valid base mode", base))
	}
	ms.mu.Lock()
	ms.stack[0] = base
	ms.mu.Unlock()
	ms.apply()
}

// Push installs an overlay above the base. Must be matched by exactly
// one Pop(overlay) (invariant I... / spec P4).
func (ms *ModeStack) Push(overlay Mode) {
	ms.mu.Lock()
	ms.stack = append(ms.stack, overlay)
	ms.mu.Unlock()
	ms.apply()
}

// Pop removes the top of the overlay stack, asserting it equals
// overlay — push/pop must be strictly balanced.
func (ms *ModeStack) Pop(overlay Mode) {
	ms.mu.Lock()
	top := len(ms.stack) - 1
	if top < 1 {
		ms.mu.Unlock()
		panic("ttd: mode stack underflow: no overlay to pop")
	}
	if ms.stack[top] != overlay {
		got := ms.stack[top]
		ms.mu.Unlock()
		panic(fmt.Sprintf("ttd: unbalanced mode push/pop: popped %v, top is %v", overlay, got))
	}
	ms.stack = ms.stack[:top]
	ms.mu.Unlock()
	ms.apply()
}

// Computed returns the bitwise-OR of the entire stack.
func (ms *ModeStack) Computed() Mode {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.computed()
}

func (ms *ModeStack) computed() Mode {
	var m Mode
	for _, s := range ms.stack {
		m |= s
	}
	return m
}

func (ms *ModeStack) apply() {
	if ms.onApply == nil {
		return
	}
	ms.onApply(ms.Computed())
}

// ShouldRecord reports whether recording is currently gated open:
// RecordEnabled in the computed mode and ExcludedExecution is not
// (spec §4.5).
func (ms *ModeStack) ShouldRecord() bool {
	m := ms.Computed()
	return m&ModeRecordEnabled != 0 && m&ModeExcludedExecution == 0
}

// ShouldReplay reports whether replay may proceed: DebuggingEnabled is
// in the base (spec §4.5).
func (ms *ModeStack) ShouldReplay() bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.stack[0] == ModeDebuggingEnabled
}

// Depth returns the number of overlays currently pushed (0 = just the
// base).
func (ms *ModeStack) Depth() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.stack) - 1
}
