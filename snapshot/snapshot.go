// Package snapshot holds the data model and scheduling logic for heap
// snapshots (spec §4.9, components C8/C9): the restorable copy of engine
// state at a given event time, the periodic-extraction scheduler, and
// the on-disk companion-file codec. Heap walking and inflation
// themselves are external collaborators (spec §6); this package only
// carries the data they produce and consume.
package snapshot

import (
	"time"
)

// Cardinalities describes the sizes an Inflater must prepare an inflate
// map for before inflating a snapshot (spec §4.9 "prep_for_inflate").
type Cardinalities struct {
	Objects    int
	Properties int
	Scripts    int
}

// Snapshot is a heap-walk-derived, restorable copy of engine state at a
// specific event time (spec GLOSSARY). Blob is the opaque, heap-walker
// supplied payload; the core never interprets its contents, only
// transports them.
type Snapshot struct {
	ID               string
	EventTime        uint64
	RestoreEventTime uint64
	RestoreLogTag    string
	Contexts         int
	Cardinalities    Cardinalities
	Blob             []byte
}

// Scheduler tracks elapsed wall-clock time against a snapshot interval
// (spec §4.9: "the caller feeds wall-clock deltas via increment_elapsed").
//
// Grounded on serf/snapshot.go's clockUpdateInterval periodic-check
// shape (a duration compared against an interval to decide whether to
// act), scaled from a fixed ticker to caller-driven elapsed time since
// the embedder — not a goroutine here — owns the wall clock.
type Scheduler struct {
	interval   time.Duration
	elapsed    time.Duration
	historyLen int
}

// MinHistoryLength is the minimum retention bound for snapshot history
// (spec §4.9).
const MinHistoryLength = 2

// NewScheduler creates a Scheduler that fires every interval, retaining
// at least MinHistoryLength prior snapshots. historyLen below the
// minimum is clamped up to it.
func NewScheduler(interval time.Duration, historyLen int) *Scheduler {
	if historyLen < MinHistoryLength {
		historyLen = MinHistoryLength
	}
	return &Scheduler{interval: interval, historyLen: historyLen}
}

// IncrementElapsed advances the scheduler's notion of wall-clock time.
func (s *Scheduler) IncrementElapsed(dt time.Duration) {
	s.elapsed += dt
}

// IsTimeForSnapshot reports whether elapsed time has passed the
// snapshot interval.
func (s *Scheduler) IsTimeForSnapshot() bool {
	return s.elapsed > s.interval
}

// NoteSnapshotTaken resets the elapsed counter after an extraction.
func (s *Scheduler) NoteSnapshotTaken() {
	s.elapsed = 0
}

// HistoryLength returns the configured retention bound.
func (s *Scheduler) HistoryLength() int {
	return s.historyLen
}
