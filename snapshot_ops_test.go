package ttd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/ttd-eventlog/snapshot"
)

// fakeHeapWalker is a minimal HeapWalker stub: Complete returns the
// next snapshot off a queue, so tests can control exactly what each
// extraction produces.
type fakeHeapWalker struct {
	blobs [][]byte
	next  int
}

func (w *fakeHeapWalker) ExtractSnapshotRoots(ctx Context) ([]Value, error) { return nil, nil }
func (w *fakeHeapWalker) BeginSnapshot(ctx Context) error                   { return nil }
func (w *fakeHeapWalker) MarkWalk(ctx Context, roots []Value) error         { return nil }
func (w *fakeHeapWalker) Evacuate(ctx Context) error                        { return nil }
func (w *fakeHeapWalker) Complete(ctx Context) (*snapshot.Snapshot, error) {
	blob := []byte("snap")
	if w.next < len(w.blobs) {
		blob = w.blobs[w.next]
	}
	w.next++
	return &snapshot.Snapshot{Blob: blob}, nil
}

// fakeInflater is a minimal Inflater stub that just records what it was
// asked to inflate.
type fakeInflater struct {
	prepped  []snapshot.Cardinalities
	inflated []*snapshot.Snapshot
}

func (f *fakeInflater) PrepForInflate(c snapshot.Cardinalities) (*InflateMap, error) {
	f.prepped = append(f.prepped, c)
	m := &InflateMap{}
	m.Reprepare(c)
	return m, nil
}

func (f *fakeInflater) InflateScriptContext(snap *snapshot.Snapshot, liveCtx Context, m *InflateMap, tables *ScriptTables) error {
	f.inflated = append(f.inflated, snap)
	return nil
}

func newSnapTestLog(t *testing.T, walker *fakeHeapWalker, inflater *fakeInflater) *Log {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ChunkSize = 4
	cfg.LogDir = t.TempDir()
	cfg.SnapshotInterval = time.Second
	return NewLog(cfg, Dependencies{HeapWalker: walker, Inflater: inflater})
}

// TestExtractSnapshotAnchorsAndSchedules covers ExtractSnapshot: it
// anchors a SnapshotEvent in the event list at the current event time
// and resets the scheduler's elapsed counter.
func TestExtractSnapshotAnchorsAndSchedules(t *testing.T) {
	l := newSnapTestLog(t, &fakeHeapWalker{}, nil)
	l.SetRecording()
	RecordTelemetry(l, "a", false) // t=0
	RecordTelemetry(l, "b", false) // t=1

	l.scheduler.IncrementElapsed(2 * time.Second)
	require.True(t, l.scheduler.IsTimeForSnapshot())

	snap, err := ExtractSnapshot(l)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.EventTime)
	assert.False(t, l.scheduler.IsTimeForSnapshot(), "NoteSnapshotTaken resets elapsed")

	it := l.events.IterLast()
	require.True(t, it.IsValid())
	assert.Equal(t, KindSnapshot, it.Entry().Kind)
	assert.Same(t, snap, it.Entry().Payload.(*SnapshotEvent).Snapshot)
}

// TestDoRTRSnapshotIfNeededIsIdempotent covers DoRTRSnapshotIfNeeded:
// it only attaches a snapshot once per action, and only when the
// scheduler says it's time.
func TestDoRTRSnapshotIfNeededIsIdempotent(t *testing.T) {
	walker := &fakeHeapWalker{}
	l := newSnapTestLog(t, walker, nil)
	l.SetRecording()

	action := &CallFunctionBeginAction{}
	require.NoError(t, DoRTRSnapshotIfNeeded(l, action))
	assert.Nil(t, action.RTRSnapshot, "scheduler not due yet")

	l.scheduler.IncrementElapsed(2 * time.Second)
	require.NoError(t, DoRTRSnapshotIfNeeded(l, action))
	require.NotNil(t, action.RTRSnapshot)
	attached := action.RTRSnapshot

	l.scheduler.IncrementElapsed(2 * time.Second)
	require.NoError(t, DoRTRSnapshotIfNeeded(l, action))
	assert.Same(t, attached, action.RTRSnapshot, "already carries a snapshot, stays untouched")
}

// TestFindSnapTimeAndDoInflatePreferNearestIncludingRTR covers spec
// scenario S4 and invariant P8: recording past a snapshot interval
// twice (a standalone extraction, then a later ready-to-run snapshot
// attached to a call-begin action), FindSnapTime/DoInflate at a target
// between the two snapshots must land on the nearer one — including
// when that nearer one is an RTR snapshot rather than a standalone
// Snapshot entry.
func TestFindSnapTimeAndDoInflatePreferNearestIncludingRTR(t *testing.T) {
	walker := &fakeHeapWalker{blobs: [][]byte{[]byte("first"), []byte("second")}}
	inflater := &fakeInflater{}
	l := newSnapTestLog(t, walker, inflater)
	l.SetRecording()

	RecordTelemetry(l, "a", false) // t=0

	l.scheduler.IncrementElapsed(2 * time.Second)
	first, err := ExtractSnapshot(l)
	require.NoError(t, err)
	require.Equal(t, uint64(1), first.EventTime)

	RecordTelemetry(l, "b", false) // t=2
	RecordTelemetry(l, "c", false) // t=3

	popper, action, callTime := RecordCallFunctionBegin(l, 0, -1, 0, "callee", nil)
	require.Equal(t, uint64(4), callTime)
	l.scheduler.IncrementElapsed(2 * time.Second)
	require.NoError(t, DoRTRSnapshotIfNeeded(l, action))
	require.NotNil(t, action.RTRSnapshot)
	second := action.RTRSnapshot
	second.RestoreEventTime = second.EventTime
	assert.Equal(t, uint64(4), second.EventTime)
	RecordCallFunctionEnd(l, popper, 0, -1, false, false)

	RecordTelemetry(l, "d", false) // t=6

	// A target of 3 sits strictly between the two snapshots (at 1 and
	// 4): the closer one at-or-before the target is still "first".
	got, ok := FindSnapTime(l, 3)
	require.True(t, ok)
	assert.Same(t, first, got)

	// A target of 4 (exactly the RTR snapshot's event time) must pick
	// the RTR snapshot, not fall back to the older standalone one.
	got, ok = FindSnapTime(l, 4)
	require.True(t, ok)
	assert.Same(t, second, got)

	// A target of 5 must still find the nearer (RTR) snapshot, not the
	// first, standalone one.
	got, ok = FindSnapTime(l, 5)
	require.True(t, ok)
	assert.Same(t, second, got)

	require.NoError(t, DoInflate(l, 4))
	require.Len(t, inflater.inflated, 1)
	assert.Same(t, second, inflater.inflated[0])
	assert.Equal(t, uint64(4), l.EventTime())
}

// TestPruneSnapshotsKeepsOnlyHistoryLength covers PruneSnapshots:
// standalone Snapshot entries beyond the configured history length are
// evicted oldest-first.
func TestPruneSnapshotsKeepsOnlyHistoryLength(t *testing.T) {
	walker := &fakeHeapWalker{}
	l := newSnapTestLog(t, walker, nil)
	l.scheduler = snapshot.NewScheduler(time.Second, snapshot.MinHistoryLength)
	l.SetRecording()

	var snaps []*snapshot.Snapshot
	for i := 0; i < 4; i++ {
		RecordTelemetry(l, "tick", false)
		l.scheduler.IncrementElapsed(2 * time.Second)
		snap, err := ExtractSnapshot(l)
		require.NoError(t, err)
		snaps = append(snaps, snap)
	}

	require.NoError(t, PruneSnapshots(l))

	var remaining []uint64
	it := l.events.IterFirst()
	for it.IsValid() {
		if it.Entry().Kind == KindSnapshot {
			remaining = append(remaining, it.Entry().EventTime)
		}
		it.Next()
	}
	require.Len(t, remaining, snapshot.MinHistoryLength)
	assert.Equal(t, []uint64{snaps[2].EventTime, snaps[3].EventTime}, remaining)
}
