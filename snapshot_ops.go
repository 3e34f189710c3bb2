package ttd

import (
	"fmt"

	"github.com/hashicorp/ttd-eventlog/snapshot"
)

// ExtractSnapshot performs a full heap-walk extraction at the current
// event time (spec §4.9 "Extraction"): the walk itself runs under the
// ExcludedExecution overlay so none of its side effects are recorded,
// then the resulting Snapshot is anchored in the event list.
func ExtractSnapshot(l *Log) (*snapshot.Snapshot, error) {
	if l.deps.HeapWalker == nil {
		return nil, fmt.Errorf("ttd: no HeapWalker configured")
	}

	snap, err := func() (*snapshot.Snapshot, error) {
		l.PushExcludedExecution()
		defer l.PopExcludedExecution()

		roots, err := l.deps.HeapWalker.ExtractSnapshotRoots(l.ctx)
		if err != nil {
			return nil, err
		}
		if err := l.deps.HeapWalker.BeginSnapshot(l.ctx); err != nil {
			return nil, err
		}
		if err := l.deps.HeapWalker.MarkWalk(l.ctx, roots); err != nil {
			return nil, err
		}
		if err := l.deps.HeapWalker.Evacuate(l.ctx); err != nil {
			return nil, err
		}
		return l.deps.HeapWalker.Complete(l.ctx)
	}()
	if err != nil {
		return nil, err
	}

	id, err := snapshot.NewID()
	if err != nil {
		return nil, err
	}
	snap.ID = id
	snap.EventTime = l.EventTime()

	if err := snapshot.Write(l.cfg.LogDir, snap); err != nil {
		return nil, err
	}
	l.recordSnapshot(snap, snap.EventTime, id)
	l.scheduler.NoteSnapshotTaken()
	return snap, nil
}

// DoRTRSnapshotIfNeeded attaches a ready-to-run snapshot to action if
// the scheduler says it's time and action doesn't already carry one
// (spec §4.9 "Ready-to-run snapshots": idempotent). It does not check
// action.RootDepth; the caller decides which call begins it is given.
func DoRTRSnapshotIfNeeded(l *Log, action *CallFunctionBeginAction) error {
	if action.RTRSnapshot != nil {
		return nil
	}
	if !l.scheduler.IsTimeForSnapshot() {
		return nil
	}
	snap, err := ExtractSnapshot(l)
	if err != nil {
		return err
	}
	action.RTRSnapshot = snap
	return nil
}

// FindSnapTime scans backward from the event list's newest entry for
// the latest snapshot at or before targetEventTime (spec §4.9
// "find_snap_time", invariant P8: "the search must always terminate at
// a snapshot at or before the target, never after"). A candidate is
// either a standalone Snapshot entry or a ready-to-run snapshot
// attached to a JsRTCallFunctionBegin action (DoRTRSnapshotIfNeeded);
// an RTR snapshot taken while debugging (not recording) never gets a
// standalone Snapshot entry of its own, so both kinds must be
// considered to land on the closest one, not just the nearer of
// whichever kind happens to be checked first.
func FindSnapTime(l *Log, targetEventTime uint64) (*snapshot.Snapshot, bool) {
	var best *snapshot.Snapshot
	it := l.events.IterLast()
	for it.IsValid() {
		e := it.Entry()
		var candidate *snapshot.Snapshot
		switch e.Kind {
		case KindSnapshot:
			candidate = e.Payload.(*SnapshotEvent).Snapshot
		case KindJsRTCallFunctionBegin:
			candidate = e.Payload.(*CallFunctionBeginAction).RTRSnapshot
		}
		if candidate != nil && candidate.EventTime <= targetEventTime {
			if best == nil || candidate.EventTime > best.EventTime {
				best = candidate
			}
		}
		it.Prev()
	}
	return best, best != nil
}

// DoInflate rehydrates the attached script context to targetEventTime
// (spec §4.9 "Inflation"): locate the nearest prior snapshot, prepare
// or re-prepare the inflate map, inflate, then reposition the event
// clock and replay cursor so recording/replay resumes exactly there.
func DoInflate(l *Log, targetEventTime uint64) error {
	if l.deps.Inflater == nil {
		return fmt.Errorf("ttd: no Inflater configured")
	}
	snap, ok := FindSnapTime(l, targetEventTime)
	if !ok {
		return fmt.Errorf("ttd: no snapshot at or before event_time %d", targetEventTime)
	}

	if !l.inflate.prepared || l.inflate.Cardinalities != snap.Cardinalities {
		m, err := l.deps.Inflater.PrepForInflate(snap.Cardinalities)
		if err != nil {
			return err
		}
		l.inflate = m
	}

	l.PushExcludedExecution()
	defer l.PopExcludedExecution()

	if err := l.deps.Inflater.InflateScriptContext(snap, l.ctx, l.inflate, l.scripts); err != nil {
		return err
	}

	l.clock.Set(snap.RestoreEventTime)
	l.callStack.ResetForTopLevel()

	it := l.events.IterFirst()
	for it.IsValid() && it.Entry().EventTime < snap.RestoreEventTime {
		it.Next()
	}
	l.replayCursor = it
	l.replayPosSet = false
	return nil
}

// PruneSnapshots enforces FIFO retention on-disk (spec §4.9 open
// question "PruneLogLength", resolved here as: keep the scheduler's
// configured HistoryLength most recent snapshots, evicting the event
// list's oldest snapshot entries beyond that via the normal PopOldest
// path so the dispatch table's evict hook removes the companion file
// too).
func PruneSnapshots(l *Log) error {
	keep := l.scheduler.HistoryLength()
	var snapTimes []uint64
	it := l.events.IterFirst()
	for it.IsValid() {
		if it.Entry().Kind == KindSnapshot {
			snapTimes = append(snapTimes, it.Entry().EventTime)
		}
		it.Next()
	}
	if len(snapTimes) <= keep {
		return nil
	}
	toEvict := len(snapTimes) - keep
	for i := 0; i < toEvict; i++ {
		for {
			h := l.events.IterFirst()
			if !h.IsValid() {
				break
			}
			wasSnap := h.Entry().Kind == KindSnapshot
			if err := l.events.PopOldest(); err != nil {
				return err
			}
			if wasSnap {
				break
			}
		}
	}
	return nil
}
