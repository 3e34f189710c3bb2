package ttd

import (
	"fmt"
	"log"
	"sync"

	"github.com/hashicorp/ttd-eventlog/snapshot"
)

// Dependencies bundles the engine-facing collaborators a Log is built
// against (spec §6). None of these are implemented here; the core only
// ever calls through the narrow interfaces.
type Dependencies struct {
	Codec        HandleCodec
	HeapWalker   HeapWalker
	Inflater     Inflater
	Streams      StreamProvider
	Activity     ScriptActivityProbe
	Props        PropertyRegistry
	StmtResolver StatementResolver
	ActionSink   ActionSink
}

// Log is the event-log core (spec §3 "Log"): the single owning object
// for the mode state machine, the event list, the call-frame shadow
// stack, and the snapshot schedule. One Log is created per attached
// script context.
//
// Grounded on serf.Serf's role as the single coordinating object
// wrapping a memberlist, an event channel, and a state field
// (serf/serf.go) — here generalized to coordinate an event list, a
// call stack, and a mode stack instead of cluster membership.
type Log struct {
	mu sync.Mutex

	cfg    *Config
	logger *log.Logger

	clock     EventClock
	funcClock FunctionClock
	callStack *CallStack
	modeStack *ModeStack

	events   *EventList
	dispatch *DispatchTable
	scripts  *ScriptTables

	deps      Dependencies
	scheduler *snapshot.Scheduler
	inflate   *InflateMap
	trace     *replayTrace

	ctx Context

	// replayCursor, when non-nil, is the position the replay driver will
	// resume from on the next ReplaySingle (spec §4.8).
	replayCursor *Iterator

	// replayPos is the event_time of the most recently replayed entry;
	// valid only once replayPosSet is true. Distinct from the event
	// clock, which tracks the *recording* position and is stale once
	// SetDebugging positions the cursor at the start of the log.
	replayPos    uint64
	replayPosSet bool
}

// NewLog constructs a Log in ModePending (spec §4.5: every log starts
// pending until the embedder chooses record or debug).
func NewLog(cfg *Config, deps Dependencies) *Log {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Log{
		cfg:      cfg,
		logger:   newLogger(cfg),
		deps:     deps,
		scripts:  NewScriptTables(),
		inflate:  &InflateMap{},
		trace:    newReplayTrace(64),
	}
	l.dispatch = NewDispatchTable(deps.Codec)
	l.dispatch.SetSnapshotEvictHook(func(s *snapshot.Snapshot) {
		if s == nil {
			return
		}
		if err := snapshot.Remove(l.cfg.LogDir, s.EventTime); err != nil {
			l.logger.Printf("[WARN] ttd: evict snapshot %s: %v", s.ID, err)
		}
	})
	l.events = NewEventList(cfg.ChunkSize, l.dispatch)
	l.callStack = NewCallStack(&l.funcClock, deps.StmtResolver)
	l.modeStack = NewModeStack(ModePending, nil)
	l.scheduler = snapshot.NewScheduler(cfg.SnapshotInterval, cfg.SnapshotHistoryLength)
	return l
}

// Attach binds the Log to a live script context, which is then passed
// to the heap walker and inflater. Recording and replay do not check
// for an attached context.
func (l *Log) Attach(ctx Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx = ctx
}

// Detach sets ModeDetached as the base mode and clears the attached
// context. A later SetRecording or SetDebugging replaces the base mode
// again; Detach does not lock it.
func (l *Log) Detach() {
	l.modeStack.SetBase(ModeDetached)
	l.mu.Lock()
	l.ctx = nil
	l.mu.Unlock()
}

// SetRecording switches the base mode to RecordEnabled.
func (l *Log) SetRecording() {
	l.modeStack.SetBase(ModeRecordEnabled)
}

// SetDebugging switches the base mode to DebuggingEnabled, positioning
// the replay cursor at the start of the log.
func (l *Log) SetDebugging() {
	l.modeStack.SetBase(ModeDebuggingEnabled)
	l.replayCursor = l.events.IterFirst()
	l.replayPosSet = false
}

// ReplayPosition returns the event_time of the most recently replayed
// entry and whether any entry has been replayed yet since SetDebugging
// (or DoInflate) last positioned the cursor.
func (l *Log) ReplayPosition() (uint64, bool) {
	return l.replayPos, l.replayPosSet
}

// PushExcludedExecution pushes the ExcludedExecution overlay (spec
// §4.5, used around snapshot extraction/inflation so the heap walk
// itself is never recorded).
func (l *Log) PushExcludedExecution() {
	l.modeStack.Push(ModeExcludedExecution)
}

// PopExcludedExecution pops the ExcludedExecution overlay.
func (l *Log) PopExcludedExecution() {
	l.modeStack.Pop(ModeExcludedExecution)
}

// Mode returns the currently computed mode.
func (l *Log) Mode() Mode {
	return l.modeStack.Computed()
}

// ShouldRecord reports whether recorders should stamp and append
// entries right now.
func (l *Log) ShouldRecord() bool {
	return l.modeStack.ShouldRecord()
}

// EventTime returns the event clock's current position without
// advancing it.
func (l *Log) EventTime() uint64 {
	return l.clock.Time()
}

// CallStack exposes the shadow stack to recorders/replayers in this
// package; not part of the embedder-facing surface.
func (l *Log) CallStack() *CallStack { return l.callStack }

// Count returns the number of live entries in the event list.
func (l *Log) Count() int {
	return l.events.Count()
}

// ResetForTopLevel implements spec §4.6's top-level callback boundary:
// the call stack must be empty, and the function-time counter resets.
func (l *Log) ResetForTopLevel() {
	l.callStack.ResetForTopLevel()
}

// NextAction advances the replay cursor and returns the entry it was
// pointing at, or ErrEndOfLog once the cursor runs past the newest
// entry. SetDebugging must have been called first.
func (l *Log) NextAction() (*Entry, error) {
	if l.replayCursor == nil || !l.replayCursor.IsValid() {
		return nil, ErrEndOfLog
	}
	e := l.replayCursor.Entry()
	l.replayCursor.Next()
	return e, nil
}

// CheckSync reports an OutOfSyncError if the replay cursor's current
// entry does not have kind observed (spec §7 "out of sync").
func (l *Log) CheckSync(observed EventKind) error {
	if l.replayCursor == nil || !l.replayCursor.IsValid() {
		return newOutOfSyncError(numEventKinds, observed, l.clock.Time(), l.trace.String())
	}
	e := l.replayCursor.Entry()
	if e.Kind != observed {
		return newOutOfSyncError(e.Kind, observed, e.EventTime, l.trace.String())
	}
	return nil
}

// String renders the Log's mode for diagnostics.
func (l *Log) String() string {
	return fmt.Sprintf("ttd.Log{mode=%s, count=%d, eventTime=%d}", l.Mode(), l.Count(), l.EventTime())
}
