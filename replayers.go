package ttd

// AbortReason classifies why the replay driver stopped (spec §4.8's
// "coroutine that unwinds via abort" design note, implemented here as
// plain returned data rather than a panic/recover unwind, since every
// call site needs the reason, not just a stop signal).
type AbortReason int

const (
	// AbortNone never appears in a returned *Abort; it is the zero value.
	AbortNone AbortReason = iota
	// AbortEndOfLog means the replay cursor ran past the last entry.
	AbortEndOfLog
	// AbortReachedTarget means ReplayTo's target event_time was reached.
	AbortReachedTarget
	// AbortRootCallBoundary means a JsRTCallFunctionBegin was replayed;
	// control returns to the host exactly as it did during recording.
	AbortRootCallBoundary
	// AbortOutOfSync means the live engine diverged from the log.
	AbortOutOfSync
)

// Abort reports why ReplaySingle/ReplayTo/ReplayFull stopped.
type Abort struct {
	Reason AbortReason
	AtTime uint64
	Kind   EventKind
	Err    error
}

// ReplaySingle replays one top-level step against the attached engine
// via deps.ActionSink (spec §4.8). A "step" is not always one entry:
// after dispatching a JsRT action, the action loop keeps dispatching
// further non-root JsRT actions internally, without returning to the
// host, until the cursor reaches a root JsRTCallFunctionBegin or the
// log ends. Callers (ReplayTo/ReplayFull, or a debugger's "step"
// command) see exactly one host-visible step per call.
func ReplaySingle(l *Log) (*Abort, error) {
	for {
		e, abort, err := l.replayOneAction()
		if abort != nil || err != nil {
			return abort, err
		}
		if !e.Kind.IsJsRTAction() || !l.nextIsNonRootJsRTAction() {
			return nil, nil
		}
	}
}

// replayOneAction dispatches exactly one logged entry, applying the
// ExternalCall/ExternalCbRegister re-entrance rule when applicable, and
// reports the entry dispatched along with any abort it produced.
func (l *Log) replayOneAction() (*Entry, *Abort, error) {
	e, err := l.NextAction()
	if err == ErrEndOfLog {
		return nil, &Abort{Reason: AbortEndOfLog}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	l.clock.Set(e.EventTime)
	l.trace.record(e.Kind, e.EventTime)
	l.replayPos = e.EventTime
	l.replayPosSet = true

	if l.deps.ActionSink == nil {
		return e, &Abort{Reason: AbortOutOfSync, AtTime: e.EventTime, Kind: e.Kind}, nil
	}
	if err := l.deps.ActionSink.ReplayAction(e.Kind, e.Payload); err != nil {
		return e, &Abort{Reason: AbortOutOfSync, AtTime: e.EventTime, Kind: e.Kind, Err: err}, err
	}

	if e.Kind == KindExternalCall || e.Kind == KindExternalCbRegister {
		if err := l.pumpFollowOnActions(); err != nil {
			return e, &Abort{Reason: AbortOutOfSync, AtTime: e.EventTime, Kind: e.Kind, Err: err}, err
		}
	}

	if e.Kind.IsRootCall() {
		return e, &Abort{Reason: AbortRootCallBoundary, AtTime: e.EventTime, Kind: e.Kind}, nil
	}
	return e, nil, nil
}

// pumpFollowOnActions implements spec §4.8's re-entrance rule: after
// replaying an external payload, any JsRT actions queued immediately
// behind it at the cursor are dispatched here rather than left for the
// next top-level step. If script is currently active this runs under a
// leave-script scope — LeaveScript's contract is to preserve any
// pending script exception (HasRecordedException) across the pump.
func (l *Log) pumpFollowOnActions() error {
	probe := l.deps.Activity
	scoped := probe != nil && probe.IsScriptActive()
	if scoped {
		_ = probe.HasRecordedException()
		probe.LeaveScript()
		defer probe.EnterScript()
	}

	for l.nextIsNonRootJsRTAction() {
		e, err := l.NextAction()
		if err != nil {
			return err
		}
		l.clock.Set(e.EventTime)
		l.trace.record(e.Kind, e.EventTime)
		l.replayPos = e.EventTime
		l.replayPosSet = true
		if l.deps.ActionSink == nil {
			return nil
		}
		if err := l.deps.ActionSink.ReplayAction(e.Kind, e.Payload); err != nil {
			return err
		}
	}
	return nil
}

// nextIsNonRootJsRTAction peeks the cursor without consuming it.
func (l *Log) nextIsNonRootJsRTAction() bool {
	if l.replayCursor == nil || !l.replayCursor.IsValid() {
		return false
	}
	k := l.replayCursor.Entry().Kind
	return k.IsJsRTAction() && !k.IsRootCall()
}

// ReplayTo replays entries until the cursor reaches or passes
// targetEventTime, the log runs out, or the engine diverges.
func ReplayTo(l *Log, targetEventTime uint64) (*Abort, error) {
	for {
		if pos, ok := l.ReplayPosition(); ok && pos >= targetEventTime {
			return &Abort{Reason: AbortReachedTarget, AtTime: pos}, nil
		}
		abort, err := ReplaySingle(l)
		if err == nil && abort != nil && abort.Reason == AbortRootCallBoundary {
			continue
		}
		if err != nil || abort != nil {
			return abort, err
		}
	}
}

// ReplayFull replays every remaining entry in the log.
func ReplayFull(l *Log) (*Abort, error) {
	for {
		abort, err := ReplaySingle(l)
		if err != nil {
			return abort, err
		}
		if abort != nil && abort.Reason == AbortRootCallBoundary {
			continue
		}
		if abort != nil {
			return abort, nil
		}
	}
}
