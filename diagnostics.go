package ttd

// TimeAndPosition pinpoints a moment in the log by its full logical
// coordinate (spec §3 "logical time"): the event that was current, the
// call frame active at that point, and the statement within it.
type TimeAndPosition struct {
	EventTime    uint64
	FunctionTime uint64
	LoopTime     uint64
	StmtIndex    int32
	Valid        bool
}

// GetTimeAndPosition returns the coordinate of the call stack's
// current top frame, or an invalid result if the stack is empty.
func GetTimeAndPosition(l *Log) TimeAndPosition {
	f := l.callStack.Top()
	if f == nil {
		return TimeAndPosition{}
	}
	return TimeAndPosition{
		EventTime: f.EventTime, FunctionTime: f.FunctionTime,
		LoopTime: f.LoopTime, StmtIndex: f.CurrentStmtIndex, Valid: true,
	}
}

// GetPreviousTimeAndPosition returns the coordinate of the current
// frame's previously-executed statement (spec §4.4 "last statement"),
// or an invalid result if there isn't one yet.
func GetPreviousTimeAndPosition(l *Log) TimeAndPosition {
	f := l.callStack.Top()
	if f == nil || f.LastStmtIndex < 0 {
		return TimeAndPosition{}
	}
	return TimeAndPosition{
		EventTime: f.EventTime, FunctionTime: f.FunctionTime,
		LoopTime: f.LastStmtLoopTime, StmtIndex: f.LastStmtIndex, Valid: true,
	}
}

// GetExceptionTimeAndPosition returns the coordinate of the frame that
// originated the most recent exception unwind, or an invalid result if
// the last pop wasn't exceptional.
func GetExceptionTimeAndPosition(l *Log) TimeAndPosition {
	last := l.callStack.LastFrame()
	if last == nil || !last.IsExceptionFrame {
		return TimeAndPosition{}
	}
	return TimeAndPosition{
		EventTime: last.Frame.EventTime, FunctionTime: last.Frame.FunctionTime,
		LoopTime: last.Frame.LoopTime, StmtIndex: last.Frame.CurrentStmtIndex, Valid: true,
	}
}

// GetReturnTimeAndPosition returns the coordinate of the frame that
// most recently returned normally, or an invalid result if the last
// pop was exceptional.
func GetReturnTimeAndPosition(l *Log) TimeAndPosition {
	last := l.callStack.LastFrame()
	if last == nil || !last.IsReturnFrame {
		return TimeAndPosition{}
	}
	return TimeAndPosition{
		EventTime: last.Frame.EventTime, FunctionTime: last.Frame.FunctionTime,
		LoopTime: last.Frame.LoopTime, StmtIndex: last.Frame.CurrentStmtIndex, Valid: true,
	}
}

// GetEventForHostCallbackID scans the event list for the
// CallbackOperationAction that registered (or canceled) hostID, used to
// resolve a host timer/microtask id back to the event_time it was
// scheduled at (spec §4.7 "CallbackOperation").
func GetEventForHostCallbackID(l *Log, isRegister bool, hostID int64) (uint64, bool) {
	it := l.events.IterFirst()
	for it.IsValid() {
		e := it.Entry()
		if e.Kind == KindJsRTCallbackOperation {
			action := e.Payload.(*CallbackOperationAction)
			if action.HostCallbackID == hostID && action.Create == isRegister {
				return e.EventTime, true
			}
		}
		it.Next()
	}
	return 0, false
}

// GetKthEventTime returns the event_time of the k-th entry (0-indexed,
// oldest first) currently retained in the log, used by a debugger UI to
// render an absolute timeline position.
func GetKthEventTime(l *Log, k int) (uint64, bool) {
	if k < 0 {
		return 0, false
	}
	it := l.events.IterFirst()
	i := 0
	for it.IsValid() {
		if i == k {
			return it.Entry().EventTime, true
		}
		it.Next()
		i++
	}
	return 0, false
}
