package ttd

// CallFrame is a SingleCallCounter (spec §3): the per-call-activation
// record pushed onto the shadow stack on function entry.
type CallFrame struct {
	FunctionRef  FunctionHandle
	EventTime    uint64
	FunctionTime uint64
	LoopTime     uint64

	CurrentStmtIndex    int32
	CurrentStmtLoopTime uint64
	LastStmtIndex       int32
	LastStmtLoopTime    uint64

	BCMin uint32
	BCMax uint32
}

// LastFrame caches the most recently popped frame, tagged with exactly
// one of IsReturnFrame/IsExceptionFrame (invariant I5).
type LastFrame struct {
	Frame            CallFrame
	IsReturnFrame    bool
	IsExceptionFrame bool
}

// StatementResolver resolves the statement index enclosing a bytecode
// offset within a function body, and that statement's bytecode range.
// Supplied by the embedder (the bytecode/function-body representation is
// out of scope for this core).
type StatementResolver interface {
	ResolveStatement(fn FunctionHandle, bcOffset uint32) (stmtIndex int32, bcMin, bcMax uint32)
}

// CallStack is the call-frame shadow stack (spec §4.4/§4.6, component
// C6). It must be empty at every top-level callback boundary (I4).
type CallStack struct {
	frames     []*CallFrame
	last       *LastFrame
	hasExcFrm  bool
	funcClock  *FunctionClock
	stmtResolv StatementResolver
}

// NewCallStack creates an empty call stack driven by the given function
// clock and statement resolver.
func NewCallStack(funcClock *FunctionClock, resolver StatementResolver) *CallStack {
	return &CallStack{funcClock: funcClock, stmtResolv: resolver}
}

// Depth returns the number of live frames.
func (cs *CallStack) Depth() int {
	return len(cs.frames)
}

// Empty reports whether the call stack is empty (I4 checkpoint).
func (cs *CallStack) Empty() bool {
	return len(cs.frames) == 0
}

// Push installs a fresh frame for function on entry and returns it.
func (cs *CallStack) Push(function FunctionHandle, eventTime uint64) *CallFrame {
	f := &CallFrame{
		FunctionRef:   function,
		EventTime:     eventTime,
		FunctionTime:  cs.funcClock.Advance(),
		CurrentStmtIndex: -1,
		LastStmtIndex:    -1,
	}
	cs.frames = append(cs.frames, f)
	return f
}

// Top returns the innermost live frame, or nil if the stack is empty.
func (cs *CallStack) Top() *CallFrame {
	if len(cs.frames) == 0 {
		return nil
	}
	return cs.frames[len(cs.frames)-1]
}

// PopNormal pops the top frame on a normal (non-exceptional) return,
// caching it as the last return frame (spec §4.4).
func (cs *CallStack) PopNormal() *CallFrame {
	f := cs.pop()
	if f == nil {
		return nil
	}
	if !cs.hasExcFrm {
		cs.last = &LastFrame{Frame: *f, IsReturnFrame: true}
	}
	return f
}

// PopException pops the top frame during exception unwinding. Only the
// originating frame (the first one unwound by a given exception) is
// recorded into last; every subsequent frame in the same unwind just
// pops (spec §4.4: "on every subsequent frame unwound by the same
// exception, only pop").
func (cs *CallStack) PopException() *CallFrame {
	f := cs.pop()
	if f == nil {
		return nil
	}
	if !cs.hasExcFrm {
		cs.last = &LastFrame{Frame: *f, IsExceptionFrame: true}
		cs.hasExcFrm = true
	}
	return f
}

// HasImmediateExceptionFrame reports whether the current exception
// unwind has already captured its originating frame.
func (cs *CallStack) HasImmediateExceptionFrame() bool {
	return cs.hasExcFrm
}

// LastFrame returns the most recently popped frame, or nil if none has
// been popped since the last reset.
func (cs *CallStack) LastFrame() *LastFrame {
	return cs.last
}

func (cs *CallStack) pop() *CallFrame {
	n := len(cs.frames)
	if n == 0 {
		return nil
	}
	f := cs.frames[n-1]
	cs.frames = cs.frames[:n-1]
	cs.funcClock.Advance()
	return f
}

// ResetForTopLevel implements spec §4.6: requires an empty call stack,
// zeros the function-time counter, clears return/exception frame state.
func (cs *CallStack) ResetForTopLevel() {
	if !cs.Empty() {
		panic("ttd: ResetForTopLevel called with a non-empty call stack (I4 violated)")
	}
	cs.funcClock.Reset()
	cs.last = nil
	cs.hasExcFrm = false
}

// TrackStatement implements the bytecode-dispatch statement-tracking
// rule of spec §4.4: if bcOffset falls within the current frame's
// [bc_min, bc_max), no-op; otherwise resolve the enclosing statement and,
// if it differs from the current one, rotate current -> last.
func (cs *CallStack) TrackStatement(bcOffset uint32) {
	f := cs.Top()
	if f == nil {
		return
	}
	if bcOffset >= f.BCMin && bcOffset < f.BCMax {
		return
	}
	stmtIndex, bcMin, bcMax := cs.stmtResolv.ResolveStatement(f.FunctionRef, bcOffset)
	if stmtIndex == f.CurrentStmtIndex {
		f.BCMin, f.BCMax = bcMin, bcMax
		return
	}
	f.LastStmtIndex = f.CurrentStmtIndex
	f.LastStmtLoopTime = f.CurrentStmtLoopTime
	f.CurrentStmtIndex = stmtIndex
	f.CurrentStmtLoopTime = f.LoopTime
	f.BCMin, f.BCMax = bcMin, bcMax
}

// ExceptionFramePopper is the Go translation of the original's
// TTDExceptionFramePopper (spec §9 design note: "scoped acquisition...
// in a language without destructors, model as explicit try/finally-style
// wrapping"). Construct on call entry, defer Release, call PopNormal on
// an ordinary return. If Release runs without PopNormal having been
// called, the call stack's current top is exception-propagating.
type ExceptionFramePopper struct {
	stack    *CallStack
	function FunctionHandle
	popped   bool
}

// PushExceptionPopper begins tracking function for exception propagation.
func PushExceptionPopper(stack *CallStack, function FunctionHandle) *ExceptionFramePopper {
	return &ExceptionFramePopper{stack: stack, function: function}
}

// PopNormal marks this popper as resolved by an ordinary return; Release
// becomes a no-op.
func (p *ExceptionFramePopper) PopNormal() {
	p.popped = true
}

// Release runs the exception path iff PopNormal was never called. Must
// be invoked via defer at the call site that constructed the popper.
func (p *ExceptionFramePopper) Release() {
	if p.popped {
		return
	}
	p.stack.PopException()
}
