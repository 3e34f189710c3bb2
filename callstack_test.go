package ttd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFunc string

type fixedResolver struct {
	stmtIndex int32
	bcMin     uint32
	bcMax     uint32
}

func (r fixedResolver) ResolveStatement(fn FunctionHandle, bcOffset uint32) (int32, uint32, uint32) {
	return r.stmtIndex, r.bcMin, r.bcMax
}

func TestCallStackPushPopNormal(t *testing.T) {
	var fc FunctionClock
	cs := NewCallStack(&fc, fixedResolver{})

	cs.Push(fakeFunc("f"), 0)
	require.Equal(t, 1, cs.Depth())

	f := cs.PopNormal()
	require.NotNil(t, f)
	assert.Equal(t, 0, cs.Depth())

	last := cs.LastFrame()
	require.NotNil(t, last)
	assert.True(t, last.IsReturnFrame)
	assert.False(t, last.IsExceptionFrame)
}

func TestCallStackExceptionOnlyRecordsOriginatingFrame(t *testing.T) {
	var fc FunctionClock
	cs := NewCallStack(&fc, fixedResolver{})

	cs.Push(fakeFunc("outer"), 0)
	cs.Push(fakeFunc("inner"), 1)

	cs.PopException() // inner: originates the unwind
	assert.True(t, cs.HasImmediateExceptionFrame())
	last := cs.LastFrame()
	require.NotNil(t, last)
	assert.True(t, last.IsExceptionFrame)

	cs.PopException() // outer: same unwind, not re-recorded as last
	assert.True(t, cs.Empty())
}

func TestCallStackResetForTopLevelRequiresEmpty(t *testing.T) {
	var fc FunctionClock
	cs := NewCallStack(&fc, fixedResolver{})
	cs.Push(fakeFunc("f"), 0)
	assert.Panics(t, func() { cs.ResetForTopLevel() })

	cs.PopNormal()
	assert.NotPanics(t, func() { cs.ResetForTopLevel() })
	assert.Nil(t, cs.LastFrame())
}

func TestExceptionFramePopperReleaseOnlyPopsIfNotNormal(t *testing.T) {
	var fc FunctionClock
	cs := NewCallStack(&fc, fixedResolver{})
	cs.Push(fakeFunc("f"), 0)

	popper := PushExceptionPopper(cs, fakeFunc("f"))
	popper.PopNormal()
	cs.PopNormal()
	popper.Release() // no-op: already resolved normally
	assert.False(t, cs.HasImmediateExceptionFrame())
}

func TestExceptionFramePopperReleasePopsExceptionallyByDefault(t *testing.T) {
	var fc FunctionClock
	cs := NewCallStack(&fc, fixedResolver{})
	cs.Push(fakeFunc("f"), 0)

	popper := PushExceptionPopper(cs, fakeFunc("f"))
	popper.Release() // never called PopNormal: propagates as exception
	assert.True(t, cs.HasImmediateExceptionFrame())
}

func TestCallStackTrackStatementRotatesCurrentToLast(t *testing.T) {
	var fc FunctionClock
	cs := NewCallStack(&fc, fixedResolver{stmtIndex: 1, bcMin: 10, bcMax: 20})
	cs.Push(fakeFunc("f"), 0)

	cs.TrackStatement(15)
	top := cs.Top()
	assert.Equal(t, int32(1), top.CurrentStmtIndex)
	assert.Equal(t, int32(-1), top.LastStmtIndex)
}
