package ttd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	kinds []EventKind
}

func (s *recordingSink) ReplayAction(kind EventKind, payload interface{}) error {
	s.kinds = append(s.kinds, kind)
	return nil
}

func newTestLog(sink ActionSink) *Log {
	cfg := DefaultConfig()
	cfg.ChunkSize = 4
	return NewLog(cfg, Dependencies{ActionSink: sink})
}

// TestScenarioS1ThreeTelemetryEventsGetSequentialTimes covers spec
// scenario S1: three recorded events produce event-times {0,1,2}.
func TestScenarioS1ThreeTelemetryEventsGetSequentialTimes(t *testing.T) {
	l := newTestLog(nil)
	l.SetRecording()

	RecordTelemetry(l, "a", false)
	RecordTelemetry(l, "b", false)
	RecordTelemetry(l, "c", false)

	require.Equal(t, 3, l.Count())

	it := l.events.IterFirst()
	var times []uint64
	for it.IsValid() {
		times = append(times, it.Entry().EventTime)
		it.Next()
	}
	assert.Equal(t, []uint64{0, 1, 2}, times)
}

func TestRecordingGatedByModeAndExcludedExecution(t *testing.T) {
	l := newTestLog(nil)
	RecordTelemetry(l, "dropped: pending", false)
	assert.Equal(t, 0, l.Count())

	l.SetRecording()
	RecordTelemetry(l, "kept", false)
	assert.Equal(t, 1, l.Count())

	l.PushExcludedExecution()
	RecordTelemetry(l, "dropped: excluded", false)
	assert.Equal(t, 1, l.Count())
	l.PopExcludedExecution()

	RecordTelemetry(l, "kept again", false)
	assert.Equal(t, 2, l.Count())
}

func TestReplayFullWalksEveryEntryInOrder(t *testing.T) {
	sink := &recordingSink{}
	l := newTestLog(sink)
	l.SetRecording()

	RecordTelemetry(l, "a", false)
	RecordDateTime(l, 1.5)
	RecordRandomSeed(l, 1, 2)

	l.SetDebugging()
	abort, err := ReplayFull(l)
	require.NoError(t, err)
	require.NotNil(t, abort)
	assert.Equal(t, AbortEndOfLog, abort.Reason)

	assert.Equal(t, []EventKind{KindTelemetry, KindDateTime, KindRandomSeed}, sink.kinds)
}

func TestReplayToStopsAtTarget(t *testing.T) {
	sink := &recordingSink{}
	l := newTestLog(sink)
	l.SetRecording()

	RecordTelemetry(l, "a", false) // t=0
	RecordTelemetry(l, "b", false) // t=1
	RecordTelemetry(l, "c", false) // t=2

	l.SetDebugging()
	abort, err := ReplayTo(l, 1)
	require.NoError(t, err)
	require.NotNil(t, abort)
	assert.Equal(t, AbortReachedTarget, abort.Reason)
	assert.Equal(t, []EventKind{KindTelemetry, KindTelemetry}, sink.kinds)
}

func TestCallFunctionBeginEndBalancesCallStack(t *testing.T) {
	l := newTestLog(nil)
	l.SetRecording()

	popper, action, _ := RecordCallFunctionBegin(l, 0, -1, 0, "callee", nil)
	require.Equal(t, 1, l.callStack.Depth())

	RecordCallFunctionEnd(l, popper, 0, -1, false, false)
	assert.Equal(t, 0, l.callStack.Depth())
	assert.Nil(t, l.callStack.LastFrame(), "ResetForTopLevel clears last frame at root depth 0")
	_ = action
}

func TestOutOfSyncErrorReportsExpectedAndGot(t *testing.T) {
	l := newTestLog(nil)
	l.SetRecording()
	RecordTelemetry(l, "only one", false)

	l.SetDebugging()
	err := l.CheckSync(KindDateTime)
	require.Error(t, err)
	var oose *OutOfSyncError
	require.True(t, errors.As(err, &oose))
	assert.Equal(t, KindTelemetry, oose.Expected)
	assert.Equal(t, KindDateTime, oose.Got)
}
