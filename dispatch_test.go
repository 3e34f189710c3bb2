package ttd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/ttd-eventlog/logformat"
	"github.com/hashicorp/ttd-eventlog/snapshot"
)

// stringCodec treats every handle as its own string token; sufficient
// for round-trip tests since the core never interprets handle contents.
type stringCodec struct{}

func (stringCodec) EncodeHandle(h interface{}) (string, error) {
	if h == nil {
		return "<nil>", nil
	}
	return h.(string), nil
}

func (stringCodec) DecodeHandle(s string) (interface{}, error) {
	if s == "<nil>" {
		return nil, nil
	}
	return s, nil
}

func roundTrip(t *testing.T, kind EventKind, dt *DispatchTable, payload interface{}) interface{} {
	t.Helper()
	var buf bytes.Buffer
	w := logformat.NewWriter(&buf)
	require.NoError(t, dt.Emit(kind, w, payload))
	require.NoError(t, w.Flush())

	r := logformat.NewReader(&buf)
	got, err := dt.Parse(kind, r)
	require.NoError(t, err)
	require.NoError(t, r.Errors())
	return got
}

func TestDispatchTelemetryRoundTrip(t *testing.T) {
	dt := NewDispatchTable(stringCodec{})
	in := &TelemetryEvent{Message: "hello world", DoPrint: true}
	out := roundTrip(t, KindTelemetry, dt, in).(*TelemetryEvent)
	assert.Equal(t, in, out)
}

func TestDispatchRandomSeedRoundTrip(t *testing.T) {
	dt := NewDispatchTable(stringCodec{})
	in := &RandomSeedEvent{SeedHigh: 123456789, SeedLow: 42}
	out := roundTrip(t, KindRandomSeed, dt, in).(*RandomSeedEvent)
	assert.Equal(t, in, out)
}

func TestDispatchExternalCallRoundTripWithHandles(t *testing.T) {
	dt := NewDispatchTable(stringCodec{})
	in := &ExternalCallEvent{
		RootDepth:    0,
		CalleeHandle: "fn:print",
		Args:         []Value{"arg0", "arg1"},
		ReturnValue:  "ret0",
	}
	out := roundTrip(t, KindExternalCall, dt, in).(*ExternalCallEvent)
	assert.Equal(t, in.CalleeHandle, out.CalleeHandle)
	assert.Equal(t, in.Args, out.Args)
	assert.Equal(t, in.ReturnValue, out.ReturnValue)
}

func TestDispatchCallFunctionBeginRoundTripIsBlockFramed(t *testing.T) {
	dt := NewDispatchTable(stringCodec{})
	in := &CallFunctionBeginAction{
		RootDepth:      0,
		HostCallbackID: -1,
		WallClockTime:  1.25,
		Callee:         "fn:main",
		Args:           []Value{"x"},
	}

	var buf bytes.Buffer
	w := logformat.NewWriter(&buf)
	require.NoError(t, dt.Emit(KindJsRTCallFunctionBegin, w, in))
	require.NoError(t, w.Flush())
	assert.Contains(t, buf.String(), "JsRTCallFunctionBegin {")

	r := logformat.NewReader(&buf)
	got, err := dt.Parse(KindJsRTCallFunctionBegin, r)
	require.NoError(t, err)
	out := got.(*CallFunctionBeginAction)
	assert.Equal(t, in.Callee, out.Callee)
	assert.Equal(t, in.Args, out.Args)
	assert.Equal(t, in.WallClockTime, out.WallClockTime)
}

func TestDispatchUnloadRunsSnapshotEvictHook(t *testing.T) {
	dt := NewDispatchTable(stringCodec{})
	var evicted []string
	dt.SetSnapshotEvictHook(func(s *snapshot.Snapshot) {
		evicted = append(evicted, s.ID)
	})

	dt.Unload(KindSnapshot, &SnapshotEvent{Snapshot: &snapshot.Snapshot{ID: "snap-1"}})
	assert.Equal(t, []string{"snap-1"}, evicted)

	// Kinds with no Unload hook are safe no-ops.
	assert.NotPanics(t, func() { dt.Unload(KindTelemetry, &TelemetryEvent{}) })
}
