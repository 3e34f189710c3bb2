package ttd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventListAppendAcrossChunks(t *testing.T) {
	l := NewEventList(2, nil)
	for i := 0; i < 5; i++ {
		e := l.Append()
		e.Kind = KindTelemetry
		e.EventTime = uint64(i)
	}
	require.Equal(t, 5, l.Count())

	it := l.IterFirst()
	var times []uint64
	for it.IsValid() {
		times = append(times, it.Entry().EventTime)
		it.Next()
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4}, times)
}

func TestEventListPopOldestRunsUnloadHook(t *testing.T) {
	var unloaded []interface{}
	dispatch := &DispatchTable{}
	dispatch.ops[KindTelemetry] = KindOps{
		Unload: func(p interface{}) { unloaded = append(unloaded, p) },
	}

	l := NewEventList(2, dispatch)
	e := l.Append()
	e.Kind = KindTelemetry
	e.Payload = &TelemetryEvent{Message: "hi"}

	require.NoError(t, l.PopOldest())
	assert.Equal(t, 0, l.Count())
	require.Len(t, unloaded, 1)
	assert.Equal(t, "hi", unloaded[0].(*TelemetryEvent).Message)
}

func TestEventListIterLastAndPrev(t *testing.T) {
	l := NewEventList(2, nil)
	for i := 0; i < 3; i++ {
		e := l.Append()
		e.EventTime = uint64(i)
	}
	it := l.IterLast()
	require.True(t, it.IsValid())
	assert.Equal(t, uint64(2), it.Entry().EventTime)
	it.Prev()
	assert.Equal(t, uint64(1), it.Entry().EventTime)
	it.Prev()
	assert.Equal(t, uint64(0), it.Entry().EventTime)
	it.Prev()
	assert.False(t, it.IsValid())
}

func TestEventListRetiresEmptyChunks(t *testing.T) {
	l := NewEventList(2, nil)
	for i := 0; i < 4; i++ {
		e := l.Append()
		e.EventTime = uint64(i)
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, l.PopOldest())
	}
	assert.Equal(t, 0, l.Count())
	it := l.IterFirst()
	assert.False(t, it.IsValid())
}
