package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresAfterInterval(t *testing.T) {
	s := NewScheduler(100*time.Millisecond, 0)
	assert.Equal(t, MinHistoryLength, s.HistoryLength(), "historyLen below minimum is clamped up")

	s.IncrementElapsed(50 * time.Millisecond)
	assert.False(t, s.IsTimeForSnapshot())

	s.IncrementElapsed(60 * time.Millisecond)
	assert.True(t, s.IsTimeForSnapshot())

	s.NoteSnapshotTaken()
	assert.False(t, s.IsTimeForSnapshot())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	id, err := NewID()
	require.NoError(t, err)

	in := &Snapshot{
		ID:               id,
		EventTime:        42,
		RestoreEventTime: 40,
		RestoreLogTag:    "tag-1",
		Contexts:         1,
		Cardinalities:    Cardinalities{Objects: 10, Properties: 20, Scripts: 3},
		Blob:             []byte{1, 2, 3, 4},
	}

	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := &Snapshot{ID: "abc", EventTime: 7, Contexts: 1}

	require.NoError(t, Write(dir, in))
	out, err := Read(dir, 7)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)

	assert.NoError(t, Remove(dir, 7))
	_, err = Read(dir, 7)
	assert.Error(t, err)

	// Removing an already-absent snapshot is not an error.
	assert.NoError(t, Remove(dir, 7))
}

func TestCompanionPathIsAddressedByEventTime(t *testing.T) {
	p1 := CompanionPath("/tmp/log", 5)
	p2 := CompanionPath("/tmp/log", 6)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, filepath.Dir(p1), "/tmp/log")
}
