package ttd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStream adapts a shared *bytes.Buffer to ReadWriteFlushCloser.
type memStream struct {
	buf *bytes.Buffer
}

func (m *memStream) Read(p []byte) (int, error)  { return m.buf.Read(p) }
func (m *memStream) Write(p []byte) (int, error) { return m.buf.Write(p) }
func (m *memStream) Flush() error                { return nil }
func (m *memStream) Close() error                { return nil }

// memStreamProvider is a StreamProvider backed by an in-memory buffer,
// standing in for the embedder's real file-backed stream.
type memStreamProvider struct {
	buf bytes.Buffer
}

func (p *memStreamProvider) OpenLogStream(dir string, forRead, forWrite bool) (ReadWriteFlushCloser, error) {
	return &memStream{buf: &p.buf}, nil
}

// TestSaveLogLoadLogRoundTrip covers spec §6's on-disk format: a log
// with recorded events, a standalone snapshot, and a loaded script
// saved via SaveLog must come back out of LoadLog with the same
// entries, event time, and script table contents.
func TestSaveLogLoadLogRoundTrip(t *testing.T) {
	streams := &memStreamProvider{}
	walker := &fakeHeapWalker{}

	cfg := DefaultConfig()
	cfg.ChunkSize = 4
	cfg.LogDir = t.TempDir()
	l := NewLog(cfg, Dependencies{Streams: streams, HeapWalker: walker})
	l.SetRecording()

	RecordTelemetry(l, "a", false)
	RecordDateTime(l, 1.5)
	l.scripts.Loaded.Add(ScriptBody{DocumentID: 1, SourceURI: "main.js", SourceCode: "1+1", LoadFlags: 0})

	l.scheduler.IncrementElapsed(10 * time.Hour)
	_, err := ExtractSnapshot(l)
	require.NoError(t, err)

	RecordRandomSeed(l, 7, 8)

	require.NoError(t, SaveLog(l, cfg.LogDir))

	loaded, err := LoadLog(cfg, Dependencies{Streams: streams, HeapWalker: walker})
	require.NoError(t, err)

	assert.Equal(t, l.Count(), loaded.Count())
	assert.Equal(t, l.EventTime(), loaded.EventTime())

	loadedScript, ok := loaded.scripts.Loaded.Get(0)
	require.True(t, ok)
	assert.Equal(t, "main.js", loadedScript.SourceURI)
	assert.Equal(t, "1+1", loadedScript.SourceCode)

	var kinds []EventKind
	it := loaded.events.IterFirst()
	for it.IsValid() {
		kinds = append(kinds, it.Entry().Kind)
		it.Next()
	}
	assert.Equal(t, []EventKind{KindTelemetry, KindDateTime, KindSnapshot, KindRandomSeed}, kinds)
}

// TestLoadLogRejectsArchMismatch covers spec §6's compatibility rule:
// a log saved under one architecture must be rejected, not silently
// accepted, when loaded under another.
func TestLoadLogRejectsArchMismatch(t *testing.T) {
	streams := &memStreamProvider{}

	cfg := DefaultConfig()
	cfg.LogDir = t.TempDir()
	l := NewLog(cfg, Dependencies{Streams: streams})
	l.SetRecording()
	RecordTelemetry(l, "a", false)
	require.NoError(t, SaveLog(l, cfg.LogDir))

	badCfg := DefaultConfig()
	badCfg.LogDir = cfg.LogDir
	if badCfg.Arch == cfg.Arch {
		badCfg.Arch = "bogus-arch"
	}
	_, err := LoadLog(badCfg, Dependencies{Streams: streams})
	require.Error(t, err)
}
