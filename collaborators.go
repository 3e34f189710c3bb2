package ttd

import (
	"sort"

	"github.com/hashicorp/ttd-eventlog/snapshot"
)

// The types in this file are the engine-facing collaborators spec §6
// requires the embedder to supply. The core only calls through these
// narrow interfaces; it never inspects the JS value representation, the
// heap layout, or the property-record storage directly.

// HeapWalker extracts a Snapshot from a live script context (spec §6,
// §4.9 "Extraction"). Implementations must run entirely under the
// ExcludedExecution overlay; the core guarantees that by pushing it
// before calling BeginSnapshot and popping it after Complete returns.
type HeapWalker interface {
	ExtractSnapshotRoots(ctx Context) ([]Value, error)
	BeginSnapshot(ctx Context) error
	MarkWalk(ctx Context, roots []Value) error
	Evacuate(ctx Context) error
	Complete(ctx Context) (*snapshot.Snapshot, error)
}

// Inflater rehydrates a live script context from a Snapshot (spec §6,
// §4.9 "Inflation").
type Inflater interface {
	PrepForInflate(cardinalities snapshot.Cardinalities) (*InflateMap, error)
	InflateScriptContext(snap *snapshot.Snapshot, liveCtx Context, m *InflateMap, tables *ScriptTables) error
}

// PropertyRegistry enumerates, resolves, and pins property records (spec
// §6). Pin/Unpin keep property records rooted in the engine's recycler
// while the log lives (spec §5 "Shared resources").
type PropertyRegistry interface {
	EnumerateIDs() []PropertyID
	ResolveRecord(pid PropertyID) (name string, attrs uint32, ok bool)
	Pin(pid PropertyID)
	Unpin(pid PropertyID)
}

// StreamProvider opens the log's backing byte stream (spec §6: "the
// underlying byte-stream I/O and compression" is out of scope for this
// core; this is the narrow interface it is consumed through).
type StreamProvider interface {
	OpenLogStream(dir string, forRead, forWrite bool) (ReadWriteFlushCloser, error)
}

// ReadWriteFlushCloser is the minimal stream handle the core needs.
type ReadWriteFlushCloser interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	Close() error
}

// ActionSink performs one logged action against the live engine during
// replay (spec §4.8 "JsRT action loop"). The core never executes script
// itself; it only walks the log and asks the engine to redo exactly
// what was recorded.
type ActionSink interface {
	ReplayAction(kind EventKind, payload interface{}) error
}

// ScriptActivityProbe reports whether script is currently executing and
// lets the replay driver enter/leave script scopes without corrupting
// the engine's own reentrancy counters (spec §4.8 "Re-entrance rule").
type ScriptActivityProbe interface {
	IsScriptActive() bool
	HasRecordedException() bool
	EnterScript()
	LeaveScript()
}

// ScriptTables groups the three parallel script-body tables (loaded /
// newFunction / eval), each keyed by a monotone body-counter (spec
// §4.7 CodeLoad).
type ScriptTables struct {
	Loaded     *ScriptTable
	NewFunction *ScriptTable
	Eval       *ScriptTable
}

// NewScriptTables creates an empty set of the three tables.
func NewScriptTables() *ScriptTables {
	return &ScriptTables{
		Loaded:      NewScriptTable(),
		NewFunction: NewScriptTable(),
		Eval:        NewScriptTable(),
	}
}

// ScriptTable maps a monotone body-counter to the source text/metadata
// recorded for it by CodeLoad/CodeParse.
type ScriptTable struct {
	entries map[uint32]ScriptBody
	next    uint32
}

// ScriptBody is one entry of a ScriptTable.
type ScriptBody struct {
	BodyCounter uint32
	DocumentID  uint32
	SourceURI   string
	SourceCode  string
	LoadFlags   uint32
}

// NewScriptTable creates an empty table.
func NewScriptTable() *ScriptTable {
	return &ScriptTable{entries: make(map[uint32]ScriptBody)}
}

// Add records body under the next monotone counter and returns it.
func (t *ScriptTable) Add(body ScriptBody) uint32 {
	id := t.next
	t.next++
	body.BodyCounter = id
	t.entries[id] = body
	return id
}

// Get resolves a body-counter back to its recorded body.
func (t *ScriptTable) Get(bodyCounter uint32) (ScriptBody, bool) {
	b, ok := t.entries[bodyCounter]
	return b, ok
}

// Count returns the number of entries in the table.
func (t *ScriptTable) Count() int {
	return len(t.entries)
}

// sortedEntries returns t's entries ordered by body counter, used when
// persisting a script table to the on-disk format (spec §6).
func (t *ScriptTable) sortedEntries() []ScriptBody {
	ids := make([]uint32, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]ScriptBody, len(ids))
	for i, id := range ids {
		out[i] = t.entries[id]
	}
	return out
}

// restore inserts body at the given counter directly, used when
// reloading a persisted log where ids must match their recorded values
// rather than being freshly minted by Add.
func (t *ScriptTable) restore(id uint32, body ScriptBody) {
	body.BodyCounter = id
	t.entries[id] = body
	if id >= t.next {
		t.next = id + 1
	}
}

// InflateMap is the bookkeeping needed to re-materialize a snapshot into
// a live runtime; it is owned by the log and reused across successive
// inflations when the source snapshot is unchanged (spec §3 "Snapshot
// ownership", GLOSSARY "Inflate map").
type InflateMap struct {
	Cardinalities snapshot.Cardinalities
	prepared      bool
}

// Reprepare re-targets an existing InflateMap at new cardinalities
// in place, rather than allocating a fresh one (spec §4.9 "Inflation":
// "if previously inflated, re-prepare the inflate map in place").
func (m *InflateMap) Reprepare(c snapshot.Cardinalities) {
	m.Cardinalities = c
	m.prepared = true
}
