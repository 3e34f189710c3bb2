package ttd

import (
	"github.com/armon/go-metrics"

	"github.com/hashicorp/ttd-eventlog/arena"
)

// DefaultChunkSize is the recommended chunk capacity B from spec §3.
const DefaultChunkSize = 512

// Entry is an EventLogEntry (spec §3): a tagged record with a kind, the
// event_time it was stamped with at append, and a kind-specific payload
// that may reference strings/arrays owned by the event arena.
type Entry struct {
	Kind      EventKind
	EventTime uint64
	Payload   interface{}
}

// chunk is one fixed-capacity block of the event list (spec §3:
// "doubly-linked list of fixed-capacity chunks"). Only [startPos,
// currPos) holds live entries.
type chunk struct {
	data     []Entry
	startPos int
	currPos  int
	next     int32
	prev     int32
	hasNext  bool
	hasPrev  bool
}

const noChunk int32 = -1

// EventList is the append-only, chunked doubly-linked event store
// (component C2). Appends always land in the head chunk; removal only
// ever happens at the tail (oldest) chunk.
//
// Grounded on the original's TTEventList/TTEventListLink (AddArrayLink,
// per-block StartPos/CurrPos) with chunk storage backed by
// arena.Arena[chunk] (component C1) instead of a raw slab allocator, so
// that chunk retirement maps onto Arena.Unlink exactly as spec §4.1
// describes ("used only by the event list when retiring a chunk").
type EventList struct {
	arena     *arena.Arena[chunk]
	dispatch  *DispatchTable
	chunkSize int

	head int32
	tail int32
	has  bool

	count int
}

// NewEventList creates an empty event list with the given chunk size
// (DefaultChunkSize if <= 0), backed by its own arena and driven by
// dispatch for per-kind unload hooks.
func NewEventList(chunkSize int, dispatch *DispatchTable) *EventList {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &EventList{
		arena:     arena.New[chunk](64), // chunk *metadata* structs are arena-managed; each one owns its own data slice
		dispatch:  dispatch,
		chunkSize: chunkSize,
		head:      noChunk,
		tail:      noChunk,
	}
}

// Count returns the total number of live entries across all chunks.
func (l *EventList) Count() int {
	return l.count
}

func (l *EventList) headChunk() *chunk {
	if l.head == noChunk {
		return nil
	}
	return l.arena.At(l.head)
}

// addHeadChunk allocates a fresh chunk and links it as the new head.
func (l *EventList) addHeadChunk() int32 {
	idx, c := l.arena.Allocate()
	c.data = make([]Entry, l.chunkSize)
	c.startPos = 0
	c.currPos = 0
	c.next = noChunk
	c.hasNext = false
	c.prev = l.head
	c.hasPrev = l.head != noChunk

	if l.head != noChunk {
		h := l.arena.At(l.head)
		h.next = idx
		h.hasNext = true
	}
	l.head = idx
	if l.tail == noChunk {
		l.tail = idx
	}
	return idx
}

// Append returns a pointer to an uninitialized entry slot in the head
// chunk, creating a fresh head chunk first if the current one is full or
// missing (spec §4.2). The caller fills in Kind/Payload; EventTime is
// the caller's responsibility to stamp from the log's EventClock before
// or as part of filling the slot.
func (l *EventList) Append() *Entry {
	h := l.headChunk()
	if h == nil || h.currPos == l.chunkSize {
		l.addHeadChunk()
		h = l.headChunk()
	}
	e := &h.data[h.currPos]
	h.currPos++
	l.count++
	metrics.IncrCounter([]string{"ttd", "eventlog", "append"}, 1)
	return e
}

// PopOldest removes the oldest live entry (the tail chunk's first live
// slot), running the kind's unload hook through the dispatch table
// first. When the tail chunk becomes empty it is unlinked from the
// arena (spec §4.2).
func (l *EventList) PopOldest() error {
	if l.tail == noChunk {
		return nil
	}
	t := l.arena.At(l.tail)
	if t.startPos == t.currPos {
		return nil
	}

	e := &t.data[t.startPos]
	if l.dispatch != nil {
		l.dispatch.Unload(e.Kind, e.Payload)
	}
	*e = Entry{}
	t.startPos++
	l.count--
	metrics.IncrCounter([]string{"ttd", "eventlog", "pop_oldest"}, 1)

	if t.startPos == t.currPos {
		next := t.next
		hasNext := t.hasNext
		old := l.tail
		if hasNext {
			nc := l.arena.At(next)
			nc.prev = noChunk
			nc.hasPrev = false
			l.tail = next
		} else {
			// list becomes empty
			l.tail = noChunk
			l.head = noChunk
		}
		l.arena.Unlink(old)
	}
	return nil
}

// Iterator is a bidirectional cursor over the event list. It crosses
// chunk boundaries transparently; IsValid is false past either end
// (spec §4.2). An iterator obtained before a PopOldest call is not
// guaranteed valid afterward and must be re-fetched.
type Iterator struct {
	list    *EventList
	chunk   int32
	pos     int
	valid   bool
}

// IterFirst returns an iterator positioned at the oldest live entry.
func (l *EventList) IterFirst() *Iterator {
	c := l.tail
	for c != noChunk {
		ch := l.arena.At(c)
		if ch.startPos < ch.currPos {
			return &Iterator{list: l, chunk: c, pos: ch.startPos, valid: true}
		}
		if !ch.hasNext {
			break
		}
		c = ch.next
	}
	return &Iterator{list: l, valid: false}
}

// IterLast returns an iterator positioned at the newest live entry.
func (l *EventList) IterLast() *Iterator {
	c := l.head
	for c != noChunk {
		ch := l.arena.At(c)
		if ch.startPos < ch.currPos {
			return &Iterator{list: l, chunk: c, pos: ch.currPos - 1, valid: true}
		}
		if !ch.hasPrev {
			break
		}
		c = ch.prev
	}
	return &Iterator{list: l, valid: false}
}

// IsValid reports whether the iterator currently references a live
// entry.
func (it *Iterator) IsValid() bool {
	return it.valid
}

// Entry returns a pointer to the entry the iterator currently
// references. Must not be called on an invalid iterator.
func (it *Iterator) Entry() *Entry {
	ch := it.list.arena.At(it.chunk)
	return &ch.data[it.pos]
}

// Next advances the iterator forward, crossing into the next chunk
// transparently. Becomes invalid once past the newest entry.
func (it *Iterator) Next() {
	if !it.valid {
		return
	}
	ch := it.list.arena.At(it.chunk)
	if it.pos+1 < ch.currPos {
		it.pos++
		return
	}
	if !ch.hasNext {
		it.valid = false
		return
	}
	it.chunk = ch.next
	nc := it.list.arena.At(it.chunk)
	if nc.startPos >= nc.currPos {
		it.valid = false
		return
	}
	it.pos = nc.startPos
}

// Prev retreats the iterator backward, crossing into the previous chunk
// transparently. Becomes invalid once past the oldest entry.
func (it *Iterator) Prev() {
	if !it.valid {
		return
	}
	ch := it.list.arena.At(it.chunk)
	if it.pos-1 >= ch.startPos {
		it.pos--
		return
	}
	if !ch.hasPrev {
		it.valid = false
		return
	}
	it.chunk = ch.prev
	pc := it.list.arena.At(it.chunk)
	if pc.startPos >= pc.currPos {
		it.valid = false
		return
	}
	it.pos = pc.currPos - 1
}
