package ttd

import (
	"fmt"

	"github.com/hashicorp/ttd-eventlog/logformat"
	"github.com/hashicorp/ttd-eventlog/snapshot"
)

// SaveLog persists l's entire on-disk representation (spec §6 "On-disk
// format") through deps.Streams: the header frame, then the event,
// property, and three script-table sequences, in that order. Snapshot
// payloads themselves already live in their own companion files
// (snapshot.Write, called at extraction time); this only writes the
// event-list/property/script-table frame that ties the rest together.
func SaveLog(l *Log, dir string) error {
	if l.deps.Streams == nil {
		return fmt.Errorf("ttd: no StreamProvider configured")
	}
	stream, err := l.deps.Streams.OpenLogStream(dir, false, true)
	if err != nil {
		return err
	}
	defer stream.Close()

	w := logformat.NewWriter(stream)
	if err := w.WriteHeader(logformat.Header{
		Arch:        l.cfg.Arch,
		DiagEnabled: l.cfg.DiagBuild,
	}); err != nil {
		return err
	}
	if err := l.writeEvents(w); err != nil {
		return err
	}
	if err := l.writeProperties(w); err != nil {
		return err
	}
	if err := l.writeScriptTable(w, "loadedScripts", l.scripts.Loaded); err != nil {
		return err
	}
	if err := l.writeScriptTable(w, "newFunctionScripts", l.scripts.NewFunction); err != nil {
		return err
	}
	if err := l.writeScriptTable(w, "evalScripts", l.scripts.Eval); err != nil {
		return err
	}
	return w.Flush()
}

// LoadLog reconstructs a Log from the on-disk representation SaveLog
// wrote under cfg.LogDir, rejecting it outright if the header's
// arch/diagEnabled fields don't match cfg (spec §6 compatibility rule).
func LoadLog(cfg *Config, deps Dependencies) (*Log, error) {
	if deps.Streams == nil {
		return nil, fmt.Errorf("ttd: no StreamProvider configured")
	}
	stream, err := deps.Streams.OpenLogStream(cfg.LogDir, true, false)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	r := logformat.NewReader(stream)
	hdr, err := r.ReadHeader()
	if err != nil {
		return nil, err
	}
	if err := hdr.CheckCompatible(cfg.Arch, cfg.DiagBuild); err != nil {
		return nil, wrapLogFormatMismatch(err)
	}

	l := NewLog(cfg, deps)
	if err := l.readEvents(r); err != nil {
		return nil, err
	}
	if err := l.readProperties(r); err != nil {
		return nil, err
	}
	if err := l.readScriptTable(r, "loadedScripts", l.scripts.Loaded); err != nil {
		return nil, err
	}
	if err := l.readScriptTable(r, "newFunctionScripts", l.scripts.NewFunction); err != nil {
		return nil, err
	}
	if err := l.readScriptTable(r, "evalScripts", l.scripts.Eval); err != nil {
		return nil, err
	}
	if err := r.Errors(); err != nil {
		return nil, err
	}
	return l, nil
}

// writeEvents writes the event-count frame followed by one
// kind/eventTime/payload group per entry, in list order.
func (l *Log) writeEvents(w *logformat.Writer) error {
	if err := w.WriteUint("eventCount", uint64(l.events.Count())); err != nil {
		return err
	}
	it := l.events.IterFirst()
	for it.IsValid() {
		e := it.Entry()
		if err := w.WriteField("kind", e.Kind.String()); err != nil {
			return err
		}
		if err := w.WriteUint("eventTime", e.EventTime); err != nil {
			return err
		}
		if err := l.dispatch.Emit(e.Kind, w, e.Payload); err != nil {
			return err
		}
		it.Next()
	}
	return nil
}

// readEvents reads the event-count frame and reconstructs each entry
// via the dispatch table's Parse, appending it to l.events, then
// repositions the event clock one past the newest loaded event_time so
// recording can resume correctly. Snapshot and JsRTCallFunctionBegin
// entries carry their actual *snapshot.Snapshot out of band, in a
// companion file addressed by the entry's own event_time
// (snapshot.Write/CompanionPath); dispatch.Parse deliberately leaves
// those fields as stubs, so they're reattached here from disk — this
// is what keeps FindSnapTime's EventTime comparisons (spec §4.9, P8)
// correct against a reloaded log, not just a freshly recorded one.
func (l *Log) readEvents(r *logformat.Reader) error {
	line, err := r.Next()
	if err != nil {
		return err
	}
	if line.Field != "eventCount" {
		return fmt.Errorf("logformat: expected eventCount, got %q", line.Field)
	}
	count := r.ParseUint("eventCount", line.Value)

	var maxTime uint64
	var any bool
	for i := uint64(0); i < count; i++ {
		kindLine, err := r.Next()
		if err != nil {
			return err
		}
		if kindLine.Field != "kind" {
			return fmt.Errorf("logformat: expected kind field, got %q", kindLine.Field)
		}
		kind, ok := ParseEventKind(kindLine.Value)
		if !ok {
			return fmt.Errorf("logformat: unknown event kind %q", kindLine.Value)
		}

		timeLine, err := r.Next()
		if err != nil {
			return err
		}
		if timeLine.Field != "eventTime" {
			return fmt.Errorf("logformat: expected eventTime field, got %q", timeLine.Field)
		}
		eventTime := r.ParseUint("eventTime", timeLine.Value)

		payload, err := l.dispatch.Parse(kind, r)
		if err != nil {
			return err
		}
		switch kind {
		case KindJsRTCallFunctionBegin:
			if snap, err := snapshot.Read(l.cfg.LogDir, eventTime); err == nil {
				payload.(*CallFunctionBeginAction).RTRSnapshot = snap
			}
		case KindSnapshot:
			if snap, err := snapshot.Read(l.cfg.LogDir, eventTime); err == nil {
				payload.(*SnapshotEvent).Snapshot = snap
			}
		}

		e := l.events.Append()
		e.Kind = kind
		e.EventTime = eventTime
		e.Payload = payload

		if !any || eventTime > maxTime {
			maxTime = eventTime
		}
		any = true
	}
	if any {
		l.clock.Set(maxTime + 1)
	}
	return nil
}

// writeProperties writes the property-count frame followed by one
// id/name/attrs group per resolvable property record.
func (l *Log) writeProperties(w *logformat.Writer) error {
	type propRecord struct {
		pid   PropertyID
		name  string
		attrs uint32
	}
	var recs []propRecord
	if l.deps.Props != nil {
		for _, pid := range l.deps.Props.EnumerateIDs() {
			name, attrs, ok := l.deps.Props.ResolveRecord(pid)
			if !ok {
				continue
			}
			recs = append(recs, propRecord{pid, name, attrs})
		}
	}
	if err := w.WriteUint("propertyCount", uint64(len(recs))); err != nil {
		return err
	}
	for _, rc := range recs {
		if err := w.WriteInt("propertyID", int64(rc.pid)); err != nil {
			return err
		}
		if err := w.WriteField("propertyName", rc.name); err != nil {
			return err
		}
		if err := w.WriteUint("propertyAttrs", uint64(rc.attrs)); err != nil {
			return err
		}
	}
	return nil
}

// readProperties reads the property sequence. Reconstructing the live
// PropertyRegistry's name/attrs table is the embedder's job (the
// interface exposes no such mutator); this only pins each loaded
// record so it stays rooted in the recycler for the life of the Log
// (spec §6, "Pin/Unpin keep property records rooted").
func (l *Log) readProperties(r *logformat.Reader) error {
	line, err := r.Next()
	if err != nil {
		return err
	}
	if line.Field != "propertyCount" {
		return fmt.Errorf("logformat: expected propertyCount, got %q", line.Field)
	}
	count := r.ParseUint("propertyCount", line.Value)
	for i := uint64(0); i < count; i++ {
		idLine, err := r.Next()
		if err != nil {
			return err
		}
		pid := PropertyID(r.ParseInt("propertyID", idLine.Value))

		if _, err := r.Next(); err != nil { // propertyName
			return err
		}
		attrsLine, err := r.Next()
		if err != nil {
			return err
		}
		r.ParseUint("propertyAttrs", attrsLine.Value)

		if l.deps.Props != nil {
			l.deps.Props.Pin(pid)
		}
	}
	return nil
}

// writeScriptTable writes name's count frame followed by one entry
// group per script body, ordered by body counter.
func (l *Log) writeScriptTable(w *logformat.Writer, name string, t *ScriptTable) error {
	entries := t.sortedEntries()
	if err := w.WriteUint(name+"Count", uint64(len(entries))); err != nil {
		return err
	}
	for _, b := range entries {
		if err := w.WriteUint("bodyCounter", uint64(b.BodyCounter)); err != nil {
			return err
		}
		if err := w.WriteUint("documentID", uint64(b.DocumentID)); err != nil {
			return err
		}
		if err := w.WriteField("sourceURI", b.SourceURI); err != nil {
			return err
		}
		if err := w.WriteField("sourceCode", b.SourceCode); err != nil {
			return err
		}
		if err := w.WriteUint("loadFlags", uint64(b.LoadFlags)); err != nil {
			return err
		}
	}
	return nil
}

// readScriptTable reads name's count frame and restores each entry into
// t at its recorded body counter.
func (l *Log) readScriptTable(r *logformat.Reader, name string, t *ScriptTable) error {
	line, err := r.Next()
	if err != nil {
		return err
	}
	if line.Field != name+"Count" {
		return fmt.Errorf("logformat: expected %sCount, got %q", name, line.Field)
	}
	count := r.ParseUint(name+"Count", line.Value)
	for i := uint64(0); i < count; i++ {
		var b ScriptBody

		l1, err := r.Next()
		if err != nil {
			return err
		}
		b.BodyCounter = uint32(r.ParseUint("bodyCounter", l1.Value))

		l2, err := r.Next()
		if err != nil {
			return err
		}
		b.DocumentID = uint32(r.ParseUint("documentID", l2.Value))

		l3, err := r.Next()
		if err != nil {
			return err
		}
		b.SourceURI = l3.Value

		l4, err := r.Next()
		if err != nil {
			return err
		}
		b.SourceCode = l4.Value

		l5, err := r.Next()
		if err != nil {
			return err
		}
		b.LoadFlags = uint32(r.ParseUint("loadFlags", l5.Value))

		t.restore(b.BodyCounter, b)
	}
	return nil
}
