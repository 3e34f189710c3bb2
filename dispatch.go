package ttd

import (
	"fmt"

	"github.com/hashicorp/ttd-eventlog/logformat"
	"github.com/hashicorp/ttd-eventlog/snapshot"
)

// KindOps is one dispatch-table row: the unload/emit/parse function
// pointers for a single event kind (spec §4.3, component C3).
type KindOps struct {
	Unload func(payload interface{})
	Emit   func(w *logformat.Writer, payload interface{}) error
	Parse  func(r *logformat.Reader) (interface{}, error)
}

// DispatchTable is the per-kind function-pointer array (spec §4.3).
// Built once per log and exhaustively covers every EventKind — this
// resolves spec §9's "InitializeEventListVTable" open question, which
// was left as a stub in the original.
type DispatchTable struct {
	ops         [numEventKinds]KindOps
	codec       HandleCodec
	onEvictSnap func(*snapshot.Snapshot)
}

// NewDispatchTable builds a fully-populated dispatch table. codec
// resolves opaque Value/FunctionHandle fields to/from their textual
// token form.
func NewDispatchTable(codec HandleCodec) *DispatchTable {
	t := &DispatchTable{codec: codec}
	t.registerSimpleKinds()
	t.registerPropertyKinds()
	t.registerCallKinds()
	t.registerJsRTValueKinds()
	t.registerJsRTObjectKinds()
	t.registerJsRTMiscKinds()
	return t
}

// SetSnapshotEvictHook installs the callback run when a KindSnapshot
// entry is retired from the event list (PruneSnapshots / PopOldest),
// so the companion on-disk snapshot file can be removed alongside its
// log entry. Wired by Log at construction time, once LogDir is known.
func (t *DispatchTable) SetSnapshotEvictHook(fn func(*snapshot.Snapshot)) {
	t.onEvictSnap = fn
}

// Unload runs kind's unload hook, if any, against payload.
func (t *DispatchTable) Unload(kind EventKind, payload interface{}) {
	if op := t.ops[kind].Unload; op != nil {
		op(payload)
	}
}

// Emit writes payload's fields through w.
func (t *DispatchTable) Emit(kind EventKind, w *logformat.Writer, payload interface{}) error {
	op := t.ops[kind].Emit
	if op == nil {
		return fmt.Errorf("ttd: no emit registered for kind %s", kind)
	}
	return op(w, payload)
}

// Parse reads one kind's payload fields from r.
func (t *DispatchTable) Parse(kind EventKind, r *logformat.Reader) (interface{}, error) {
	op := t.ops[kind].Parse
	if op == nil {
		return nil, fmt.Errorf("ttd: no parse registered for kind %s", kind)
	}
	return op(r)
}

func (t *DispatchTable) encodeHandle(h interface{}) string {
	s, err := t.codec.EncodeHandle(h)
	if err != nil {
		// Recorders never fail observably (spec §7); an encode failure
		// here means the embedder's codec is broken, which is a
		// process-level concern, not a replay-time one.
		panic(fmt.Sprintf("ttd: handle encode failed: %v", err))
	}
	return s
}

func (t *DispatchTable) decodeHandle(s string) interface{} {
	h, err := t.codec.DecodeHandle(s)
	if err != nil {
		panic(fmt.Sprintf("ttd: handle decode failed: %v", err))
	}
	return h
}

func (t *DispatchTable) emitHandles(w *logformat.Writer, name string, hs []Value) error {
	if err := w.WriteUint(name+"Count", uint64(len(hs))); err != nil {
		return err
	}
	for i, h := range hs {
		if err := w.WriteField(fmt.Sprintf("%s[%d]", name, i), t.encodeHandle(h)); err != nil {
			return err
		}
	}
	return nil
}

func (t *DispatchTable) parseHandles(r *logformat.Reader, name string, count uint64) ([]Value, error) {
	hs := make([]Value, 0, count)
	for i := uint64(0); i < count; i++ {
		line, err := r.Next()
		if err != nil {
			return nil, err
		}
		hs = append(hs, t.decodeHandle(line.Value))
	}
	return hs, nil
}

// --- simple scalar-payload kinds ---

func (t *DispatchTable) registerSimpleKinds() {
	t.ops[KindTelemetry] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*TelemetryEvent)
			if err := w.WriteField("message", e.Message); err != nil {
				return err
			}
			return w.WriteBool("doPrint", e.DoPrint)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &TelemetryEvent{}
			l1, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Message = l1.Value
			l2, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.DoPrint = r.ParseBool("doPrint", l2.Value)
			return e, nil
		},
	}

	t.ops[KindDateTime] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteFloat("value", p.(*DateTimeEvent).Value)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &DateTimeEvent{Value: r.ParseFloat("value", l.Value)}, nil
		},
	}

	t.ops[KindDateString] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteField("value", p.(*DateStringEvent).Value)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &DateStringEvent{Value: l.Value}, nil
		},
	}

	t.ops[KindRandomSeed] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*RandomSeedEvent)
			if err := w.WriteUint("seedHigh", e.SeedHigh); err != nil {
				return err
			}
			return w.WriteUint("seedLow", e.SeedLow)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l1, err := r.Next()
			if err != nil {
				return nil, err
			}
			l2, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &RandomSeedEvent{
				SeedHigh: r.ParseUint("seedHigh", l1.Value),
				SeedLow:  r.ParseUint("seedLow", l2.Value),
			}, nil
		},
	}

	t.ops[KindCodeLoad] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteUint("bodyCounterID", uint64(p.(*CodeLoadEvent).BodyCounterID))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &CodeLoadEvent{BodyCounterID: uint32(r.ParseUint("bodyCounterID", l.Value))}, nil
		},
	}
}

// --- property / symbol kinds ---

func (t *DispatchTable) registerPropertyKinds() {
	t.ops[KindPropertyEnum] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*PropertyEnumEvent)
			if err := w.WriteBool("hasMore", e.HasMore); err != nil {
				return err
			}
			if err := w.WriteInt("pid", int64(e.PID)); err != nil {
				return err
			}
			if err := w.WriteUint("attrs", uint64(e.Attrs)); err != nil {
				return err
			}
			return w.WriteField("name", e.Name)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &PropertyEnumEvent{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.HasMore = r.ParseBool("hasMore", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.PID = PropertyID(r.ParseInt("pid", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Attrs = uint32(r.ParseUint("attrs", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Name = l.Value
			return e, nil
		},
	}

	t.ops[KindSymbolCreation] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteInt("pid", int64(p.(*SymbolCreationEvent).PID))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &SymbolCreationEvent{PID: PropertyID(r.ParseInt("pid", l.Value))}, nil
		},
	}
}

// --- external/JsRT call kinds ---

func (t *DispatchTable) registerCallKinds() {
	t.ops[KindExternalCall] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*ExternalCallEvent)
			if err := w.WriteUint("rootDepth", uint64(e.RootDepth)); err != nil {
				return err
			}
			if err := w.WriteField("callee", t.encodeHandle(e.CalleeHandle)); err != nil {
				return err
			}
			if err := t.emitHandles(w, "args", e.Args); err != nil {
				return err
			}
			if err := w.WriteField("returnValue", t.encodeHandle(e.ReturnValue)); err != nil {
				return err
			}
			if err := w.WriteBool("hasScriptException", e.HasScriptException); err != nil {
				return err
			}
			return w.WriteBool("hasTerminalException", e.HasTerminalException)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &ExternalCallEvent{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.RootDepth = uint32(r.ParseUint("rootDepth", l.Value))

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.CalleeHandle = t.decodeHandle(l.Value)

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			count := r.ParseUint("argsCount", l.Value)
			e.Args, err = t.parseHandles(r, "args", count)
			if err != nil {
				return nil, err
			}

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.ReturnValue = t.decodeHandle(l.Value)

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.HasScriptException = r.ParseBool("hasScriptException", l.Value)

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.HasTerminalException = r.ParseBool("hasTerminalException", l.Value)
			return e, nil
		},
	}

	t.ops[KindExternalCbRegister] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteField("callbackVar", t.encodeHandle(p.(*ExternalCbRegisterEvent).CallbackVar))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &ExternalCbRegisterEvent{CallbackVar: t.decodeHandle(l.Value)}, nil
		},
	}

	t.ops[KindJsRTCallFunctionBegin] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CallFunctionBeginAction)
			if err := w.BeginBlock("JsRTCallFunctionBegin"); err != nil {
				return err
			}
			if err := w.WriteUint("rootDepth", uint64(e.RootDepth)); err != nil {
				return err
			}
			if err := w.WriteInt("hostCallbackID", e.HostCallbackID); err != nil {
				return err
			}
			if err := w.WriteFloat("wallClockTime", e.WallClockTime); err != nil {
				return err
			}
			if err := w.WriteField("callee", t.encodeHandle(e.Callee)); err != nil {
				return err
			}
			if err := t.emitHandles(w, "args", e.Args); err != nil {
				return err
			}
			if err := w.WriteBool("hasRTRSnapshot", e.RTRSnapshot != nil); err != nil {
				return err
			}
			return w.EndBlock()
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			begin, err := r.Next()
			if err != nil {
				return nil, err
			}
			if !begin.IsBegin {
				return nil, fmt.Errorf("logformat: expected JsRTCallFunctionBegin block start")
			}
			e := &CallFunctionBeginAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.RootDepth = uint32(r.ParseUint("rootDepth", l.Value))

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.HostCallbackID = r.ParseInt("hostCallbackID", l.Value)

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.WallClockTime = r.ParseFloat("wallClockTime", l.Value)

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Callee = t.decodeHandle(l.Value)

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			count := r.ParseUint("argsCount", l.Value)
			e.Args, err = t.parseHandles(r, "args", count)
			if err != nil {
				return nil, err
			}

			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			_ = r.ParseBool("hasRTRSnapshot", l.Value) // snapshot companion file loaded separately (spec §6)

			end, err := r.Next()
			if err != nil {
				return nil, err
			}
			if !end.IsEnd {
				return nil, fmt.Errorf("logformat: expected JsRTCallFunctionBegin block end")
			}
			return e, nil
		},
	}

	t.ops[KindJsRTCallFunctionEnd] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CallFunctionEndAction)
			if err := w.WriteUint("rootDepth", uint64(e.RootDepth)); err != nil {
				return err
			}
			if err := w.WriteInt("hostCallbackID", e.HostCallbackID); err != nil {
				return err
			}
			if err := w.WriteBool("hasScriptException", e.HasScriptException); err != nil {
				return err
			}
			return w.WriteBool("hasTerminalException", e.HasTerminalException)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &CallFunctionEndAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.RootDepth = uint32(r.ParseUint("rootDepth", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.HostCallbackID = r.ParseInt("hostCallbackID", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.HasScriptException = r.ParseBool("hasScriptException", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.HasTerminalException = r.ParseBool("hasTerminalException", l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTConstructCall] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*ConstructCallAction)
			if err := w.WriteField("callee", t.encodeHandle(e.CalleeHandle)); err != nil {
				return err
			}
			if err := t.emitHandles(w, "args", e.Args); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &ConstructCallAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.CalleeHandle = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			count := r.ParseUint("argsCount", l.Value)
			e.Args, err = t.parseHandles(r, "args", count)
			if err != nil {
				return nil, err
			}
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTCallbackOperation] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CallbackOperationAction)
			if err := w.WriteBool("create", e.Create); err != nil {
				return err
			}
			if err := w.WriteBool("cancel", e.Cancel); err != nil {
				return err
			}
			if err := w.WriteBool("repeating", e.Repeating); err != nil {
				return err
			}
			if err := w.WriteInt("hostCallbackID", e.HostCallbackID); err != nil {
				return err
			}
			return w.WriteField("callee", t.encodeHandle(e.Callee))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &CallbackOperationAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Create = r.ParseBool("create", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Cancel = r.ParseBool("cancel", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Repeating = r.ParseBool("repeating", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.HostCallbackID = r.ParseInt("hostCallbackID", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Callee = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTCodeParse] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CodeParseAction)
			if err := w.WriteUint("bodyCounter", uint64(e.BodyCounter)); err != nil {
				return err
			}
			if err := w.WriteUint("loadFlags", uint64(e.LoadFlags)); err != nil {
				return err
			}
			if err := w.WriteUint("documentID", uint64(e.DocumentID)); err != nil {
				return err
			}
			if err := w.WriteField("sourceURI", e.SourceURI); err != nil {
				return err
			}
			if err := w.WriteField("sourceCode", e.SourceCode); err != nil {
				return err
			}
			return w.WriteField("logDir", e.LogDir)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &CodeParseAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.BodyCounter = uint32(r.ParseUint("bodyCounter", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.LoadFlags = uint32(r.ParseUint("loadFlags", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.DocumentID = uint32(r.ParseUint("documentID", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.SourceURI = l.Value
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.SourceCode = l.Value
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.LogDir = l.Value
			return e, nil
		},
	}

	t.ops[KindSnapshot] = KindOps{
		Unload: func(p interface{}) {
			e := p.(*SnapshotEvent)
			if t.onEvictSnap != nil {
				t.onEvictSnap(e.Snapshot)
			}
		},
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*SnapshotEvent)
			if err := w.WriteField("snapshotID", e.Snapshot.ID); err != nil {
				return err
			}
			if err := w.WriteUint("restoreEventTime", e.RestoreEventTime); err != nil {
				return err
			}
			return w.WriteField("restoreLogTag", e.RestoreLogTag)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &SnapshotEvent{Snapshot: &snapshot.Snapshot{}}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Snapshot.ID = l.Value
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.RestoreEventTime = r.ParseUint("restoreEventTime", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.RestoreLogTag = l.Value
			return e, nil
		},
	}
}

// --- JsRT actions whose payload is "one or two handles plus a scalar" ---

func (t *DispatchTable) registerJsRTValueKinds() {
	t.ops[KindJsRTCreateNumber] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CreateNumberAction)
			if err := w.WriteFloat("value", e.Value); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &CreateNumberAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Value = r.ParseFloat("value", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTCreateBoolean] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CreateBooleanAction)
			if err := w.WriteBool("value", e.Value); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &CreateBooleanAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Value = r.ParseBool("value", l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTCreateString] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CreateStringAction)
			if err := w.WriteField("buffer", string(e.Buffer)); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &CreateStringAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Buffer = []byte(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTCreateSymbol] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*CreateSymbolAction)
			if err := w.WriteField("description", e.Description); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &CreateSymbolAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Description = l.Value
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTVarToObject] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*VarToObjectAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &VarToObjectAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTAddRootRef] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteField("var", t.encodeHandle(p.(*AddRootRefAction).Var))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &AddRootRefAction{Var: t.decodeHandle(l.Value)}, nil
		},
	}

	t.ops[KindJsRTRemoveRootRef] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteField("var", t.encodeHandle(p.(*RemoveRootRefAction).Var))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &RemoveRootRefAction{Var: t.decodeHandle(l.Value)}, nil
		},
	}

	t.ops[KindJsRTGetAndClearException] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteField("result", t.encodeHandle(p.(*GetAndClearExceptionAction).Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &GetAndClearExceptionAction{Result: t.decodeHandle(l.Value)}, nil
		},
	}
}

func (t *DispatchTable) registerJsRTObjectKinds() {
	t.ops[KindJsRTAllocateBasicObject] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			return w.WriteField("result", t.encodeHandle(p.(*AllocateBasicObjectAction).Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			return &AllocateBasicObjectAction{Result: t.decodeHandle(l.Value)}, nil
		},
	}

	t.ops[KindJsRTAllocateArray] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*AllocateArrayAction)
			if err := w.WriteUint("length", uint64(e.Length)); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &AllocateArrayAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Length = uint32(r.ParseUint("length", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTAllocateArrayBuffer] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*AllocateArrayBufferAction)
			if err := w.WriteUint("length", uint64(e.Length)); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &AllocateArrayBufferAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Length = uint32(r.ParseUint("length", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTAllocateFunction] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*AllocateFunctionAction)
			if err := w.WriteField("nameHint", e.NameHint); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &AllocateFunctionAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.NameHint = l.Value
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTGetProperty] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*GetPropertyAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteInt("pid", int64(e.PID)); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &GetPropertyAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.PID = PropertyID(r.ParseInt("pid", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTGetIndex] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*GetIndexAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteUint("index", uint64(e.Index)); err != nil {
				return err
			}
			return w.WriteField("result", t.encodeHandle(e.Result))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &GetIndexAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Index = uint32(r.ParseUint("index", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTGetOwnPropertyInfo] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*GetOwnPropertyInfoAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteInt("pid", int64(e.PID)); err != nil {
				return err
			}
			if err := w.WriteUint("attrs", uint64(e.Attrs)); err != nil {
				return err
			}
			return w.WriteBool("exists", e.Exists)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &GetOwnPropertyInfoAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.PID = PropertyID(r.ParseInt("pid", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Attrs = uint32(r.ParseUint("attrs", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Exists = r.ParseBool("exists", l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTGetOwnPropertiesInfo] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*GetOwnPropertiesInfoAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteUint("pidCount", uint64(len(e.PIDs))); err != nil {
				return err
			}
			for i, pid := range e.PIDs {
				if err := w.WriteInt(fmt.Sprintf("pid[%d]", i), int64(pid)); err != nil {
					return err
				}
			}
			return nil
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &GetOwnPropertiesInfoAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			count := r.ParseUint("pidCount", l.Value)
			for i := uint64(0); i < count; i++ {
				l, err = r.Next()
				if err != nil {
					return nil, err
				}
				e.PIDs = append(e.PIDs, PropertyID(r.ParseInt("pid", l.Value)))
			}
			return e, nil
		},
	}

	t.ops[KindJsRTDefineProperty] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*DefinePropertyAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteInt("pid", int64(e.PID)); err != nil {
				return err
			}
			if err := w.WriteUint("attrs", uint64(e.Attrs)); err != nil {
				return err
			}
			return w.WriteField("value", t.encodeHandle(e.Value))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &DefinePropertyAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.PID = PropertyID(r.ParseInt("pid", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Attrs = uint32(r.ParseUint("attrs", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Value = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTDeleteProperty] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*DeletePropertyAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteInt("pid", int64(e.PID)); err != nil {
				return err
			}
			return w.WriteBool("result", e.Result)
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &DeletePropertyAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.PID = PropertyID(r.ParseInt("pid", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Result = r.ParseBool("result", l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTSetPrototype] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*SetPrototypeAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			return w.WriteField("prototype", t.encodeHandle(e.Prototype))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &SetPrototypeAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Prototype = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTSetProperty] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*SetPropertyAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteInt("pid", int64(e.PID)); err != nil {
				return err
			}
			return w.WriteField("value", t.encodeHandle(e.Value))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &SetPropertyAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.PID = PropertyID(r.ParseInt("pid", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Value = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTSetIndex] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*SetIndexAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteUint("index", uint64(e.Index)); err != nil {
				return err
			}
			return w.WriteField("value", t.encodeHandle(e.Value))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &SetIndexAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Index = uint32(r.ParseUint("index", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.Value = t.decodeHandle(l.Value)
			return e, nil
		},
	}

	t.ops[KindJsRTGetTypedArrayInfo] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error {
			e := p.(*GetTypedArrayInfoAction)
			if err := w.WriteField("var", t.encodeHandle(e.Var)); err != nil {
				return err
			}
			if err := w.WriteUint("arrayType", uint64(e.ArrayType)); err != nil {
				return err
			}
			if err := w.WriteUint("byteLength", uint64(e.ByteLength)); err != nil {
				return err
			}
			return w.WriteUint("byteOffset", uint64(e.ByteOffset))
		},
		Parse: func(r *logformat.Reader) (interface{}, error) {
			e := &GetTypedArrayInfoAction{}
			l, err := r.Next()
			if err != nil {
				return nil, err
			}
			e.Var = t.decodeHandle(l.Value)
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.ArrayType = uint32(r.ParseUint("arrayType", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.ByteLength = uint32(r.ParseUint("byteLength", l.Value))
			l, err = r.Next()
			if err != nil {
				return nil, err
			}
			e.ByteOffset = uint32(r.ParseUint("byteOffset", l.Value))
			return e, nil
		},
	}
}

func (t *DispatchTable) registerJsRTMiscKinds() {
	t.ops[KindJsRTEventLoopYieldPoint] = KindOps{
		Emit: func(w *logformat.Writer, p interface{}) error { return nil },
		Parse: func(r *logformat.Reader) (interface{}, error) {
			return &EventLoopYieldPointAction{}, nil
		},
	}
}
