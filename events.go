package ttd

import "github.com/hashicorp/ttd-eventlog/snapshot"

// Payload types, one per event kind in spec §4.7. Names are normative;
// field sets follow the spec's parenthetical descriptions.

// TelemetryEvent is a side-effect-only marker (spec §4.7 "Telemetry").
type TelemetryEvent struct {
	Message string
	DoPrint bool
}

// DateTimeEvent records a host wall-clock read.
type DateTimeEvent struct {
	Value float64
}

// DateStringEvent records a host date-to-string conversion.
type DateStringEvent struct {
	Value string
}

// RandomSeedEvent records host entropy.
type RandomSeedEvent struct {
	SeedHigh uint64
	SeedLow  uint64
}

// PropertyEnumEvent records the next key yielded by a property
// enumeration. PID == NoPropertyID is the "no property" sentinel, in
// which case Name is preserved verbatim (spec §4.7).
type PropertyEnumEvent struct {
	HasMore bool
	PID     PropertyID
	Attrs   uint32
	Name    string
}

// SymbolCreationEvent records a freshly minted symbol's property id; the
// property registry itself is rebuilt on replay.
type SymbolCreationEvent struct {
	PID PropertyID
}

// ExternalCallEvent records a call out of script into host code.
type ExternalCallEvent struct {
	RootDepth            uint32
	CalleeHandle         FunctionHandle
	Args                 []Value
	ReturnValue          Value
	HasScriptException   bool
	HasTerminalException bool
}

// ExternalCbRegisterEvent records the registration of a host task (e.g.
// a microtask).
type ExternalCbRegisterEvent struct {
	CallbackVar Value
}

// CodeLoadEvent records a top-level script load.
type CodeLoadEvent struct {
	BodyCounterID uint32
}

// SnapshotEvent anchors a Snapshot in the event list.
type SnapshotEvent struct {
	Snapshot         *snapshot.Snapshot
	RestoreEventTime uint64
	RestoreLogTag    string
}

// --- JsRT actions ---

type CreateNumberAction struct {
	Value  float64
	Result Value
}

type CreateBooleanAction struct {
	Value  bool
	Result Value
}

// CreateStringAction resolves spec §9's under-specified string-creation
// path: it takes a raw (buffer, length) and records the resulting value.
type CreateStringAction struct {
	Buffer []byte
	Result Value
}

type CreateSymbolAction struct {
	Description string
	Result      Value
}

type VarToObjectAction struct {
	Var    Value
	Result Value
}

// AddRootRefAction / RemoveRootRefAction record the Var whose root
// reference was added or removed. They do not call
// PropertyRegistry.Pin/Unpin or take part in any tag lifecycle.
type AddRootRefAction struct {
	Var Value
}

type RemoveRootRefAction struct {
	Var Value
}

// EventLoopYieldPointAction is a marker event with no payload beyond its
// event_time (spec §9 open question).
type EventLoopYieldPointAction struct{}

type AllocateBasicObjectAction struct {
	Result Value
}

type AllocateArrayAction struct {
	Length uint32
	Result Value
}

type AllocateArrayBufferAction struct {
	Length uint32
	Result Value
}

type AllocateFunctionAction struct {
	NameHint string
	Result   Value
}

type GetAndClearExceptionAction struct {
	Result Value
}

type GetPropertyAction struct {
	Var    Value
	PID    PropertyID
	Result Value
}

type GetIndexAction struct {
	Var    Value
	Index  uint32
	Result Value
}

type GetOwnPropertyInfoAction struct {
	Var    Value
	PID    PropertyID
	Attrs  uint32
	Exists bool
}

type GetOwnPropertiesInfoAction struct {
	Var  Value
	PIDs []PropertyID
}

type DefinePropertyAction struct {
	Var   Value
	PID   PropertyID
	Attrs uint32
	Value Value
}

type DeletePropertyAction struct {
	Var    Value
	PID    PropertyID
	Result bool
}

type SetPrototypeAction struct {
	Var       Value
	Prototype Value
}

type SetPropertyAction struct {
	Var   Value
	PID   PropertyID
	Value Value
}

type SetIndexAction struct {
	Var   Value
	Index uint32
	Value Value
}

type GetTypedArrayInfoAction struct {
	Var          Value
	ArrayType    uint32
	ByteLength   uint32
	ByteOffset   uint32
}

type ConstructCallAction struct {
	CalleeHandle FunctionHandle
	Args         []Value
	Result       Value
}

type CallbackOperationAction struct {
	Create         bool
	Cancel         bool
	Repeating      bool
	HostCallbackID int64
	Callee         FunctionHandle
}

type CodeParseAction struct {
	BodyCounter uint32
	LoadFlags   uint32
	DocumentID  uint32
	SourceURI   string
	SourceCode  string
	LogDir      string
}

// CallFunctionBeginAction may carry a ready-to-run snapshot (spec §4.9
// "Ready-to-run snapshots") attached idempotently by
// DoRTRSnapshotIfNeeded.
type CallFunctionBeginAction struct {
	RootDepth      uint32
	HostCallbackID int64
	WallClockTime  float64
	Callee         FunctionHandle
	Args           []Value
	RTRSnapshot    *snapshot.Snapshot
}

type CallFunctionEndAction struct {
	RootDepth            uint32
	HostCallbackID       int64
	HasScriptException   bool
	HasTerminalException bool
}
