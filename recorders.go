package ttd

import "github.com/hashicorp/ttd-eventlog/snapshot"

// record stamps payload with the next event_time and appends it to the
// event list, iff recording is currently gated open (spec §4.5/§4.7).
// Returns the stamped event_time and whether anything was recorded.
func (l *Log) record(kind EventKind, payload interface{}) (uint64, bool) {
	if !l.ShouldRecord() {
		return 0, false
	}
	t := l.clock.GetAndAdvance()
	e := l.events.Append()
	e.Kind = kind
	e.EventTime = t
	e.Payload = payload
	l.trace.record(kind, t)
	return t, true
}

// RecordTelemetry records a host telemetry message (spec §4.7).
func RecordTelemetry(l *Log, message string, doPrint bool) {
	l.record(KindTelemetry, &TelemetryEvent{Message: message, DoPrint: doPrint})
}

// RecordDateTime records a host wall-clock read.
func RecordDateTime(l *Log, value float64) {
	l.record(KindDateTime, &DateTimeEvent{Value: value})
}

// RecordDateString records a host date-to-string conversion.
func RecordDateString(l *Log, value string) {
	l.record(KindDateString, &DateStringEvent{Value: value})
}

// RecordRandomSeed records host entropy consumed by the engine's PRNG.
func RecordRandomSeed(l *Log, seedHigh, seedLow uint64) {
	l.record(KindRandomSeed, &RandomSeedEvent{SeedHigh: seedHigh, SeedLow: seedLow})
}

// RecordPropertyEnum records the next key yielded by a property
// enumeration. pid == NoPropertyID means "no property", in which case
// name is still recorded verbatim (spec §4.7).
func RecordPropertyEnum(l *Log, hasMore bool, pid PropertyID, attrs uint32, name string) {
	l.record(KindPropertyEnum, &PropertyEnumEvent{HasMore: hasMore, PID: pid, Attrs: attrs, Name: name})
}

// RecordSymbolCreation records a freshly minted symbol's property id.
func RecordSymbolCreation(l *Log, pid PropertyID) {
	l.record(KindSymbolCreation, &SymbolCreationEvent{PID: pid})
}

// RecordExternalCall records a call out of script into host code. The
// returned popper must be released (ideally via defer) at the call
// site; it is the Go translation of
// TTDRecordExternalFunctionCallActionPopper (spec §9 design note).
func RecordExternalCall(l *Log, rootDepth uint32, callee FunctionHandle, args []Value) (*ExceptionFramePopper, *ExternalCallEvent) {
	ev := &ExternalCallEvent{RootDepth: rootDepth, CalleeHandle: callee, Args: args}
	l.record(KindExternalCall, ev)
	l.callStack.Push(callee, l.clock.Time())
	return PushExceptionPopper(l.callStack, callee), ev
}

// FinishExternalCall completes an ExternalCallEvent previously returned
// by RecordExternalCall with its return value and exception state. When
// neither exception flag is set it pops the frame and releases the
// popper via its normal-return path; otherwise it leaves both as they are.
func FinishExternalCall(l *Log, popper *ExceptionFramePopper, ev *ExternalCallEvent, ret Value, scriptExc, terminalExc bool) {
	ev.ReturnValue = ret
	ev.HasScriptException = scriptExc
	ev.HasTerminalException = terminalExc
	if !scriptExc && !terminalExc {
		l.callStack.PopNormal()
		popper.PopNormal()
	}
}

// RecordExternalCbRegister records the registration of a host task.
func RecordExternalCbRegister(l *Log, callbackVar Value) {
	l.record(KindExternalCbRegister, &ExternalCbRegisterEvent{CallbackVar: callbackVar})
}

// RecordCodeLoad records a top-level script load keyed by bodyCounterID
// (spec §4.7 "CodeLoad").
func RecordCodeLoad(l *Log, bodyCounterID uint32) {
	l.record(KindCodeLoad, &CodeLoadEvent{BodyCounterID: bodyCounterID})
}

// recordSnapshot anchors snap in the event list at the current event
// time; called by ExtractSnapshot (snapshot_ops.go), never directly by
// an embedder.
func (l *Log) recordSnapshot(snap *snapshot.Snapshot, restoreEventTime uint64, restoreLogTag string) {
	l.record(KindSnapshot, &SnapshotEvent{Snapshot: snap, RestoreEventTime: restoreEventTime, RestoreLogTag: restoreLogTag})
}

// --- JsRT action recorders (spec §4.7 "JsRT actions") ---

// RecordCreateNumber records a JsNumberToDouble-style number creation.
func RecordCreateNumber(l *Log, value float64, result Value) {
	l.record(KindJsRTCreateNumber, &CreateNumberAction{Value: value, Result: result})
}

// RecordCreateBoolean records a boolean creation.
func RecordCreateBoolean(l *Log, value bool, result Value) {
	l.record(KindJsRTCreateBoolean, &CreateBooleanAction{Value: value, Result: result})
}

// RecordCreateString records a string creation from a raw buffer.
func RecordCreateString(l *Log, buffer []byte, result Value) {
	l.record(KindJsRTCreateString, &CreateStringAction{Buffer: buffer, Result: result})
}

// RecordCreateSymbol records a symbol creation.
func RecordCreateSymbol(l *Log, description string, result Value) {
	l.record(KindJsRTCreateSymbol, &CreateSymbolAction{Description: description, Result: result})
}

// RecordVarToObject records a JsConvertValueToObject coercion.
func RecordVarToObject(l *Log, v, result Value) {
	l.record(KindJsRTVarToObject, &VarToObjectAction{Var: v, Result: result})
}

// RecordAddRootRef records a JsAddRef on a root variable.
func RecordAddRootRef(l *Log, v Value) {
	l.record(KindJsRTAddRootRef, &AddRootRefAction{Var: v})
}

// RecordRemoveRootRef records a JsRelease on a root variable.
func RecordRemoveRootRef(l *Log, v Value) {
	l.record(KindJsRTRemoveRootRef, &RemoveRootRefAction{Var: v})
}

// RecordEventLoopYieldPoint records a point where the host's event loop
// yielded control back to the engine (spec §9 open question resolution:
// a bare marker event).
func RecordEventLoopYieldPoint(l *Log) {
	l.record(KindJsRTEventLoopYieldPoint, &EventLoopYieldPointAction{})
}

// RecordAllocateBasicObject records a JsCreateObject.
func RecordAllocateBasicObject(l *Log, result Value) {
	l.record(KindJsRTAllocateBasicObject, &AllocateBasicObjectAction{Result: result})
}

// RecordAllocateArray records a JsCreateArray.
func RecordAllocateArray(l *Log, length uint32, result Value) {
	l.record(KindJsRTAllocateArray, &AllocateArrayAction{Length: length, Result: result})
}

// RecordAllocateArrayBuffer records a JsCreateArrayBuffer.
func RecordAllocateArrayBuffer(l *Log, length uint32, result Value) {
	l.record(KindJsRTAllocateArrayBuffer, &AllocateArrayBufferAction{Length: length, Result: result})
}

// RecordAllocateFunction records a JsCreateFunction, with nameHint for
// diagnostics (the function body itself is rebuilt from CodeLoad/CodeParse).
func RecordAllocateFunction(l *Log, nameHint string, result Value) {
	l.record(KindJsRTAllocateFunction, &AllocateFunctionAction{NameHint: nameHint, Result: result})
}

// RecordGetAndClearException records a JsGetAndClearException.
func RecordGetAndClearException(l *Log, result Value) {
	l.record(KindJsRTGetAndClearException, &GetAndClearExceptionAction{Result: result})
}

// RecordGetProperty records a JsGetProperty.
func RecordGetProperty(l *Log, v Value, pid PropertyID, result Value) {
	l.record(KindJsRTGetProperty, &GetPropertyAction{Var: v, PID: pid, Result: result})
}

// RecordGetIndex records a JsGetIndexedProperty.
func RecordGetIndex(l *Log, v Value, index uint32, result Value) {
	l.record(KindJsRTGetIndex, &GetIndexAction{Var: v, Index: index, Result: result})
}

// RecordGetOwnPropertyInfo records a JsGetOwnPropertyDescriptor.
func RecordGetOwnPropertyInfo(l *Log, v Value, pid PropertyID, attrs uint32, exists bool) {
	l.record(KindJsRTGetOwnPropertyInfo, &GetOwnPropertyInfoAction{Var: v, PID: pid, Attrs: attrs, Exists: exists})
}

// RecordGetOwnPropertiesInfo records a JsGetOwnPropertyNames.
func RecordGetOwnPropertiesInfo(l *Log, v Value, pids []PropertyID) {
	l.record(KindJsRTGetOwnPropertiesInfo, &GetOwnPropertiesInfoAction{Var: v, PIDs: pids})
}

// RecordDefineProperty records a JsDefineProperty.
func RecordDefineProperty(l *Log, v Value, pid PropertyID, attrs uint32, value Value) {
	l.record(KindJsRTDefineProperty, &DefinePropertyAction{Var: v, PID: pid, Attrs: attrs, Value: value})
}

// RecordDeleteProperty records a JsDeleteProperty.
func RecordDeleteProperty(l *Log, v Value, pid PropertyID, result bool) {
	l.record(KindJsRTDeleteProperty, &DeletePropertyAction{Var: v, PID: pid, Result: result})
}

// RecordSetPrototype records a JsSetPrototype.
func RecordSetPrototype(l *Log, v, prototype Value) {
	l.record(KindJsRTSetPrototype, &SetPrototypeAction{Var: v, Prototype: prototype})
}

// RecordSetProperty records a JsSetProperty.
func RecordSetProperty(l *Log, v Value, pid PropertyID, value Value) {
	l.record(KindJsRTSetProperty, &SetPropertyAction{Var: v, PID: pid, Value: value})
}

// RecordSetIndex records a JsSetIndexedProperty.
func RecordSetIndex(l *Log, v Value, index uint32, value Value) {
	l.record(KindJsRTSetIndex, &SetIndexAction{Var: v, Index: index, Value: value})
}

// RecordGetTypedArrayInfo records a JsGetTypedArrayInfo.
func RecordGetTypedArrayInfo(l *Log, v Value, arrayType, byteLength, byteOffset uint32) {
	l.record(KindJsRTGetTypedArrayInfo, &GetTypedArrayInfoAction{Var: v, ArrayType: arrayType, ByteLength: byteLength, ByteOffset: byteOffset})
}

// RecordConstructCall records a JsConstructObject.
func RecordConstructCall(l *Log, callee FunctionHandle, args []Value, result Value) {
	l.record(KindJsRTConstructCall, &ConstructCallAction{CalleeHandle: callee, Args: args, Result: result})
}

// RecordCallbackOperation records a timer/microtask registration or
// cancellation.
func RecordCallbackOperation(l *Log, create, cancel, repeating bool, hostCallbackID int64, callee FunctionHandle) {
	l.record(KindJsRTCallbackOperation, &CallbackOperationAction{
		Create: create, Cancel: cancel, Repeating: repeating,
		HostCallbackID: hostCallbackID, Callee: callee,
	})
}

// RecordCodeParse records a script body's source text and metadata.
func RecordCodeParse(l *Log, bodyCounter, loadFlags, documentID uint32, sourceURI, sourceCode, logDir string) {
	l.record(KindJsRTCodeParse, &CodeParseAction{
		BodyCounter: bodyCounter, LoadFlags: loadFlags, DocumentID: documentID,
		SourceURI: sourceURI, SourceCode: sourceCode, LogDir: logDir,
	})
}

// RecordCallFunctionBegin records entry into a top-level (root-depth 0)
// or nested host-initiated call, pushing a call-frame and returning an
// ExceptionFramePopper the caller must release. DoRTRSnapshotIfNeeded
// may attach an RTRSnapshot to the returned action afterward.
func RecordCallFunctionBegin(l *Log, rootDepth uint32, hostCallbackID int64, wallClockTime float64, callee FunctionHandle, args []Value) (*ExceptionFramePopper, *CallFunctionBeginAction, uint64) {
	action := &CallFunctionBeginAction{
		RootDepth: rootDepth, HostCallbackID: hostCallbackID,
		WallClockTime: wallClockTime, Callee: callee, Args: args,
	}
	t, _ := l.record(KindJsRTCallFunctionBegin, action)
	l.callStack.Push(callee, t)
	return PushExceptionPopper(l.callStack, callee), action, t
}

// RecordCallFunctionEnd records the matching end of a
// RecordCallFunctionBegin, releasing the call frame via the popper's
// normal-return path unless an exception is propagating.
func RecordCallFunctionEnd(l *Log, popper *ExceptionFramePopper, rootDepth uint32, hostCallbackID int64, scriptExc, terminalExc bool) {
	l.record(KindJsRTCallFunctionEnd, &CallFunctionEndAction{
		RootDepth: rootDepth, HostCallbackID: hostCallbackID,
		HasScriptException: scriptExc, HasTerminalException: terminalExc,
	})
	if !scriptExc && !terminalExc {
		l.callStack.PopNormal()
		popper.PopNormal()
	}
	if rootDepth == 0 {
		l.ResetForTopLevel()
	}
}
