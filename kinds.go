package ttd

// EventKind identifies the concrete payload type carried by an Entry and
// indexes the dispatch table (spec §4.3/§4.7). Ordering is not
// normative; every name below must exist.
type EventKind uint8

const (
	KindTelemetry EventKind = iota
	KindDateTime
	KindDateString
	KindRandomSeed
	KindPropertyEnum
	KindSymbolCreation
	KindExternalCall
	KindExternalCbRegister
	KindCodeLoad
	KindSnapshot

	// JsRT actions.
	KindJsRTCreateNumber
	KindJsRTCreateBoolean
	KindJsRTCreateString
	KindJsRTCreateSymbol
	KindJsRTVarToObject
	KindJsRTAddRootRef
	KindJsRTRemoveRootRef
	KindJsRTEventLoopYieldPoint
	KindJsRTAllocateBasicObject
	KindJsRTAllocateArray
	KindJsRTAllocateArrayBuffer
	KindJsRTAllocateFunction
	KindJsRTGetAndClearException
	KindJsRTGetProperty
	KindJsRTGetIndex
	KindJsRTGetOwnPropertyInfo
	KindJsRTGetOwnPropertiesInfo
	KindJsRTDefineProperty
	KindJsRTDeleteProperty
	KindJsRTSetPrototype
	KindJsRTSetProperty
	KindJsRTSetIndex
	KindJsRTGetTypedArrayInfo
	KindJsRTConstructCall
	KindJsRTCallbackOperation
	KindJsRTCodeParse
	KindJsRTCallFunctionBegin
	KindJsRTCallFunctionEnd

	numEventKinds
)

var kindNames = [numEventKinds]string{
	KindTelemetry:                "Telemetry",
	KindDateTime:                 "DateTime",
	KindDateString:               "DateString",
	KindRandomSeed:               "RandomSeed",
	KindPropertyEnum:             "PropertyEnum",
	KindSymbolCreation:           "SymbolCreation",
	KindExternalCall:             "ExternalCall",
	KindExternalCbRegister:       "ExternalCbRegister",
	KindCodeLoad:                 "CodeLoad",
	KindSnapshot:                 "Snapshot",
	KindJsRTCreateNumber:         "JsRTCreateNumber",
	KindJsRTCreateBoolean:        "JsRTCreateBoolean",
	KindJsRTCreateString:         "JsRTCreateString",
	KindJsRTCreateSymbol:         "JsRTCreateSymbol",
	KindJsRTVarToObject:          "JsRTVarToObject",
	KindJsRTAddRootRef:           "JsRTAddRootRef",
	KindJsRTRemoveRootRef:        "JsRTRemoveRootRef",
	KindJsRTEventLoopYieldPoint:  "JsRTEventLoopYieldPoint",
	KindJsRTAllocateBasicObject:  "JsRTAllocateBasicObject",
	KindJsRTAllocateArray:        "JsRTAllocateArray",
	KindJsRTAllocateArrayBuffer:  "JsRTAllocateArrayBuffer",
	KindJsRTAllocateFunction:     "JsRTAllocateFunction",
	KindJsRTGetAndClearException: "JsRTGetAndClearException",
	KindJsRTGetProperty:          "JsRTGetProperty",
	KindJsRTGetIndex:             "JsRTGetIndex",
	KindJsRTGetOwnPropertyInfo:   "JsRTGetOwnPropertyInfo",
	KindJsRTGetOwnPropertiesInfo: "JsRTGetOwnPropertiesInfo",
	KindJsRTDefineProperty:       "JsRTDefineProperty",
	KindJsRTDeleteProperty:       "JsRTDeleteProperty",
	KindJsRTSetPrototype:         "JsRTSetPrototype",
	KindJsRTSetProperty:          "JsRTSetProperty",
	KindJsRTSetIndex:             "JsRTSetIndex",
	KindJsRTGetTypedArrayInfo:    "JsRTGetTypedArrayInfo",
	KindJsRTConstructCall:        "JsRTConstructCall",
	KindJsRTCallbackOperation:    "JsRTCallbackOperation",
	KindJsRTCodeParse:            "JsRTCodeParse",
	KindJsRTCallFunctionBegin:    "JsRTCallFunctionBegin",
	KindJsRTCallFunctionEnd:      "JsRTCallFunctionEnd",
}

func (k EventKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// ParseEventKind resolves a kind by its String() name, the inverse of
// String(). Used when reloading a persisted log (spec §6 "On-disk
// format"), where each event frame names its kind as text.
func ParseEventKind(name string) (EventKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return EventKind(k), true
		}
	}
	return 0, false
}

// IsJsRTAction reports whether k is one of the JsRT host-API actions
// dispatched by the replay driver's action loop (spec §4.8).
func (k EventKind) IsJsRTAction() bool {
	return k >= KindJsRTCreateNumber && k < numEventKinds
}

// IsRootCall reports whether k begins a top-level callback (the only
// JsRT kind the action loop returns control to the host for).
func (k EventKind) IsRootCall() bool {
	return k == KindJsRTCallFunctionBegin
}
