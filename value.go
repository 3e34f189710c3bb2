package ttd

// Value is an opaque handle to a live engine value (a JS Var in the
// original runtime). The core never inspects it; it only records and
// replays it. The embedder's heap walker and inflater are the only
// collaborators that know its concrete representation.
type Value interface{}

// FunctionHandle is an opaque handle to a function body. Compared by
// identity only.
type FunctionHandle interface{}

// Context is an opaque handle to a single script context. The core
// assumes exactly one context is ever live per Log (spec §4.9,
// "single-context assumption").
type Context interface{}

// PropertyID is an opaque property-record id. NoPropertyID is the
// sentinel used by PropertyEnumEvent when enumeration has no next
// property.
type PropertyID int64

// NoPropertyID is the sentinel meaning "enumeration exhausted" for
// PropertyEnumEvent.
const NoPropertyID PropertyID = -1
