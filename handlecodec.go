package ttd

// HandleCodec turns an opaque Value/FunctionHandle into a string token
// suitable for the textual log format and back. The JS value
// representation itself is out of scope for this core (spec §1); this
// is the narrow collaborator interface the embedder supplies so the log
// serializer (C10) never has to know what a Value actually is.
type HandleCodec interface {
	EncodeHandle(h interface{}) (string, error)
	DecodeHandle(s string) (interface{}, error)
}
