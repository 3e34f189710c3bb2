package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-msgpack/codec"
	uuid "github.com/hashicorp/go-uuid"
)

var mpHandle codec.MsgpackHandle

// wireSnapshot is the on-the-wire shape persisted to the companion file;
// kept distinct from Snapshot so the msgpack tags stay independent of
// the in-memory field names.
type wireSnapshot struct {
	ID               string
	EventTime        uint64
	RestoreEventTime uint64
	RestoreLogTag    string
	Contexts         int
	Objects          int
	Properties       int
	Scripts          int
	Blob             []byte
}

// Encode serializes s to msgpack bytes. Grounded on serf/messages.go's
// codec.NewEncoder(&buf, msgpackHandle) usage.
func Encode(s *Snapshot) ([]byte, error) {
	w := wireSnapshot{
		ID:               s.ID,
		EventTime:        s.EventTime,
		RestoreEventTime: s.RestoreEventTime,
		RestoreLogTag:    s.RestoreLogTag,
		Contexts:         s.Contexts,
		Objects:          s.Cardinalities.Objects,
		Properties:       s.Cardinalities.Properties,
		Scripts:          s.Cardinalities.Scripts,
		Blob:             s.Blob,
	}
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, &mpHandle)
	if err := enc.Encode(&w); err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode deserializes msgpack bytes produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	dec := codec.NewDecoder(bytes.NewReader(data), &mpHandle)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return &Snapshot{
		ID:               w.ID,
		EventTime:        w.EventTime,
		RestoreEventTime: w.RestoreEventTime,
		RestoreLogTag:    w.RestoreLogTag,
		Contexts:         w.Contexts,
		Cardinalities:    Cardinalities{Objects: w.Objects, Properties: w.Properties, Scripts: w.Scripts},
		Blob:             w.Blob,
	}, nil
}

// NewID generates a collision-free snapshot identifier, grounded on the
// wider hashicorp ecosystem's (consul, an indirect dep of the teacher's
// go.mod) use of go-uuid for exactly this purpose.
func NewID() (string, error) {
	return uuid.GenerateUUID()
}

// CompanionPath returns the path under dir that a snapshot addressed by
// eventTime is persisted to (spec §6: "Snapshot payloads reference a
// companion file under log_dir addressed by the snapshot's event time").
func CompanionPath(dir string, eventTime uint64) string {
	return filepath.Join(dir, fmt.Sprintf("snapshot-%020d.ttdsnap", eventTime))
}

// Write persists s to its companion file under dir.
func Write(dir string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	path := CompanionPath(dir, s.EventTime)
	return os.WriteFile(path, data, 0644)
}

// Read loads the snapshot addressed by eventTime from its companion file
// under dir.
func Read(dir string, eventTime uint64) (*Snapshot, error) {
	path := CompanionPath(dir, eventTime)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	return Decode(data)
}

// Remove deletes the companion file for eventTime under dir, ignoring a
// not-exist error (used by the FIFO retention pruner).
func Remove(dir string, eventTime uint64) error {
	err := os.Remove(CompanionPath(dir, eventTime))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
