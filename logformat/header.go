package logformat

import "fmt"

// Arch is the architecture tag stamped into every log's header frame.
// On replay it must match the current architecture exactly (spec §6
// compatibility rule).
type Arch string

const (
	ArchX86     Arch = "x86"
	ArchX64     Arch = "x64"
	ArchARM64   Arch = "arm64"
	ArchUnknown Arch = "unknown"
)

// Header is the fixed-order frame at the start of every log (spec §6):
// arch, diagEnabled, usedMemory, reservedMemory, followed by the
// event/property/script sequences the caller writes separately.
type Header struct {
	Arch           Arch
	DiagEnabled    bool
	UsedMemory     uint64
	ReservedMemory uint64
}

// WriteHeader writes the header fields in the order the format requires.
func (w *Writer) WriteHeader(h Header) error {
	if err := w.WriteField("arch", string(h.Arch)); err != nil {
		return err
	}
	if err := w.WriteBool("diagEnabled", h.DiagEnabled); err != nil {
		return err
	}
	if err := w.WriteUint("usedMemory", h.UsedMemory); err != nil {
		return err
	}
	if err := w.WriteUint("reservedMemory", h.ReservedMemory); err != nil {
		return err
	}
	return nil
}

// ReadHeader reads the four header fields in order, verifying names.
func (r *Reader) ReadHeader() (Header, error) {
	var h Header
	fields := []struct {
		name string
		set  func(string)
	}{
		{"arch", func(v string) { h.Arch = Arch(v) }},
		{"diagEnabled", func(v string) { h.DiagEnabled = r.ParseBool("diagEnabled", v) }},
		{"usedMemory", func(v string) { h.UsedMemory = r.ParseUint("usedMemory", v) }},
		{"reservedMemory", func(v string) { h.ReservedMemory = r.ParseUint("reservedMemory", v) }},
	}
	for _, f := range fields {
		line, err := r.Next()
		if err != nil {
			return h, err
		}
		if line.Field != f.name {
			return h, fmt.Errorf("logformat: expected header field %q, got %q", f.name, line.Field)
		}
		f.set(line.Value)
	}
	return h, nil
}

// CheckCompatible enforces spec §6's compatibility rule: arch must match
// exactly and diagEnabled must match the build's diagnostic flag.
// Mismatch is a hard error.
func (h Header) CheckCompatible(currentArch Arch, diagBuild bool) error {
	if h.Arch != currentArch {
		return fmt.Errorf("logformat: arch mismatch: log is %q, runtime is %q", h.Arch, currentArch)
	}
	if h.DiagEnabled != diagBuild {
		return fmt.Errorf("logformat: diagEnabled mismatch: log is %v, build is %v", h.DiagEnabled, diagBuild)
	}
	return nil
}
