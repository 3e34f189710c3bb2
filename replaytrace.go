package ttd

import (
	"fmt"
	"strings"

	"github.com/armon/circbuf"
)

// replayTrace is a bounded ring of recently recorded or replayed entries, surfaced
// as OutOfSyncError.Trace so a diagnostic build can show "what we
// expected to see" without holding the entire log in memory.
//
// Grounded on command/agent/invoke.go's circbuf.Buffer use for bounding
// captured command output — same "don't let this grow unboundedly"
// motivation, applied to replay diagnostics instead of subprocess
// output.
type replayTrace struct {
	buf *circbuf.Buffer
}

func newReplayTrace(maxBytes int64) *replayTrace {
	if maxBytes <= 0 {
		maxBytes = 4096
	}
	buf, err := circbuf.NewBuffer(maxBytes)
	if err != nil {
		// Only fails for maxBytes <= 0, which is guarded above.
		panic(fmt.Sprintf("ttd: replay trace buffer: %v", err))
	}
	return &replayTrace{buf: buf}
}

func (t *replayTrace) record(kind EventKind, eventTime uint64) {
	fmt.Fprintf(t.buf, "t=%d kind=%s\n", eventTime, kind)
}

// String renders the trace oldest-first.
func (t *replayTrace) String() string {
	return strings.TrimRight(string(t.buf.Bytes()), "\n")
}
