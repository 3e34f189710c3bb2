package logformat

import (
	"strconv"
	"strings"

	"github.com/ryanuber/columnize"
)

// Row is one line of diagnostic event-list output for Dump.
type Row struct {
	EventTime uint64
	Kind      string
	Indent    int
}

// Dump renders rows as an aligned, human-readable table. This is a
// debug-only helper — not the on-disk wire format, which is written by
// Writer — so it is fine for it to be "pretty" in a way spec §1 places
// out of scope for the core's UI surface; this exists solely to exercise
// columnize the way the wider hashicorp CLI tooling around serf does.
func Dump(rows []Row) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "EventTime | Kind | Indent")
	for _, r := range rows {
		indentMarker := strings.Repeat(">", r.Indent)
		lines = append(lines, strconv.FormatUint(r.EventTime, 10)+" | "+indentMarker+r.Kind+" | "+strconv.Itoa(r.Indent))
	}
	return columnize.SimpleFormat(lines)
}
