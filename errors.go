package ttd

import (
	"fmt"

	"github.com/hashicorp/errwrap"
	"github.com/pkg/errors"
)

// Sentinel error kinds (spec §7).

// ErrEndOfLog is the abort reason used when the replay cursor runs past
// the last entry.
var ErrEndOfLog = fmt.Errorf("ttd: end of log")

// ErrLogFormatMismatch is fatal: the log's arch or diagEnabled field does
// not match the running build (spec §6 compatibility rule).
var ErrLogFormatMismatch = fmt.Errorf("ttd: log format mismatch")

// OutOfSyncError reports that the next event's event_time or kind
// disagreed with expectations during replay (spec §7). In diagnostic
// builds this should be surfaced as an assertion failure; in production
// builds it escalates to an Abort.
type OutOfSyncError struct {
	Expected EventKind
	Got      EventKind
	AtTime   uint64
	Trace    string
	cause    error
}

func (e *OutOfSyncError) Error() string {
	msg := fmt.Sprintf("ttd: out of sync at event_time %d: expected kind %s, got %s", e.AtTime, e.Expected, e.Got)
	if e.Trace != "" {
		msg += "\nrecent replay trace:\n" + e.Trace
	}
	return msg
}

func (e *OutOfSyncError) Unwrap() error { return e.cause }

func newOutOfSyncError(expected, got EventKind, atTime uint64, trace string) error {
	base := &OutOfSyncError{Expected: expected, Got: got, AtTime: atTime, Trace: trace}
	return errors.Wrap(base, "replay driver")
}

// wrapLogFormatMismatch wraps a compatibility-check failure with
// ErrLogFormatMismatch as its single cause, grounded on the
// errwrap idiom the teacher's agent commands use.
func wrapLogFormatMismatch(detail error) error {
	return errwrap.Wrapf("{{err}}: "+detail.Error(), ErrLogFormatMismatch)
}
