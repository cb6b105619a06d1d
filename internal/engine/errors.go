package engine

import (
	"errors"
	"fmt"
)

// ErrUnscored reports that scoring, merge detection or decision logic was
// invoked on a candidate below the minimum event count. This is an internal
// invariant violation: the caller guard is wrong, not the data. It is fatal
// to the event's worker.
var ErrUnscored = errors.New("candidate below minimum event count")

// InvalidEventError reports a ScanEvent that reached the engine with missing
// or out-of-range required fields. Upstream filtering should have caught it;
// the engine rejects it visibly so the upstream defect is observable.
type InvalidEventError struct {
	Field  string
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid scan event: %s: %s", e.Field, e.Reason)
}
