package score

import (
	"errors"
	"fmt"
)

// Error classes. Everything here is fatal for the request that hit it; the
// service never retries on the caller's behalf.
var (
	// ErrBadReference marks a malformed or unresolvable activity reference
	// (caller must fix the request).
	ErrBadReference = errors.New("bad activity reference")

	// ErrNotEnrolled marks a user without an enrollment in the activity's course.
	ErrNotEnrolled = errors.New("user not enrolled in course")

	// ErrNoScoreItem marks an activity that was never configured for scoring.
	ErrNoScoreItem = errors.New("no score configuration for activity")

	// ErrUnknownSource marks an activity whose achievement source is not recognized.
	ErrUnknownSource = errors.New("unknown achievement source")
)

// Fault is a data-consistency failure: externally managed state violated an
// invariant this core relies on (wrong grade cardinality, a grade outside its
// declared bounds). It points at a misbehaving collaborator, not at the caller.
type Fault struct {
	msg string
	err error
}

func faultf(format string, args ...any) *Fault {
	e := fmt.Errorf(format, args...)
	return &Fault{msg: e.Error(), err: errors.Unwrap(e)}
}

func (f *Fault) Error() string { return "data fault: " + f.msg }
func (f *Fault) Unwrap() error { return f.err }

// IsFault reports whether err is (or wraps) a data-consistency fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

// CommittedError wraps a scoring failure that happened after a side effect
// (event ingestion, completion update) already succeeded. The caller must not
// assume the side effect was rolled back.
type CommittedError struct {
	Op  string // side effect that was committed, e.g. "event ingestion"
	Err error
}

func (e *CommittedError) Error() string {
	return fmt.Sprintf("%s committed, scoring failed: %v", e.Op, e.Err)
}

func (e *CommittedError) Unwrap() error { return e.Err }
