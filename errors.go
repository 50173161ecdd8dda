package smalltable

import "github.com/pkg/errors"

// InvalidArgumentError reports a construction-time argument problem: a
// required parameter absent, a duplicate property name, or a property value
// of an unsupported kind. Reported synchronously at the call that
// introduced it, per spec.md §7. Cross-object references from a foreign
// table are rejected one layer up, in internal/client, with that package's
// own error rather than an InvalidArgumentError.
type InvalidArgumentError struct {
	msg string
}

func (e *InvalidArgumentError) Error() string { return e.msg }

func newInvalidArgument(msg string) error {
	return &InvalidArgumentError{msg: msg}
}

// ErrConflict is returned by Repository.Commit and Session.Save when the
// optimistic commit loop could not install a rebased delta. spec.md §7/§9
// deliberately collapse two distinct underlying causes — Delta.Merge
// returning None (a genuine key overlap) and exhausting MaxCommitRetries —
// into this single error; callers must treat both as "save failed, state
// unchanged" and may retry with freshly computed changes.
var ErrConflict = errors.New("smalltable: commit conflict")

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	_, ok := err.(*InvalidArgumentError)
	return ok
}

// IsConflict reports whether err is (or wraps) ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
