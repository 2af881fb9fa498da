// Package errors defines the behavioral error categories of §7: InvalidInput,
// NotFound, CycleDetected, NoEligibleWorkCenter, and StorageError. Conflicts are data,
// not errors, and are never represented here (§7 policy).
package errors

import "fmt"

// Kind classifies a SchedulingError by the behavioral category a caller needs to act
// on, not by which function raised it.
type Kind int

const (
	InvalidInput Kind = iota
	NotFound
	CycleDetected
	NoEligibleWorkCenter
	StorageError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case NotFound:
		return "NotFound"
	case CycleDetected:
		return "CycleDetected"
	case NoEligibleWorkCenter:
		return "NoEligibleWorkCenter"
	case StorageError:
		return "StorageError"
	default:
		return "Unknown"
	}
}

// SchedulingError is the single error type components of this engine return. Op names
// the failing operation (e.g. "assembly.Load", "workcenter.Select"); Err is the
// underlying cause, if any.
type SchedulingError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// New constructs a SchedulingError of the given kind.
func New(kind Kind, op string, err error) *SchedulingError {
	return &SchedulingError{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is a SchedulingError of the given kind.
func Is(err error, kind Kind) bool {
	var se *SchedulingError
	if as(err, &se) {
		return se.Kind == kind
	}
	return false
}

// as walks err's single-error Unwrap chain looking for a *SchedulingError; it stands
// in for the stdlib errors.As, whose package name this package shadows. Errors that
// wrap several errors (Unwrap() []error) are not searched.
func as(err error, target **SchedulingError) bool {
	for err != nil {
		if se, ok := err.(*SchedulingError); ok {
			*target = se
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
