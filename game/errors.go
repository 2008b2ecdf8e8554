package game

import "fmt"

// IllegalActionError reports a submitted action that is not a member of
// the current legal set. State is left unchanged; the caller decides how
// to recover.
type IllegalActionError struct {
	Action Action
	Phase  Phase
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s in phase %s", e.Action, e.Phase)
}

// InvariantViolation marks executor bugs: broken topology or count
// invariants that must never be persisted. It is raised via panic so the
// corrupted copy is abandoned.
type InvariantViolation struct {
	Reason string
}

func (e InvariantViolation) Error() string {
	return "invariant violation: " + e.Reason
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(InvariantViolation{Reason: fmt.Sprintf(format, args...)})
	}
}
