package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

var allStatuses = []Status{
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// transitions lists every defined move. Terminal states have none.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.ErrBusinessMsg(httperr.CodeValidation, "status must be one of scheduled, completed, cancelled, no_show")
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// InitialStatus is the status every new appointment starts in.
func InitialStatus() Status {
	return StatusScheduled
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionPolicy decides which status changes are accepted. The
// permissive policy accepts any change on an existing appointment,
// including moves out of terminal states.
type TransitionPolicy struct {
	Strict bool
}

func (p TransitionPolicy) Check(from, to Status) error {
	if !p.Strict {
		return nil
	}
	if !CanTransition(from, to) {
		return httperr.ErrBusinessMsg(
			httperr.CodeInvalidTransition,
			"cannot change status from "+string(from)+" to "+string(to),
		)
	}
	return nil
}
