package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

type StatusChange struct {
	To                 Status
	ActorID            string
	Notes              string
	CancellationReason string
}

// ApplyStatus mutates ap for the change. It does not check whether the
// transition is allowed; see TransitionPolicy.
func ApplyStatus(ap *models.Appointment, ch StatusChange, now time.Time) {
	ap.Status = string(ch.To)

	switch ch.To {
	case StatusCancelled:
		ap.CancellationReason = ch.CancellationReason
		actor := ch.ActorID
		ap.CancelledByID = &actor
	case StatusCompleted, StatusNoShow:
		if ch.Notes != "" {
			ap.Notes = ch.Notes
		}
		ap.EndDateTime = &now
	}

	ap.UpdatedAt = now
}
