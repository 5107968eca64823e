package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// UpdateNotes overwrites the clinical notes of an appointment. Only the
// assigned doctor and admins may do so.
type UpdateNotes struct {
	repo  domain.Repository
	clock *timezone.Clock
	audit AuditSink
}

func NewUpdateNotes(
	repo domain.Repository,
	clock *timezone.Clock,
	audit AuditSink,
) *UpdateNotes {
	return &UpdateNotes{
		repo:  repo,
		clock: clock,
		audit: auditOrNoop(audit),
	}
}

func (uc *UpdateNotes) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID string,
	notes string,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	if !domain.CanActOn(actor, ap).CanEditNotes {
		return nil, forbidden()
	}

	ap.Notes = notes
	ap.UpdatedAt = uc.clock.Now()

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actor.ID,
		Action:   "appointment_notes_updated",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
