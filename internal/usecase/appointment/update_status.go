package appointment

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type UpdateStatusInput struct {
	Actor              domain.Actor
	AppointmentID      string
	Status             string
	Notes              string
	CancellationReason string
}

type UpdateStatus struct {
	repo     domain.Repository
	policy   domain.TransitionPolicy
	clock    *timezone.Clock
	notifier notification.Notifier
	audit    AuditSink
	observer Observer
	log      logrus.FieldLogger
}

func NewUpdateStatus(
	repo domain.Repository,
	policy domain.TransitionPolicy,
	clock *timezone.Clock,
	notifier notification.Notifier,
	audit AuditSink,
	observer Observer,
	log logrus.FieldLogger,
) *UpdateStatus {
	return &UpdateStatus{
		repo:     repo,
		policy:   policy,
		clock:    clock,
		notifier: notifier,
		audit:    auditOrNoop(audit),
		observer: observerOrNoop(observer),
		log:      log,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	ap, err := loadAppointment(ctx, uc.repo, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if !domain.CanActOn(in.Actor, ap).CanMutateStatus {
		return nil, forbidden()
	}

	from := domain.Status(ap.Status)
	if err := uc.policy.Check(from, to); err != nil {
		return nil, err
	}

	domain.ApplyStatus(ap, domain.StatusChange{
		To:                 to,
		ActorID:            in.Actor.ID,
		Notes:              in.Notes,
		CancellationReason: in.CancellationReason,
	}, uc.clock.Now())

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		// Reviving a cancelled row whose slot was rebooked, with the slot
		// index installed.
		if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusinessMsg(
				httperr.CodeSlotTaken,
				"time slot has been booked by another appointment",
			)
		}
		return nil, err
	}

	if to == domain.StatusCancelled {
		uc.notifyCancellation(in.Actor, ap)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.Actor.ID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{
			"from": string(from),
			"to":   string(to),
		},
	})
	uc.observer.StatusTransition(string(to))

	uc.log.WithFields(logrus.Fields{
		"appointment_id": ap.ID,
		"from":           from,
		"to":             to,
		"actor_id":       in.Actor.ID,
	}).Info("appointment status changed")

	return ap, nil
}

// notifyCancellation tells the participant(s) who did not act.
func (uc *UpdateStatus) notifyCancellation(actor domain.Actor, ap *models.Appointment) {
	if uc.notifier == nil || ap.Patient == nil || ap.Doctor == nil {
		return
	}

	toPatient := actor.ID != ap.PatientID
	toDoctor := actor.ID != ap.DoctorID

	if toPatient {
		uc.notifier.Notify(notification.AppointmentCancelled(ap, ap.Patient, ap.Doctor))
	}
	if toDoctor {
		uc.notifier.Notify(notification.AppointmentCancelled(ap, ap.Doctor, ap.Patient))
	}
}

// --------------------------------------------------
// shared
// --------------------------------------------------

func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	id string,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "appointment not found")
		}
		return nil, err
	}
	return ap, nil
}

func forbidden() error {
	return httperr.ErrBusinessMsg(httperr.CodeForbidden, "not allowed to act on this appointment")
}
