package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

const DefaultType = "consultation"

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Actor domain.Actor

	// Only honoured for doctor and admin actors. Patients always book
	// for themselves.
	PatientID string
	DoctorID  string

	StartDateTime   time.Time
	DurationMinutes int

	Type     string
	Reason   string
	Symptoms string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	resolver  *AvailabilityResolver
	conflicts *ConflictChecker
	notifier  notification.Notifier
	audit     AuditSink
	observer  Observer
	log       logrus.FieldLogger

	defaultDuration int
}

func NewCreateAppointment(
	repo domain.Repository,
	resolver *AvailabilityResolver,
	conflicts *ConflictChecker,
	notifier notification.Notifier,
	audit AuditSink,
	observer Observer,
	log logrus.FieldLogger,
	defaultDuration int,
) *CreateAppointment {
	if defaultDuration <= 0 {
		defaultDuration = 30
	}
	return &CreateAppointment{
		repo:            repo,
		resolver:        resolver,
		conflicts:       conflicts,
		notifier:        notifier,
		audit:           auditOrNoop(audit),
		observer:        observerOrNoop(observer),
		log:             log,
		defaultDuration: defaultDuration,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	uc.observer.BookingResult(bookingResult(err))
	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if strings.TrimSpace(in.DoctorID) == "" {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "doctorId is required")
	}
	if in.StartDateTime.IsZero() {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "appointmentDateTime is required")
	}
	if in.DurationMinutes < 0 {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "duration must be positive")
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = uc.defaultDuration
	}

	apType := strings.TrimSpace(in.Type)
	if apType == "" {
		apType = DefaultType
	}

	// --------------------------------------------------
	// 2. Doctor
	// --------------------------------------------------
	doctor, err := uc.repo.GetActiveDoctor(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeDoctorNotFound, "doctor not found or inactive")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3. Patient
	// --------------------------------------------------
	patient, err := uc.resolvePatient(ctx, in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Working hours + unavailability
	// --------------------------------------------------
	if err := uc.resolver.Check(
		ctx,
		doctor.ID,
		in.StartDateTime,
		time.Duration(duration)*time.Minute,
	); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Exact-slot conflict
	// --------------------------------------------------
	if err := uc.conflicts.Check(ctx, doctor.ID, in.StartDateTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6. Insert
	// --------------------------------------------------
	ap := &models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		StartDateTime:   in.StartDateTime,
		DurationMinutes: duration,
		Status:          string(domain.InitialStatus()),
		Type:            apType,
		Reason:          in.Reason,
		Symptoms:        in.Symptoms,
		CreatedByID:     in.Actor.ID,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		// Lost the race against a concurrent booking of the same slot.
		if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeSlotTaken, "time slot is already booked")
		}
		return nil, err
	}

	ap.Patient = patient
	ap.Doctor = doctor

	// --------------------------------------------------
	// 7. Side effects (best effort)
	// --------------------------------------------------
	if uc.notifier != nil {
		uc.notifier.Notify(notification.AppointmentBooked(ap, patient, doctor))
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.Actor.ID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"doctorId":            ap.DoctorID,
			"patientId":           ap.PatientID,
			"appointmentDateTime": ap.StartDateTime,
		},
	})

	uc.log.WithFields(logrus.Fields{
		"appointment_id": ap.ID,
		"doctor_id":      ap.DoctorID,
		"patient_id":     ap.PatientID,
	}).Info("appointment created")

	return ap, nil
}

func (uc *CreateAppointment) resolvePatient(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.User, error) {

	patientID := in.Actor.ID
	if in.PatientID != "" && in.Actor.Role != domain.RolePatient {
		patientID = in.PatientID
	}

	patient, err := uc.repo.GetUser(ctx, patientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodePatientNotFound, "patient not found")
		}
		return nil, err
	}

	if patient.Role != models.RolePatient || !patient.Active {
		return nil, httperr.ErrBusinessMsg(httperr.CodePatientNotFound, "patient not found")
	}

	return patient, nil
}

func bookingResult(err error) string {
	if err == nil {
		return "created"
	}
	if be, ok := httperr.AsBusiness(err); ok {
		return be.Code
	}
	return "error"
}
