package notification

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// -----------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------

type Kind string

const (
	KindAppointmentBooked    Kind = "appointment_booked"
	KindAppointmentCancelled Kind = "appointment_cancelled"
)

type Message struct {
	Kind          Kind
	To            string
	Subject       string
	Body          string
	AppointmentID string
}

// Sink delivers one message. Implementations may block.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier queues a message for delivery and never fails the caller.
type Notifier interface {
	Notify(msg Message)
}

// -----------------------------------------------------------------------
// Builders
// -----------------------------------------------------------------------

const dateLayout = "Monday, January 2, 2006 at 15:04"

func AppointmentBooked(ap *models.Appointment, patient, doctor *models.User) Message {
	return Message{
		Kind:          KindAppointmentBooked,
		To:            patient.Email,
		AppointmentID: ap.ID,
		Subject:       "Appointment confirmed",
		Body: fmt.Sprintf(
			"Dear %s, your %s with Dr. %s on %s (%d minutes) is confirmed.",
			patient.Name,
			typeOrDefault(ap.Type),
			doctor.Name,
			ap.StartDateTime.Format(dateLayout),
			ap.DurationMinutes,
		),
	}
}

// AppointmentCancelled addresses recipient; counterpart is the other
// participant named in the body.
func AppointmentCancelled(ap *models.Appointment, recipient, counterpart *models.User) Message {
	body := fmt.Sprintf(
		"Dear %s, the appointment with %s on %s has been cancelled.",
		recipient.Name,
		counterpart.Name,
		ap.StartDateTime.Format(dateLayout),
	)
	if ap.CancellationReason != "" {
		body += " Reason: " + ap.CancellationReason
	}

	return Message{
		Kind:          KindAppointmentCancelled,
		To:            recipient.Email,
		AppointmentID: ap.ID,
		Subject:       "Appointment cancelled",
		Body:          body,
	}
}

func typeOrDefault(t string) string {
	if t == "" {
		return "appointment"
	}
	return t
}
