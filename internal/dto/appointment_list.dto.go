package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID                  string    `json:"id"`
	AppointmentDateTime time.Time `json:"appointmentDateTime"`
	EndsAt              time.Time `json:"endsAt"`
	Duration            int       `json:"duration"`
	Status              string    `json:"status"`
	Type                string    `json:"type"`
	PatientID           string    `json:"patientId"`
	PatientName         string    `json:"patientName"`
	DoctorID            string    `json:"doctorId"`
	DoctorName          string    `json:"doctorName"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:                  ap.ID,
		AppointmentDateTime: ap.StartDateTime,
		EndsAt:              ap.EndsAt(),
		Duration:            ap.DurationMinutes,
		Status:              ap.Status,
		Type:                ap.Type,
		PatientID:           ap.PatientID,
		DoctorID:            ap.DoctorID,
	}
	if ap.Patient != nil {
		out.PatientName = ap.Patient.Name
	}
	if ap.Doctor != nil {
		out.DoctorName = ap.Doctor.Name
	}
	return out
}
