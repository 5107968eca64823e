package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	PatientID string `gorm:"size:36;not null;index" json:"patientId"`
	Patient   *User  `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient,omitempty"`

	DoctorID string `gorm:"size:36;not null;index:idx_appointments_doctor_start" json:"doctorId"`
	Doctor   *User  `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor,omitempty"`

	// Clinic-local civil time.
	StartDateTime   time.Time `gorm:"not null;index:idx_appointments_doctor_start" json:"appointmentDateTime"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration"`

	Status   string `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	Type     string `gorm:"size:50" json:"type"`
	Reason   string `gorm:"type:text" json:"reason,omitempty"`
	Symptoms string `gorm:"type:text" json:"symptoms,omitempty"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	CancellationReason string  `gorm:"type:text" json:"cancellationReason,omitempty"`
	CreatedByID        string  `gorm:"size:36" json:"createdById"`
	CancelledByID      *string `gorm:"size:36" json:"cancelledById,omitempty"`

	EndDateTime *time.Time `json:"endDateTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// EndsAt is the nominal end of the booked interval.
func (a *Appointment) EndsAt() time.Time {
	return a.StartDateTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
