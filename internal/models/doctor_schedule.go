package models

import "time"

// DoctorSchedule is one weekday of a doctor's recurring working hours.
// Times are "HH:MM" in clinic-local time.
type DoctorSchedule struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID string `gorm:"size:36;not null;uniqueIndex:ux_doctor_schedule_day" json:"doctorId"`

	DayOfWeek int `gorm:"not null;uniqueIndex:ux_doctor_schedule_day" json:"dayOfWeek"`

	StartTime  string `gorm:"size:5;not null" json:"startTime"`
	EndTime    string `gorm:"size:5;not null" json:"endTime"`
	BreakStart string `gorm:"size:5" json:"breakStart,omitempty"`
	BreakEnd   string `gorm:"size:5" json:"breakEnd,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DoctorUnavailability blocks [StartDateTime, EndDateTime) for a doctor.
type DoctorUnavailability struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID string `gorm:"size:36;not null;index" json:"doctorId"`

	StartDateTime time.Time `gorm:"not null" json:"startDateTime"`
	EndDateTime   time.Time `gorm:"not null" json:"endDateTime"`
	Reason        string    `gorm:"size:255" json:"reason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
