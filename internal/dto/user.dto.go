package dto

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

type DoctorDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

func NewDoctorDTO(u models.User) DoctorDTO {
	return DoctorDTO{
		ID:             u.ID,
		Name:           u.Name,
		Specialization: u.Specialization,
	}
}

type PatientDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func NewPatientDTO(u models.User) PatientDTO {
	return PatientDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}
