package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListAppointmentsInput struct {
	Actor domain.Actor

	DoctorID  string
	PatientID string
	Status    string

	// Clinic-local dates; both bounds are inclusive whole days.
	StartDate *time.Time
	EndDate   *time.Time
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]dto.AppointmentListDTO, error) {

	f := domain.ListFilter{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
	}

	// Doctors and patients only ever see their own appointments.
	switch in.Actor.Role {
	case domain.RoleDoctor:
		f.DoctorID = in.Actor.ID
	case domain.RolePatient:
		f.PatientID = in.Actor.ID
	case domain.RoleAdmin:
	default:
		return nil, forbidden()
	}

	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	if in.StartDate != nil {
		from := timezone.StartOfDay(*in.StartDate)
		f.From = &from
	}
	if in.EndDate != nil {
		to := timezone.StartOfDay(*in.EndDate).AddDate(0, 0, 1)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "endDate must not be before startDate")
	}

	appointments, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap))
	}

	return out, nil
}
