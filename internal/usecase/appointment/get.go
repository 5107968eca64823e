package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	if !domain.CanActOn(actor, ap).CanView {
		return nil, forbidden()
	}

	return ap, nil
}
