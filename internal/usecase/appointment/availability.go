package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// AvailabilityResolver decides whether a doctor works at a given start.
type AvailabilityResolver struct {
	repo     domain.Repository
	boundEnd bool
}

func NewAvailabilityResolver(
	repo domain.Repository,
	boundEnd bool,
) *AvailabilityResolver {
	return &AvailabilityResolver{
		repo:     repo,
		boundEnd: boundEnd,
	}
}

func (r *AvailabilityResolver) Check(
	ctx context.Context,
	doctorID string,
	start time.Time,
	duration time.Duration,
) error {

	entry, err := r.repo.GetScheduleEntry(ctx, doctorID, int(start.Weekday()))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err := domain.CheckWorkingHours(entry, start, duration, r.boundEnd); err != nil {
		return err
	}

	windows, err := r.repo.ListUnavailabilityAt(ctx, doctorID, start)
	if err != nil {
		return err
	}

	return domain.CheckUnavailability(windows, start)
}
