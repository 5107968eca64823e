package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ConflictChecker rejects a start that an existing non-cancelled booking
// of the same doctor already holds. Matching is on the exact timestamp.
type ConflictChecker struct {
	repo domain.Repository
}

func NewConflictChecker(repo domain.Repository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

func (c *ConflictChecker) Check(
	ctx context.Context,
	doctorID string,
	start time.Time,
) error {

	n, err := c.repo.CountActiveAt(ctx, doctorID, start)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.ErrBusinessMsg(httperr.CodeSlotTaken, "time slot is already booked")
	}
	return nil
}
