package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) ListSchedule(
	ctx context.Context,
	doctorID string,
) ([]models.DoctorSchedule, error) {

	var entries []models.DoctorSchedule
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceSchedule makes entries the doctor's whole week in one
// transaction. Days left out are removed; the rest are upserted on
// (doctor_id, day_of_week).
func (r *ScheduleGormRepository) ReplaceSchedule(
	ctx context.Context,
	doctorID string,
	entries []models.DoctorSchedule,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		days := make([]int, 0, len(entries))
		for i := range entries {
			entries[i].ID = 0
			entries[i].DoctorID = doctorID
			days = append(days, entries[i].DayOfWeek)
		}

		del := tx.Where("doctor_id = ?", doctorID)
		if len(days) > 0 {
			del = del.Where("day_of_week NOT IN ?", days)
		}
		if err := del.Delete(&models.DoctorSchedule{}).Error; err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "doctor_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"start_time", "end_time", "break_start", "break_end", "updated_at",
			}),
		}).Create(&entries).Error
	})
}

func (r *ScheduleGormRepository) ListUnavailability(
	ctx context.Context,
	doctorID string,
) ([]models.DoctorUnavailability, error) {

	var windows []models.DoctorUnavailability
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("start_date_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *ScheduleGormRepository) CreateUnavailability(
	ctx context.Context,
	u *models.DoctorUnavailability,
) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *ScheduleGormRepository) DeleteUnavailability(
	ctx context.Context,
	doctorID string,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Delete(&models.DoctorUnavailability{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.ScheduleRepository = (*ScheduleGormRepository)(nil)
