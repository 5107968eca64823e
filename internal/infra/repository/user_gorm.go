package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserGormRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserGormRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserGormRepository) ListActiveDoctors(ctx context.Context) ([]models.User, error) {
	var doctors []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", models.RoleDoctor, true).
		Order("name ASC").
		Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// SearchPatients matches active patients by name, email or phone. An empty
// query lists them all.
func (r *UserGormRepository) SearchPatients(ctx context.Context, query string) ([]models.User, error) {
	q := r.db.WithContext(ctx).Where("role = ? AND active = ?", models.RolePatient, true)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var patients []models.User
	if err := q.Order("name ASC").Limit(100).Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *UserGormRepository) UpdateProfile(ctx context.Context, id string, changes map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
