package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

type User struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	Email          string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string `gorm:"size:255;not null" json:"-"`
	Phone          string `gorm:"size:20" json:"phone"`
	Role           string `gorm:"size:20;default:'patient';index" json:"role"`
	Specialization string `gorm:"size:100" json:"specialization,omitempty"`
	Active         bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
