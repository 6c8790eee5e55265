package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserModel represents the database model for User
type UserModel struct {
	ID           string         `gorm:"type:varchar(64);primaryKey"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone        string         `gorm:"type:varchar(20);not null"`
	Gender       string         `gorm:"type:varchar(20);not null"`
	PasswordHash string         `gorm:"column:password;type:varchar(255);not null"`
	TotalRides   int            `gorm:"type:integer;not null;default:0"`
	Profile      datatypes.JSON `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
