package models

import "time"

// BikeModel represents the database model for a fleet bike
type BikeModel struct {
	ID              string     `gorm:"type:varchar(20);primaryKey"`
	Number          int        `gorm:"type:integer;not null;uniqueIndex"`
	Location        string     `gorm:"type:varchar(50);not null;index:idx_bikes_location_available,priority:1"`
	IsAvailable     bool       `gorm:"not null;index:idx_bikes_location_available,priority:2"`
	Condition       string     `gorm:"type:varchar(20);not null"`
	LastMaintenance time.Time  `gorm:"not null"`
	BatteryLevel    int        `gorm:"type:integer;not null"`
	TotalRides      int        `gorm:"type:integer;not null;default:0"`
	Rating          float64    `gorm:"type:decimal(2,1);not null"`
	CurrentUserID   *string    `gorm:"column:current_user_id;type:varchar(64)"`
	BookedAt        *time.Time `gorm:"type:timestamp"`
	ReturnedAt      *time.Time `gorm:"type:timestamp"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

func (BikeModel) TableName() string {
	return "bikes"
}
