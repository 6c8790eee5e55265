package models

import "time"

// RideModel represents the database model for a ride
type RideModel struct {
	ID             string     `gorm:"type:varchar(64);primaryKey"`
	UserID         string     `gorm:"type:varchar(64);not null;index:idx_rides_user_status,priority:1;uniqueIndex:idx_rides_one_active_per_user,where:status = 'active'"`
	BikeID         string     `gorm:"type:varchar(20);not null;index"`
	StartLocation  string     `gorm:"type:varchar(50);not null"`
	EndLocation    string     `gorm:"type:varchar(50);not null"`
	StartTime      time.Time  `gorm:"not null;index"`
	EndTime        *time.Time `gorm:"type:timestamp"`
	Status         string     `gorm:"type:varchar(20);not null;index:idx_rides_user_status,priority:2"`
	TimerDuration  int        `gorm:"type:integer;not null"`
	ActualDuration *int       `gorm:"type:integer"`
	Rating         *int       `gorm:"type:integer;check:chk_rides_rating,rating IS NULL OR (rating >= 1 AND rating <= 5)"`
	Feedback       *string    `gorm:"type:text"`
	Cost           float64    `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`

	User UserModel `gorm:"foreignKey:UserID;references:ID"`
	Bike BikeModel `gorm:"foreignKey:BikeID;references:ID"`
}

func (RideModel) TableName() string {
	return "rides"
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{&UserModel{}, &BikeModel{}, &RideModel{}}
}
