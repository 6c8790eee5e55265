package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hopon-backend/internal/domain/bike"
	"hopon-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

type BikeRepository struct {
	db *DB
}

func NewBikeRepository(db *DB) *BikeRepository {
	return &BikeRepository{db: db}
}

func (r *BikeRepository) CreateBatch(ctx context.Context, bikes []*bike.Bike) error {
	if len(bikes) == 0 {
		return nil
	}

	dbModels := make([]*models.BikeModel, 0, len(bikes))
	for _, b := range bikes {
		dbModels = append(dbModels, toBikeModel(b))
	}

	if err := r.db.conn(ctx).CreateInBatches(dbModels, 100).Error; err != nil {
		return fmt.Errorf("failed to create bikes: %w", err)
	}
	return nil
}

func (r *BikeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.conn(ctx).Model(&models.BikeModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bikes: %w", err)
	}
	return count, nil
}

func (r *BikeRepository) GetByID(ctx context.Context, bikeID string) (*bike.Bike, error) {
	var dbModel models.BikeModel
	err := r.db.conn(ctx).Where("id = ?", bikeID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bike.ErrBikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bike: %w", err)
	}

	return toBikeEntity(&dbModel), nil
}

func (r *BikeRepository) List(ctx context.Context) ([]*bike.Bike, error) {
	var dbModels []models.BikeModel
	if err := r.db.conn(ctx).Order("number ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list bikes: %w", err)
	}
	return toBikeEntities(dbModels), nil
}

func (r *BikeRepository) ListAvailableAt(ctx context.Context, location bike.Location) ([]*bike.Bike, error) {
	var dbModels []models.BikeModel
	err := r.db.conn(ctx).
		Where("location = ? AND is_available = ?", string(location), true).
		Order("number ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bikes at %s: %w", location, err)
	}
	return toBikeEntities(dbModels), nil
}

func (r *BikeRepository) Book(ctx context.Context, bikeID, userID string, bookedAt time.Time) error {
	result := r.db.conn(ctx).
		Model(&models.BikeModel{}).
		Where("id = ? AND is_available = ?", bikeID, true).
		Updates(map[string]interface{}{
			"is_available":    false,
			"current_user_id": userID,
			"booked_at":       bookedAt,
			"updated_at":      bookedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to book bike: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrTaken(ctx, bikeID)
	}

	return nil
}

func (r *BikeRepository) Return(ctx context.Context, bikeID string, params bike.ReturnParams) error {
	updates := map[string]interface{}{
		"is_available":    true,
		"location":        string(params.Location),
		"current_user_id": nil,
		"booked_at":       nil,
		"returned_at":     params.ReturnedAt,
		"total_rides":     gorm.Expr("total_rides + ?", 1),
		"updated_at":      params.ReturnedAt,
	}
	if params.Condition != nil {
		updates["condition"] = string(*params.Condition)
	}

	result := r.db.conn(ctx).
		Model(&models.BikeModel{}).
		Where("id = ?", bikeID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to return bike: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bike.ErrBikeNotFound
	}

	return nil
}

func (r *BikeRepository) Reassign(ctx context.Context, bikeID, userID string, at time.Time) error {
	result := r.db.conn(ctx).
		Model(&models.BikeModel{}).
		Where("id = ?", bikeID).
		Updates(map[string]interface{}{
			"is_available":    false,
			"current_user_id": userID,
			"booked_at":       at,
			"updated_at":      at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to reassign bike: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bike.ErrBikeNotFound
	}

	return nil
}

func (r *BikeRepository) Release(ctx context.Context, bikeID string, at time.Time) error {
	result := r.db.conn(ctx).
		Model(&models.BikeModel{}).
		Where("id = ?", bikeID).
		Updates(map[string]interface{}{
			"is_available":    true,
			"current_user_id": nil,
			"booked_at":       nil,
			"updated_at":      at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to release bike: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bike.ErrBikeNotFound
	}

	return nil
}

func (r *BikeRepository) Stats(ctx context.Context) (*bike.Statistics, error) {
	var rows []struct {
		Location  string
		Count     int
		Available int
	}

	err := r.db.conn(ctx).
		Model(&models.BikeModel{}).
		Select("location, COUNT(*) AS count, SUM(CASE WHEN is_available THEN 1 ELSE 0 END) AS available").
		Group("location").
		Order("location ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute bike stats: %w", err)
	}

	stats := &bike.Statistics{BikesByLocation: make([]bike.LocationStats, 0, len(rows))}
	for _, row := range rows {
		stats.TotalBikes += row.Count
		stats.AvailableBikes += row.Available
		stats.BikesByLocation = append(stats.BikesByLocation, bike.LocationStats{
			Location:  bike.Location(row.Location),
			Count:     row.Count,
			Available: row.Available,
		})
	}
	stats.BusyBikes = stats.TotalBikes - stats.AvailableBikes

	return stats, nil
}

func (r *BikeRepository) missingOrTaken(ctx context.Context, bikeID string) error {
	var count int64
	if err := r.db.conn(ctx).Model(&models.BikeModel{}).Where("id = ?", bikeID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check bike: %w", err)
	}
	if count == 0 {
		return bike.ErrBikeNotFound
	}
	return bike.ErrBikeUnavailable
}

func toBikeModel(b *bike.Bike) *models.BikeModel {
	return &models.BikeModel{
		ID:              b.ID,
		Number:          b.Number,
		Location:        string(b.Location),
		IsAvailable:     b.IsAvailable,
		Condition:       string(b.Condition),
		LastMaintenance: b.LastMaintenance,
		BatteryLevel:    b.BatteryLevel,
		TotalRides:      b.TotalRides,
		Rating:          b.Rating,
		CurrentUserID:   b.CurrentUser,
		BookedAt:        b.BookedAt,
		ReturnedAt:      b.ReturnedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBikeEntity(m *models.BikeModel) *bike.Bike {
	return &bike.Bike{
		ID:              m.ID,
		Number:          m.Number,
		Location:        bike.Location(m.Location),
		IsAvailable:     m.IsAvailable,
		Condition:       bike.Condition(m.Condition),
		LastMaintenance: m.LastMaintenance,
		BatteryLevel:    m.BatteryLevel,
		TotalRides:      m.TotalRides,
		Rating:          m.Rating,
		CurrentUser:     m.CurrentUserID,
		BookedAt:        m.BookedAt,
		ReturnedAt:      m.ReturnedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBikeEntities(dbModels []models.BikeModel) []*bike.Bike {
	bikes := make([]*bike.Bike, 0, len(dbModels))
	for i := range dbModels {
		bikes = append(bikes, toBikeEntity(&dbModels[i]))
	}
	return bikes
}
