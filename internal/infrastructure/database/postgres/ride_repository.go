package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hopon-backend/internal/domain/bike"
	"hopon-backend/internal/domain/ride"
	"hopon-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const popularRouteLimit = 5

type RideRepository struct {
	db *DB
}

func NewRideRepository(db *DB) *RideRepository {
	return &RideRepository{db: db}
}

func (r *RideRepository) Create(ctx context.Context, rd *ride.Ride) error {
	if rd.Status == "" {
		rd.Status = ride.StatusActive
	}

	dbModel := toRideModel(rd)
	if err := r.db.conn(ctx).Omit(clause.Associations).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ride.ErrActiveRideExists
		}
		return fmt.Errorf("failed to create ride: %w", err)
	}

	return nil
}

func (r *RideRepository) GetByID(ctx context.Context, rideID string) (*ride.Ride, error) {
	var dbModel models.RideModel
	err := r.db.conn(ctx).Where("id = ?", rideID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ride.ErrRideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	return toRideEntity(&dbModel), nil
}

func (r *RideRepository) GetActiveByUser(ctx context.Context, userID string) (*ride.Ride, error) {
	var dbModel models.RideModel
	err := r.db.conn(ctx).
		Where("user_id = ? AND status = ?", userID, string(ride.StatusActive)).
		Order("start_time DESC").
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ride.ErrRideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active ride: %w", err)
	}

	return toRideEntity(&dbModel), nil
}

func (r *RideRepository) List(ctx context.Context, filter ride.Filter) ([]*ride.Ride, error) {
	db := r.db.conn(ctx).Model(&models.RideModel{})

	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}

	var dbModels []models.RideModel
	if err := db.Order("start_time DESC").Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}

	rides := make([]*ride.Ride, 0, len(dbModels))
	for i := range dbModels {
		rides = append(rides, toRideEntity(&dbModels[i]))
	}
	return rides, nil
}

func (r *RideRepository) Complete(ctx context.Context, rideID string, params ride.CompleteParams) error {
	result := r.db.conn(ctx).
		Model(&models.RideModel{}).
		Where("id = ? AND status = ?", rideID, string(ride.StatusActive)).
		Updates(map[string]interface{}{
			"status":          string(ride.StatusCompleted),
			"end_location":    string(params.EndLocation),
			"end_time":        params.EndTime,
			"actual_duration": params.ActualDuration,
			"rating":          params.Rating,
			"feedback":        params.Feedback,
			"updated_at":      params.EndTime,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete ride: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrFinished(ctx, rideID)
	}

	return nil
}

func (r *RideRepository) Cancel(ctx context.Context, rideID string, endTime time.Time) error {
	result := r.db.conn(ctx).
		Model(&models.RideModel{}).
		Where("id = ? AND status = ?", rideID, string(ride.StatusActive)).
		Updates(map[string]interface{}{
			"status":     string(ride.StatusCancelled),
			"end_time":   endTime,
			"updated_at": endTime,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to cancel ride: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrFinished(ctx, rideID)
	}

	return nil
}

func (r *RideRepository) Stats(ctx context.Context) (*ride.Statistics, error) {
	var counts struct {
		Total     int
		Active    int
		Completed int
	}

	err := r.db.conn(ctx).
		Model(&models.RideModel{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed",
			string(ride.StatusActive), string(ride.StatusCompleted),
		).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count rides: %w", err)
	}

	var routes []struct {
		StartLocation string
		EndLocation   string
		RouteCount    int
	}

	err = r.db.conn(ctx).
		Model(&models.RideModel{}).
		Select("start_location, end_location, COUNT(*) AS route_count").
		Where("status = ?", string(ride.StatusCompleted)).
		Group("start_location, end_location").
		Order("route_count DESC").
		Order("start_location ASC").
		Order("end_location ASC").
		Limit(popularRouteLimit).
		Scan(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute popular routes: %w", err)
	}

	stats := &ride.Statistics{
		TotalRides:     counts.Total,
		ActiveRides:    counts.Active,
		CompletedRides: counts.Completed,
		PopularRoutes:  make([]ride.RouteStats, 0, len(routes)),
	}
	for _, route := range routes {
		stats.PopularRoutes = append(stats.PopularRoutes, ride.RouteStats{
			StartLocation: bike.Location(route.StartLocation),
			EndLocation:   bike.Location(route.EndLocation),
			Count:         route.RouteCount,
		})
	}

	return stats, nil
}

func (r *RideRepository) missingOrFinished(ctx context.Context, rideID string) error {
	var count int64
	if err := r.db.conn(ctx).Model(&models.RideModel{}).Where("id = ?", rideID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check ride: %w", err)
	}
	if count == 0 {
		return ride.ErrRideNotFound
	}
	return ride.ErrRideNotActive
}

func toRideModel(rd *ride.Ride) *models.RideModel {
	return &models.RideModel{
		ID:             rd.ID,
		UserID:         rd.UserID,
		BikeID:         rd.BikeID,
		StartLocation:  string(rd.StartLocation),
		EndLocation:    string(rd.EndLocation),
		StartTime:      rd.StartTime,
		EndTime:        rd.EndTime,
		Status:         string(rd.Status),
		TimerDuration:  rd.TimerDuration,
		ActualDuration: rd.ActualDuration,
		Rating:         rd.Rating,
		Feedback:       rd.Feedback,
		Cost:           rd.Cost,
		CreatedAt:      rd.CreatedAt,
		UpdatedAt:      rd.UpdatedAt,
	}
}

func toRideEntity(m *models.RideModel) *ride.Ride {
	return &ride.Ride{
		ID:             m.ID,
		UserID:         m.UserID,
		BikeID:         m.BikeID,
		StartLocation:  bike.Location(m.StartLocation),
		EndLocation:    bike.Location(m.EndLocation),
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Status:         ride.Status(m.Status),
		TimerDuration:  m.TimerDuration,
		ActualDuration: m.ActualDuration,
		Rating:         m.Rating,
		Feedback:       m.Feedback,
		Cost:           m.Cost,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
