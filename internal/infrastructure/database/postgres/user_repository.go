package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hopon-backend/internal/domain/user"
	"hopon-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	dbModel, err := toUserModel(u)
	if err != nil {
		return err
	}

	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.conn(ctx).Where("id = ?", userID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.conn(ctx).Where("email = ?", email).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toUserEntity(&dbModel)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.conn(ctx).Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) IncrementTotalRides(ctx context.Context, userID string) error {
	result := r.db.conn(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_rides": gorm.Expr("total_rides + ?", 1),
			"updated_at":  time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to increment user rides: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func toUserModel(u *user.User) (*models.UserModel, error) {
	profile, err := json.Marshal(u.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	return &models.UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Gender:       u.Gender,
		PasswordHash: u.PasswordHash,
		TotalRides:   u.TotalRides,
		Profile:      datatypes.JSON(profile),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

func toUserEntity(m *models.UserModel) (*user.User, error) {
	profile := user.DefaultProfile()
	if len(m.Profile) > 0 {
		if err := json.Unmarshal(m.Profile, &profile); err != nil {
			return nil, fmt.Errorf("failed to decode profile for user %s: %w", m.ID, err)
		}
	}

	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Gender:       m.Gender,
		PasswordHash: m.PasswordHash,
		TotalRides:   m.TotalRides,
		Profile:      profile,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
