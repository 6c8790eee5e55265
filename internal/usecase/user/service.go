package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "hopon-backend/internal/domain/user"
	"hopon-backend/internal/logger"
	"hopon-backend/internal/usecase/session"
	appErrors "hopon-backend/pkg/errors"
	"hopon-backend/pkg/utils"

	"go.uber.org/zap"
)

type TokenIssuer interface {
	IssueToken(identity session.Identity) (string, time.Time, error)
}

// Service implements account use cases
type Service struct {
	userRepo domainUser.Repository
	tokens   TokenIssuer
	now      func() time.Time
}

// NewService creates a new user service
func NewService(userRepo domainUser.Repository, tokens TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.Validation(err)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", req.Email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, appErrors.ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domainUser.User{
		ID:           utils.NewUserID(now),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Gender:       req.Gender,
		PasswordHash: hashedPassword,
		TotalRides:   0,
		Profile:      domainUser.DefaultProfile(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index still guards a concurrent registration of the same email.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(user), nil
}

// Login reports the same error for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueToken(session.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{
		User:      ToUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (s *Service) CheckEmailAvailability(ctx context.Context, email string) (bool, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		return false, err
	}
	return !exists, nil
}
