package session

import (
	"time"

	"hopon-backend/internal/config"
	"hopon-backend/pkg/utils"
)

// Identity is what a verified bearer token asserts about the caller.
type Identity struct {
	UserID string
	Email  string
}

// Manager issues and verifies HS256 bearer tokens.
type Manager struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(cfg config.JWTConfig, opts ...Option) *Manager {
	m := &Manager{
		secret: cfg.Secret,
		ttl:    cfg.ExpiresIn,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) IssueToken(identity Identity) (string, time.Time, error) {
	return utils.GenerateToken(identity.UserID, identity.Email, m.secret, m.ttl, m.now())
}

// VerifyToken returns ErrInvalidToken or ErrTokenExpired from pkg/errors on failure.
func (m *Manager) VerifyToken(token string) (*Identity, error) {
	claims, err := utils.ValidateToken(token, m.secret, m.now)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
