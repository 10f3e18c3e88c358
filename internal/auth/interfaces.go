package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/contactdesk/contactdesk/internal/user"
)

// TokenService defines the interface for session token creation and validation
type TokenService interface {
	CreateToken(userID uuid.UUID, email, sessionID string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserRepository defines the credential store operations the auth workflow consumes
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	SetResetToken(ctx context.Context, userID uuid.UUID, token string) error
	ClearResetToken(ctx context.Context, userID uuid.UUID) error
}

// SessionStore defines the interface for the revocable session registry
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID, sessionID string, ttl time.Duration) error
	Active(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}
