package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/contactdesk/contactdesk/internal/logging"
	"github.com/contactdesk/contactdesk/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrEmailDelivery      = errors.New("could not send reset email")
)

// Service handles authentication business logic
type Service struct {
	userRepo        UserRepository
	sessions        SessionStore
	tokenService    TokenService
	resetTokens     *ResetTokenService
	emailService    EmailService
	logger          *logging.Logger
	sessionDuration time.Duration
}

func NewService(
	userRepo UserRepository,
	sessions SessionStore,
	tokenService TokenService,
	resetTokens *ResetTokenService,
	emailService EmailService,
	logger *logging.Logger,
	sessionDuration time.Duration,
) *Service {
	return &Service{
		userRepo:        userRepo,
		sessions:        sessions,
		tokenService:    tokenService,
		resetTokens:     resetTokens,
		emailService:    emailService,
		logger:          logger,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, email, password string) (*user.User, error) {
	// Validate input
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	// Hash password using argon2id
	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create user in database; the store's unique constraint decides duplicates
	newUser, err := s.userRepo.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Login authenticates a user and establishes a session.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !verifyPassword(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(ctx, existingUser)
}

// Logout destroys the session behind a token. Invalid or already-expired
// tokens are a no-op, never an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.tokenService.VerifyToken(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Revoke(ctx, claims.SessionID); err != nil {
		s.logger.Warn("failed to revoke session on logout", "error", err)
	}

	return nil
}

// RequestPasswordReset issues a reset token, records it as the user's pending
// marker, and emails a reset link. An unknown email surfaces user.ErrNotFound.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.resetTokens.Issue(existingUser.Email)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	// Persist the marker before sending. A send failure leaves an orphaned
	// marker, which is harmless: it is superseded by the next request and
	// unusable once the token ages out.
	if err := s.userRepo.SetResetToken(ctx, existingUser.ID, token); err != nil {
		return fmt.Errorf("failed to store reset marker: %w", err)
	}

	if err := s.emailService.SendPasswordResetEmail(ctx, existingUser.Email, token); err != nil {
		s.logger.Warn("failed to send password reset email", "email", existingUser.Email, "error", err)
		return ErrEmailDelivery
	}

	return nil
}

// ResetPassword applies a new password for the identity bound to a reset token.
//
// The token must carry a valid signature and be within the TTL, and it must
// equal the marker stored on the user record. The marker check makes tokens
// single-use: consuming one clears the marker, and issuing a new token
// overwrites any older one.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	email, err := s.resetTokens.Verify(token)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser.ResetToken == nil ||
		subtle.ConstantTimeCompare([]byte(*existingUser.ResetToken), []byte(token)) != 1 {
		return ErrInvalidOrExpiredToken
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, existingUser.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.userRepo.ClearResetToken(ctx, existingUser.ID); err != nil {
		s.logger.Warn("failed to clear reset marker", "error", err)
	}

	// Force re-login everywhere after a password change
	if err := s.sessions.RevokeAllForUser(ctx, existingUser.ID); err != nil {
		s.logger.Warn("failed to revoke sessions after password reset", "error", err)
	}

	return nil
}

// establishSession registers a new session and mints its token
func (s *Service) establishSession(ctx context.Context, u *user.User) (*AuthSession, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	if err := s.sessions.Create(ctx, u.ID, sessionID, s.sessionDuration); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.tokenService.CreateToken(u.ID, u.Email, sessionID, s.sessionDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}

	return &AuthSession{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.sessionDuration.Seconds()),
	}, nil
}
