package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// ErrInvalidOrExpiredToken covers every reset token failure mode: bad
// signature, malformed structure, missing claims, or age beyond the TTL.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

// ResetTokenService issues and verifies password reset tokens.
//
// A token is a PASETO v4.local payload carrying only the identity email and
// the issue timestamp. The validity window is not embedded in the token;
// Verify compares token age against the service TTL, so the same signing
// scheme works for any configured TTL. The service is stateless - single-use
// enforcement is the auth workflow's job via the marker on the user record.
type ResetTokenService struct {
	symmetricKey paseto.V4SymmetricKey
	ttl          time.Duration

	now func() time.Time // overridable in tests
}

func NewResetTokenService(symmetricKey []byte, ttl time.Duration) (*ResetTokenService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("reset token TTL must be positive, got %s", ttl)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &ResetTokenService{
		symmetricKey: key,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// Issue creates a signed reset token bound to the given email
func (s *ResetTokenService) Issue(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("email must not be empty")
	}

	token := paseto.NewToken()
	token.SetIssuedAt(s.now())
	token.SetString("email", email)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify checks the token signature and age and returns the bound email.
// Any failure yields ErrInvalidOrExpiredToken; Verify never panics on bad input.
func (s *ResetTokenService) Verify(tokenStr string) (string, error) {
	// No exp claim in reset tokens, so skip the parser's expiry rule and
	// enforce the window against the issue timestamp instead.
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}

	age := s.now().Sub(issuedAt)
	if age < 0 || age > s.ttl {
		return "", ErrInvalidOrExpiredToken
	}

	email, err := token.GetString("email")
	if err != nil || email == "" {
		return "", ErrInvalidOrExpiredToken
	}

	return email, nil
}
