package auth

import (
	"errors"
	"testing"
	"time"
)

var testSecretKey = []byte("0123456789abcdef0123456789abcdef")

func newTestResetTokenService(t *testing.T, ttl time.Duration) *ResetTokenService {
	t.Helper()

	svc, err := NewResetTokenService(testSecretKey, ttl)
	if err != nil {
		t.Fatalf("NewResetTokenService error: %v", err)
	}
	return svc
}

func TestResetToken_IssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := newTestResetTokenService(t, 30*time.Minute)

	token, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	email, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if email != "a@x.com" {
		t.Fatalf("email mismatch: got %q want %q", email, "a@x.com")
	}
}

func TestResetToken_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	svc := newTestResetTokenService(t, 30*time.Minute)

	issuedAt := time.Now()
	token, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Just inside the window
	svc.now = func() time.Time { return issuedAt.Add(29 * time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token rejected before TTL elapsed: %v", err)
	}

	// Just past the window
	svc.now = func() time.Time { return issuedAt.Add(31 * time.Minute) }
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken after TTL, got %v", err)
	}
}

func TestResetToken_TTLCheckedAtVerifyTime(t *testing.T) {
	t.Parallel()

	// The same token is valid under a longer-TTL service: the window is a
	// property of the verifier, not of the token payload.
	short := newTestResetTokenService(t, time.Minute)
	long := newTestResetTokenService(t, time.Hour)

	issuedAt := time.Now()
	token, err := short.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	short.now = func() time.Time { return issuedAt.Add(10 * time.Minute) }
	long.now = short.now

	if _, err := short.Verify(token); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("short-TTL service should reject, got %v", err)
	}
	if _, err := long.Verify(token); err != nil {
		t.Fatalf("long-TTL service should accept, got %v", err)
	}
}

func TestResetToken_TamperedTokenRejected(t *testing.T) {
	t.Parallel()

	svc := newTestResetTokenService(t, 30*time.Minute)

	token, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one byte in the ciphertext portion
	raw := []byte(token)
	i := len(raw) / 2
	if raw[i] == 'A' {
		raw[i] = 'B'
	} else {
		raw[i] = 'A'
	}

	if _, err := svc.Verify(string(raw)); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken for tampered token, got %v", err)
	}
}

func TestResetToken_WrongKeyRejected(t *testing.T) {
	t.Parallel()

	svc := newTestResetTokenService(t, 30*time.Minute)

	other, err := NewResetTokenService([]byte("ffffffffffffffffffffffffffffffff"), 30*time.Minute)
	if err != nil {
		t.Fatalf("NewResetTokenService error: %v", err)
	}

	token, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken under a different key, got %v", err)
	}
}

func TestResetToken_MalformedInput(t *testing.T) {
	t.Parallel()

	svc := newTestResetTokenService(t, 30*time.Minute)

	for _, input := range []string{"", "garbage", "v4.local.", "v4.local.notatoken"} {
		if _, err := svc.Verify(input); !errors.Is(err, ErrInvalidOrExpiredToken) {
			t.Errorf("Verify(%q): expected ErrInvalidOrExpiredToken, got %v", input, err)
		}
	}
}

func TestNewResetTokenService_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewResetTokenService([]byte("too-short"), time.Minute); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := NewResetTokenService(testSecretKey, 0); err == nil {
		t.Fatal("expected error for zero TTL")
	}
	if _, err := NewResetTokenService(testSecretKey, -time.Minute); err == nil {
		t.Fatal("expected error for negative TTL")
	}
}

func TestResetToken_EmptyEmailRejected(t *testing.T) {
	t.Parallel()

	svc := newTestResetTokenService(t, 30*time.Minute)

	if _, err := svc.Issue(""); err == nil {
		t.Fatal("expected error issuing token for empty email")
	}
}
