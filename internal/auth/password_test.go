package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := hashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}
	if strings.Contains(hash, "correct horse") {
		t.Fatal("hash contains the plaintext password")
	}

	if !verifyPassword(hash, "correct horse battery staple") {
		t.Fatal("verifyPassword returned false for the right password")
	}
	if verifyPassword(hash, "wrong password") {
		t.Fatal("verifyPassword returned true for the wrong password")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := hashPassword("samepassword")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}
	h2, err := hashPassword("samepassword")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical, salt is not random")
	}
	if !verifyPassword(h1, "samepassword") || !verifyPassword(h2, "samepassword") {
		t.Fatal("both hashes should verify against the original password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	malformed := []string{
		"",
		"plaintext",
		"$argon2id$",
		"$argon2id$v=19$m=65536,t=3,p=4$notbase64!!$alsobad!!",
		"$argon2id$v=bad$m=65536,t=3,p=4$c29tZXNhbHQ$aGFzaA",
		"$argon2id$v=19$m=x,t=y,p=z$c29tZXNhbHQ$aGFzaA",
	}

	for _, hash := range malformed {
		if verifyPassword(hash, "anything") {
			t.Errorf("verifyPassword accepted malformed hash %q", hash)
		}
	}
}
