package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore tracks active sessions in Redis. Session IDs are hashed
// before use as keys; expiry is handled by Redis TTLs, revocation by deleting
// the session entry. Per-user sets allow revoking every session at once when
// a password is reset.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// sessionKey generates the Redis key for a session
func sessionKey(sessionHash string) string {
	return fmt.Sprintf("session:%s", sessionHash)
}

// userSessionsKey generates the Redis key for a user's session set
func userSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_sessions:%s", userID.String())
}

// hashToken returns the hex-encoded SHA-256 of a token, so raw session IDs
// and reset tokens never appear in Redis keys
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Create registers a new session with the given TTL
func (s *RedisSessionStore) Create(ctx context.Context, userID uuid.UUID, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	sessionHash := hashToken(sessionID)
	key := sessionKey(sessionHash)
	userKey := userSessionsKey(userID)

	pipe := s.client.Pipeline()

	pipe.HSet(ctx, key, map[string]interface{}{
		"user_id":    userID.String(),
		"created_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, ttl)

	// Track session under the user so a password reset can revoke them all
	pipe.SAdd(ctx, userKey, sessionHash)
	pipe.Expire(ctx, userKey, ttl)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Active reports whether a session is still registered. A session that was
// never created, expired, or was revoked all look the same: not active.
func (s *RedisSessionStore) Active(ctx context.Context, sessionID string) (bool, error) {
	key := sessionKey(hashToken(sessionID))

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}

	return exists > 0, nil
}

// Revoke removes a single session
func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	sessionHash := hashToken(sessionID)
	key := sessionKey(sessionHash)

	// Drop the session from its user's set as well, if we can resolve the owner
	userIDStr, err := s.client.HGet(ctx, key, "user_id").Result()
	if err == nil {
		if userID, parseErr := uuid.Parse(userIDStr); parseErr == nil {
			_ = s.client.SRem(ctx, userSessionsKey(userID), sessionHash).Err()
		}
	} else if err != redis.Nil {
		return fmt.Errorf("failed to look up session owner: %w", err)
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// RevokeAllForUser removes every session belonging to a user
func (s *RedisSessionStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	userKey := userSessionsKey(userID)

	sessionHashes, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get user sessions: %w", err)
	}

	if len(sessionHashes) == 0 {
		return nil // No sessions to revoke
	}

	pipe := s.client.Pipeline()
	for _, sessionHash := range sessionHashes {
		pipe.Del(ctx, sessionKey(sessionHash))
	}
	pipe.Del(ctx, userKey)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}

	return nil
}
