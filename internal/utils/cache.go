package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Key prefix for revoked session tokens
const revokedTokenPrefix = "revoked:token:"

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// RevokeToken records a session token as revoked until its natural expiry.
// Used by /logout so a presented bearer token stops working immediately.
func RevokeToken(ctx context.Context, rdb *redis.Client, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Already expired, nothing to revoke
	}
	return rdb.Set(ctx, revokedTokenPrefix+token, "1", ttl).Err() // Mark token revoked with TTL
}

// IsTokenRevoked reports whether a session token has been revoked.
// A Redis error is surfaced so callers can decide to fail open or closed.
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, token string) (bool, error) {
	_, err := rdb.Get(ctx, revokedTokenPrefix+token).Result() // Look up revocation marker
	if err == redis.Nil {
		return false, nil // Not revoked
	} else if err != nil {
		return false, err // Redis error
	}
	return true, nil // Marker present, token revoked
}
