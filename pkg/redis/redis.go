package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection. An empty address leaves Redis disabled.
func Init(cfg *config.RedisConfig) error {
	if cfg.Addr == "" {
		logger.Info("Redis address not configured, session revocation disabled")
		return nil
	}

	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr,
		})
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance, or nil when disabled.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// SessionBlacklist remembers revoked session IDs until their tokens expire.
type SessionBlacklist struct {
	client *redis.Client
}

func NewSessionBlacklist(c *redis.Client) *SessionBlacklist {
	return &SessionBlacklist{client: c}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:revoked:%s", sessionID)
}

// Revoke marks sessionID as logged out for ttl.
func (b *SessionBlacklist) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	logger.Debug("Adding session to blacklist", map[string]interface{}{
		"expiry": ttl.String(),
	})

	if err := b.client.Set(ctx, sessionKey(sessionID), "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist session", err)
		return err
	}
	return nil
}

// IsRevoked checks whether sessionID was logged out.
func (b *SessionBlacklist) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	val, err := b.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check session blacklist", err)
		return false, err
	}
	return val == "revoked", nil
}
