package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

var client *redis.Client

// Init initializes the Redis connection.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", logger.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection.
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// BlacklistToken revokes a JWT until its natural expiry.
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	return client.Set(ctx, key, "revoked", expiry).Err()
}

// IsTokenBlacklisted checks whether a JWT has been revoked.
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	val, err := client.Get(ctx, fmt.Sprintf("blacklist:%s", token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "revoked", nil
}

// TouchCartActivity stamps the user's cart as active. The key expires after
// the configured idle window; an expired key is what the abandoned-cart
// sweep looks for.
func TouchCartActivity(ctx context.Context, userID uint, idleWindow time.Duration) error {
	key := fmt.Sprintf("cart:active:%d", userID)
	return client.Set(ctx, key, time.Now().Unix(), idleWindow).Err()
}

// IsCartActive reports whether the user's cart saw activity inside the idle
// window.
func IsCartActive(ctx context.Context, userID uint) (bool, error) {
	n, err := client.Exists(ctx, fmt.Sprintf("cart:active:%d", userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ClearCartActivity removes cart tracking state, used after checkout so a
// converted cart is never flagged as abandoned.
func ClearCartActivity(ctx context.Context, userID uint) error {
	return client.Del(ctx, fmt.Sprintf("cart:active:%d", userID)).Err()
}
