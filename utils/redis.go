package utils

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newwestevents/events-backend/config"
)

var (
	redisClient *redis.Client
	redisCtx    = context.Background()
)

// InitRedis connects the shared client used for password-reset tokens.
// Redis is optional: when unconfigured, token operations fail with a clear
// error and the reset flow is disabled.
func InitRedis(cfg *config.Config) error {
	if cfg.RedisAddr == "" {
		Log.Warn("redis not configured, password reset tokens disabled")
		return nil
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(redisCtx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient = nil
		return err
	}
	return nil
}

var ErrRedisUnavailable = errors.New("redis not configured")

func SetToken(key, value string, ttl time.Duration) error {
	if redisClient == nil {
		return ErrRedisUnavailable
	}
	return redisClient.Set(redisCtx, key, value, ttl).Err()
}

func GetToken(key string) (string, error) {
	if redisClient == nil {
		return "", ErrRedisUnavailable
	}
	return redisClient.Get(redisCtx, key).Result()
}

func DeleteToken(key string) error {
	if redisClient == nil {
		return ErrRedisUnavailable
	}
	return redisClient.Del(redisCtx, key).Err()
}
