// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"junkbutler/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient backs estimate dialogues and completed estimate handoffs.
var SessionCacheClient *redis.Client

// InitSessionCache connects the estimate session client (REDIS_SESSION_DB).
func InitSessionCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("connect to redis (sessions) at %s: %w", config.AppConfig.RedisAddr, err)
	}
	SessionCacheClient = client
	return nil
}

// GetSessionCacheClient returns the session client, connecting on first use.
func GetSessionCacheClient() (*redis.Client, error) {
	if SessionCacheClient == nil {
		if err := InitSessionCache(); err != nil {
			return nil, err
		}
	}
	return SessionCacheClient, nil
}
