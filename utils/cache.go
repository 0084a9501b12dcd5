// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"staybridge/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient holds booking progress snapshots.
var SessionCacheClient *redis.Client

// InitSessionCache initializes the Redis client for booking sessions (using REDIS_SESSION_DB).
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Session Cache): %v", err)
	}
}

// GetSessionCacheClient returns the Redis client for booking sessions.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}
