// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"reserva/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the Redis client backing the availability and upcoming
// bookings read views.
var CacheClient *redis.Client

// InitCache initializes the Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// AvailabilityCacheKey is the key for a professional's cached day view.
func AvailabilityCacheKey(tenantID, professionalID, date string) string {
	return fmt.Sprintf("availability:%s:%s:%s", tenantID, professionalID, date)
}

// UpcomingCacheKey is the key for a tenant's cached upcoming bookings view.
func UpcomingCacheKey(tenantID string) string {
	return fmt.Sprintf("upcoming:%s", tenantID)
}
