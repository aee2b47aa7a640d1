package reservation

import (
	"context"
	"encoding/json"
	"time"

	"reserva/models"
	"reserva/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisViewCache implements ViewCache on Redis. Entries are short-lived and
// invalidated on every commit touching the day, so a cache outage degrades
// to direct store reads rather than wrong answers.
type RedisViewCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

// NewRedisViewCache wires a view cache over the given Redis client.
func NewRedisViewCache(client *redis.Client, logger *zap.Logger) *RedisViewCache {
	return &RedisViewCache{Client: client, TTL: 5 * time.Minute, Logger: logger}
}

func (c *RedisViewCache) GetDay(ctx context.Context, tenantID, professionalID, date string) ([]models.Reservation, bool) {
	data, err := c.Client.Get(ctx, utils.AvailabilityCacheKey(tenantID, professionalID, date)).Result()
	if err != nil {
		return nil, false
	}
	var rows []models.Reservation
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *RedisViewCache) SetDay(ctx context.Context, tenantID, professionalID, date string, rows []models.Reservation) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, utils.AvailabilityCacheKey(tenantID, professionalID, date), data, c.TTL).Err(); err != nil {
		c.Logger.Warn("failed to cache day view",
			zap.String("professional_id", professionalID), zap.Error(err))
	}
}

func (c *RedisViewCache) GetUpcoming(ctx context.Context, tenantID string) ([]models.Reservation, bool) {
	data, err := c.Client.Get(ctx, utils.UpcomingCacheKey(tenantID)).Result()
	if err != nil {
		return nil, false
	}
	var rows []models.Reservation
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *RedisViewCache) SetUpcoming(ctx context.Context, tenantID string, rows []models.Reservation) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, utils.UpcomingCacheKey(tenantID), data, c.TTL).Err(); err != nil {
		c.Logger.Warn("failed to cache upcoming view",
			zap.String("tenant_id", tenantID), zap.Error(err))
	}
}

// Invalidate drops the availability view for the day and the tenant's
// upcoming-bookings view.
func (c *RedisViewCache) Invalidate(ctx context.Context, tenantID, professionalID string, day time.Time) {
	date := day.UTC().Format("2006-01-02")
	keys := []string{
		utils.AvailabilityCacheKey(tenantID, professionalID, date),
		utils.UpcomingCacheKey(tenantID),
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		c.Logger.Warn("failed to invalidate read views",
			zap.String("professional_id", professionalID), zap.Error(err))
	}
}
