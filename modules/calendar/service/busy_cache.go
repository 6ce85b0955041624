package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realite-api/core/constants"
	"realite-api/core/logger"
	"realite-api/modules/calendar/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BusyCache keeps freeBusy responses in redis for a short TTL so the
// availability resolver and the negotiation engine don't hammer the provider
// for the same span.
type BusyCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBusyCache(rdb *redis.Client) *BusyCache {
	if rdb == nil {
		return nil
	}
	return &BusyCache{rdb: rdb, ttl: constants.BusyCacheTTL}
}

func (c *BusyCache) key(userID uuid.UUID, timeMin, timeMax time.Time) string {
	return fmt.Sprintf("freebusy:%s:%d:%d", userID, timeMin.Unix(), timeMax.Unix())
}

func (c *BusyCache) Get(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time) ([]entity.BusyWindow, bool) {
	raw, err := c.rdb.Get(ctx, c.key(userID, timeMin, timeMax)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("BusyCache:Get:Error", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var windows []entity.BusyWindow
	if err := json.Unmarshal(raw, &windows); err != nil {
		return nil, false
	}
	return windows, true
}

func (c *BusyCache) Set(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time, windows []entity.BusyWindow) {
	raw, err := json.Marshal(windows)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(userID, timeMin, timeMax), raw, c.ttl).Err(); err != nil {
		logger.Warn("BusyCache:Set:Error", "user_id", userID, "error", err)
	}
}
