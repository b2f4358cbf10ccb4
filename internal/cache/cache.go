package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/config"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

// Cache 在 redis 中保存每个会话最近一次生成的课表
type Cache struct {
	cfg *config.Config
	rdb *redis.Client
}

func New(cfg *config.Config, rdb *redis.Client) *Cache {
	return &Cache{
		cfg: cfg,
		rdb: rdb,
	}
}

func timetableKey(sessionID string) string {
	return fmt.Sprintf("timetable_%s", sessionID)
}

func (c *Cache) SaveTimetable(sessionID string, t *domain.Timetable) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, timetableKey(sessionID), data, time.Duration(c.cfg.Redis.TimetableExpiration)*time.Second).Err()
}

// GetTimetable 在课表不存在时返回 redis.Nil
func (c *Cache) GetTimetable(sessionID string) (*domain.Timetable, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	data, err := c.rdb.Get(ctx, timetableKey(sessionID)).Bytes()
	if err != nil {
		return nil, err
	}

	t := &domain.Timetable{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (c *Cache) DeleteTimetable(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	return c.rdb.Del(ctx, timetableKey(sessionID)).Err()
}
