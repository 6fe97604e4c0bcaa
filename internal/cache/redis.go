// Package cache keeps computed leaderboards in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"productivity-ranker/internal/config"
	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/model"

	"github.com/redis/go-redis/v9"
)

const leaderboardPrefix = "leaderboard:"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects and pings. An empty address returns (nil, nil) so the
// caller runs without a cache.
func NewRedis(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.Info("redis.connected", "addr", cfg.Addr)
	return &Redis{client: client, ttl: ttl}, nil
}

func LeaderboardKey(weekStart string) string { return leaderboardPrefix + weekStart }

func (r *Redis) GetLeaderboard(ctx context.Context, weekStart string) (*model.Leaderboard, bool) {
	val, err := r.client.Get(ctx, LeaderboardKey(weekStart)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache.get failed", "week", weekStart, "err", err)
		}
		return nil, false
	}
	var lb model.Leaderboard
	if err := json.Unmarshal(val, &lb); err != nil {
		logger.Warn("cache.decode failed", "week", weekStart, "err", err)
		return nil, false
	}
	return &lb, true
}

func (r *Redis) SetLeaderboard(ctx context.Context, lb *model.Leaderboard) {
	data, err := json.Marshal(lb)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, LeaderboardKey(lb.WeekStart), data, r.ttl).Err(); err != nil {
		logger.Warn("cache.set failed", "week", lb.WeekStart, "err", err)
	}
}

func (r *Redis) InvalidateLeaderboard(ctx context.Context, weekStart string) {
	if err := r.client.Del(ctx, LeaderboardKey(weekStart)).Err(); err != nil {
		logger.Warn("cache.del failed", "week", weekStart, "err", err)
	}
}

func (r *Redis) Close() error { return r.client.Close() }
