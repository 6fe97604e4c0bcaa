package service

import (
	"context"
	"fmt"
	"time"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"
)

// LeaderboardCache is satisfied by cache.Redis.
type LeaderboardCache interface {
	GetLeaderboard(ctx context.Context, weekStart string) (*model.Leaderboard, bool)
	SetLeaderboard(ctx context.Context, lb *model.Leaderboard)
	InvalidateLeaderboard(ctx context.Context, weekStart string)
}

type LeaderboardService struct {
	store *store.Store
	cache LeaderboardCache
	now   func() time.Time
}

// NewLeaderboardService accepts a nil cache.
func NewLeaderboardService(st *store.Store, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{store: st, cache: cache, now: time.Now}
}

// Current returns the ranking for the week containing today.
func (s *LeaderboardService) Current(ctx context.Context) (*model.Leaderboard, error) {
	start, _ := WeekBounds(s.now())
	return s.Week(ctx, start)
}

// Week returns the ranking for the week containing date, normalised to
// its Monday.
func (s *LeaderboardService) Week(ctx context.Context, date string) (*model.Leaderboard, error) {
	start, end, err := WeekBoundsOf(date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if lb, ok := s.cache.GetLeaderboard(ctx, start); ok {
			return lb, nil
		}
	}

	rows, err := s.store.LeaderboardRows(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", start, err)
	}
	if rows == nil {
		rows = []model.LeaderboardRow{}
	}
	lb := &model.Leaderboard{WeekStart: start, WeekEnd: end, Rows: rows}
	if s.cache != nil {
		s.cache.SetLeaderboard(ctx, lb)
	}
	return lb, nil
}

func (s *LeaderboardService) Invalidate(ctx context.Context, weekStart string) {
	if s.cache != nil {
		s.cache.InvalidateLeaderboard(ctx, weekStart)
	}
}

// InvalidateCurrent drops the cached ranking for the week containing today.
func (s *LeaderboardService) InvalidateCurrent(ctx context.Context) {
	start, _ := WeekBounds(s.now())
	s.Invalidate(ctx, start)
}
