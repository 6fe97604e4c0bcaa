package service

import (
	"context"
	"testing"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardWeekUsesCache(t *testing.T) {
	st := storetest.New(t)
	cache := newFakeCache()
	svc := NewLeaderboardService(st, cache)
	ctx := context.Background()

	ana := storetest.User(t, st, "ana")
	ben := storetest.User(t, st, "ben")
	for _, ws := range []model.WeeklyScore{
		{UserID: ana.ID, WeekStart: "2026-02-02", WeekEnd: "2026-02-08", AverageScore: 64.5, DaysScored: 2},
		{UserID: ben.ID, WeekStart: "2026-02-02", WeekEnd: "2026-02-08", AverageScore: 81, DaysScored: 4},
	} {
		_, err := st.UpsertWeeklyScore(ctx, &ws)
		require.NoError(t, err)
	}

	lb, err := svc.Week(ctx, "2026-02-05")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-02", lb.WeekStart)
	assert.Equal(t, "2026-02-08", lb.WeekEnd)
	require.Len(t, lb.Rows, 2)
	assert.Equal(t, 1, lb.Rows[0].Rank)
	assert.Equal(t, ben.ID, lb.Rows[0].UserID)
	assert.Equal(t, "engineer", lb.Rows[0].Occupation)
	assert.Equal(t, 1, cache.sets)

	_, err = svc.Week(ctx, "2026-02-08")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)

	svc.Invalidate(ctx, "2026-02-02")
	_, err = svc.Week(ctx, "2026-02-02")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.sets)
}

func TestLeaderboardEmptyWeek(t *testing.T) {
	svc := NewLeaderboardService(storetest.New(t), nil)
	lb, err := svc.Week(context.Background(), "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", lb.WeekStart)
	assert.NotNil(t, lb.Rows)
	assert.Empty(t, lb.Rows)

	_, err = svc.Week(context.Background(), "March 4")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
