package store_test

import (
	"context"
	"testing"
	"time"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"
	"productivity-ranker/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDuplicate(t *testing.T) {
	s := storetest.New(t)
	storetest.User(t, s, "ana")

	err := s.CreateUser(context.Background(), &model.User{Username: "ana", Email: "other@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, store.ErrDuplicate)

	taken, err := s.EmailTaken(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestUserByLogin(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	u := storetest.User(t, s, "ben")

	byName, err := s.UserByLogin(ctx, "ben")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := s.UserByLogin(ctx, "ben@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.UserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateProfileWithUnchangedValues(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	u := storetest.User(t, s, "cleo")

	updates := map[string]any{"goals": "ship it"}
	require.NoError(t, s.UpdateProfile(ctx, u.ID, updates))
	require.NoError(t, s.UpdateProfile(ctx, u.ID, updates))

	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ship it", got.Goals)

	assert.ErrorIs(t, s.UpdateProfile(ctx, u.ID+100, updates), store.ErrNotFound)
}

func TestDeleteEntryRequiresOwner(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	owner := storetest.User(t, s, "owner")
	other := storetest.User(t, s, "other")

	e := &model.Entry{UserID: owner.ID, Title: "write", Category: "work", DurationMinutes: 30, Date: "2026-02-07"}
	require.NoError(t, s.CreateEntry(ctx, e))

	assert.ErrorIs(t, s.DeleteEntry(ctx, other.ID, e.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEntry(ctx, owner.ID, e.ID+100), store.ErrNotFound)

	left, err := s.EntriesOn(ctx, owner.ID, "2026-02-07")
	require.NoError(t, err)
	assert.Len(t, left, 1)

	require.NoError(t, s.DeleteEntry(ctx, owner.ID, e.ID))
	left, err = s.EntriesOn(ctx, owner.ID, "2026-02-07")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestEntriesBetweenIsInclusive(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	u := storetest.User(t, s, "cal")
	for _, d := range []string{"2026-02-01", "2026-02-02", "2026-02-05", "2026-02-08", "2026-02-09"} {
		require.NoError(t, s.CreateEntry(ctx, &model.Entry{UserID: u.ID, Title: d, Category: "work", DurationMinutes: 10, Date: d}))
	}

	got, err := s.EntriesBetween(ctx, u.ID, "2026-02-02", "2026-02-08")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-02-02", got[0].Date)
	assert.Equal(t, "2026-02-08", got[2].Date)

	recent, err := s.RecentEntries(ctx, u.ID, "2026-02-02", "2026-02-08", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2026-02-08", recent[0].Date)
}

func TestUpsertDailyScoreOverwrites(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	u := storetest.User(t, s, "dee")

	first, err := s.UpsertDailyScore(ctx, &model.DailyScore{UserID: u.ID, Date: "2026-02-07", Score: 40, Insight: "slow"})
	require.NoError(t, err)
	second, err := s.UpsertDailyScore(ctx, &model.DailyScore{UserID: u.ID, Date: "2026-02-07", Score: 90, Insight: "great"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 90, second.Score)
	assert.Equal(t, "great", second.Insight)

	all, err := s.DailyScoresBetween(ctx, u.ID, "2026-02-02", "2026-02-08")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertWeeklyScoreOverwrites(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	u := storetest.User(t, s, "eve")

	_, err := s.UpsertWeeklyScore(ctx, &model.WeeklyScore{UserID: u.ID, WeekStart: "2026-02-02", WeekEnd: "2026-02-08", AverageScore: 70, DaysScored: 2})
	require.NoError(t, err)
	ws, err := s.UpsertWeeklyScore(ctx, &model.WeeklyScore{UserID: u.ID, WeekStart: "2026-02-02", WeekEnd: "2026-02-08", AverageScore: 65.3, DaysScored: 3})
	require.NoError(t, err)
	assert.InDelta(t, 65.3, ws.AverageScore, 1e-9)
	assert.Equal(t, 3, ws.DaysScored)

	all, err := s.WeeklyScores(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLeaderboardRowsOrdering(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	a := storetest.User(t, s, "alpha")
	b := storetest.User(t, s, "bravo")
	c := storetest.User(t, s, "charlie")
	d := storetest.User(t, s, "delta")

	week := "2026-02-02"
	for _, ws := range []model.WeeklyScore{
		{UserID: a.ID, WeekStart: week, WeekEnd: "2026-02-08", AverageScore: 70, DaysScored: 2},
		{UserID: b.ID, WeekStart: week, WeekEnd: "2026-02-08", AverageScore: 85.5, DaysScored: 1},
		{UserID: c.ID, WeekStart: week, WeekEnd: "2026-02-08", AverageScore: 70, DaysScored: 4},
		{UserID: d.ID, WeekStart: "2026-01-26", WeekEnd: "2026-02-01", AverageScore: 99, DaysScored: 7},
	} {
		ws := ws
		_, err := s.UpsertWeeklyScore(ctx, &ws)
		require.NoError(t, err)
	}

	rows, err := s.LeaderboardRows(ctx, week)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{b.ID, c.ID, a.ID}, []int{rows[0].UserID, rows[1].UserID, rows[2].UserID})
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
	assert.Equal(t, "bravo", rows[0].DisplayName)
	assert.Equal(t, "engineer", rows[0].Occupation)
}

func TestRecentChatMessages(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	u := storetest.User(t, s, "fay")
	base := time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)

	var last model.ChatMessage
	for i := 0; i < 25; i++ {
		last = model.ChatMessage{UserID: u.ID, Role: model.RoleUser, Content: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.AddChatMessage(ctx, &last))
	}

	recent, err := s.RecentChatMessages(ctx, u.ID, last.ID, 20)
	require.NoError(t, err)
	require.Len(t, recent, 20)
	// oldest first, newest (excluded) message left out
	assert.Equal(t, "e", recent[0].Content)
	assert.Equal(t, "x", recent[19].Content)

	n, err := s.ClearChat(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 25, n)
	hist, err := s.ChatHistory(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	u := storetest.User(t, s, "gil")
	now := time.Now().UTC()

	require.NoError(t, s.CreateSession(ctx, &model.Session{ID: "old", UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreateSession(ctx, &model.Session{ID: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour)}))

	n, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.SessionByID(ctx, "old")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.SessionByID(ctx, "live")
	assert.NoError(t, err)
}
