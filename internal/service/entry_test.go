package service

import (
	"context"
	"testing"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryCreateDefaultsToToday(t *testing.T) {
	st := storetest.New(t)
	svc := NewEntryService(st)
	svc.now = fixedClock("2026-02-07")
	ctx := context.Background()
	u := storetest.User(t, st, "ana")

	e, err := svc.Create(ctx, u.ID, model.EntryRequest{Title: "gym", Category: "exercise", DurationMinutes: 40, Completed: true})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-07", e.Date)
	assert.NotZero(t, e.ID)

	today, err := svc.ListDay(ctx, u.ID, "")
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "gym", today[0].Title)

	_, err = svc.Create(ctx, u.ID, model.EntryRequest{Title: "x", Category: "work", DurationMinutes: 5, Date: "2026-02-30"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEntryListRangeValidation(t *testing.T) {
	st := storetest.New(t)
	svc := NewEntryService(st)
	ctx := context.Background()
	u := storetest.User(t, st, "ana")
	for _, d := range []string{"2026-02-01", "2026-02-03", "2026-02-05"} {
		_, err := svc.Create(ctx, u.ID, model.EntryRequest{Title: d, Category: "work", DurationMinutes: 5, Date: d})
		require.NoError(t, err)
	}

	got, err := svc.ListRange(ctx, u.ID, "2026-02-01", "2026-02-03")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListRange(ctx, u.ID, "2026-02-05", "2026-02-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = svc.ListRange(ctx, u.ID, "2024-01-01", "2026-02-01")
	assert.ErrorIs(t, err, ErrRangeTooLarge)
	_, err = svc.ListRange(ctx, u.ID, "", "2026-02-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEntryDeleteOwnership(t *testing.T) {
	st := storetest.New(t)
	svc := NewEntryService(st)
	ctx := context.Background()
	ana := storetest.User(t, st, "ana")
	ben := storetest.User(t, st, "ben")

	e, err := svc.Create(ctx, ana.ID, model.EntryRequest{Title: "x", Category: "work", DurationMinutes: 5, Date: "2026-02-02"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, ben.ID, e.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, ana.ID, e.ID))
	assert.ErrorIs(t, svc.Delete(ctx, ana.ID, e.ID), ErrNotFound)
}
