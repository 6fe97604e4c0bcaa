package service

import (
	"context"
	"iter"
	"sync"
	"time"

	"productivity-ranker/internal/model"
)

type fakeAI struct {
	reply     string
	err       error
	fragments []string
	streamErr error

	mu          sync.Mutex
	completions int
	streams     int
	lastMsgs    []Message
}

func (f *fakeAI) Complete(_ context.Context, msgs []Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions++
	f.lastMsgs = msgs
	return f.reply, f.err
}

func (f *fakeAI) Stream(_ context.Context, msgs []Message) iter.Seq2[string, error] {
	f.mu.Lock()
	f.streams++
	f.lastMsgs = msgs
	f.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, frag := range f.fragments {
			if !yield(frag, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield("", f.streamErr)
		}
	}
}

type fakeCache struct {
	boards      map[string]*model.Leaderboard
	hits, sets  int
	invalidated []string
}

func newFakeCache() *fakeCache { return &fakeCache{boards: map[string]*model.Leaderboard{}} }

func (c *fakeCache) GetLeaderboard(_ context.Context, weekStart string) (*model.Leaderboard, bool) {
	lb, ok := c.boards[weekStart]
	if ok {
		c.hits++
	}
	return lb, ok
}

func (c *fakeCache) SetLeaderboard(_ context.Context, lb *model.Leaderboard) {
	c.sets++
	c.boards[lb.WeekStart] = lb
}

func (c *fakeCache) InvalidateLeaderboard(_ context.Context, weekStart string) {
	c.invalidated = append(c.invalidated, weekStart)
	delete(c.boards, weekStart)
}

type fakeMirror struct {
	daily  []model.DailyScore
	weekly []model.WeeklyScore
}

func (m *fakeMirror) MirrorDailyScore(_ context.Context, ds *model.DailyScore) {
	m.daily = append(m.daily, *ds)
}

func (m *fakeMirror) MirrorWeeklyScore(_ context.Context, ws *model.WeeklyScore) {
	m.weekly = append(m.weekly, *ws)
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(15 * time.Hour) }
}
