package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/metrics"
	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"

	"github.com/tidwall/gjson"
)

const (
	NoEntriesInsight = "No activities logged for this day yet. Log what you worked on to get your productivity score."
	fallbackInsight  = "Keep logging your activities to get sharper insights."
	defaultScore     = 50
)

const scoringPrompt = `You are a productivity coach. Rate the user's productivity for one day on a
scale of 0 to 100, considering how their logged activities serve their goals
and occupation, time invested, and what was actually completed.
Reply with JSON only: {"score": <integer 0-100>, "insight": "<one or two short sentences>"}`

type ScoreResult struct {
	Date    string             `json:"date"`
	Score   int                `json:"score"`
	Insight string             `json:"insight"`
	Weekly  *model.WeeklyScore `json:"weekly,omitempty"`
}

type ScoringService struct {
	store       *store.Store
	ai          Generator
	leaderboard *LeaderboardService
	mirror      ScoreMirror
	now         func() time.Time
}

// NewScoringService accepts a nil mirror.
func NewScoringService(st *store.Store, ai Generator, lb *LeaderboardService, mirror ScoreMirror) *ScoringService {
	return &ScoringService{store: st, ai: ai, leaderboard: lb, mirror: mirror, now: time.Now}
}

// ScoreDay rates one user's day, stores it, and refreshes the weekly
// aggregate. An empty date means today.
func (s *ScoringService) ScoreDay(ctx context.Context, userID int, date string) (*ScoreResult, error) {
	if date == "" {
		date = Today(s.now())
	} else if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	entries, err := s.store.EntriesOn(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("score day: %w", err)
	}
	if len(entries) == 0 {
		metrics.ScoringOutcome("empty")
		return &ScoreResult{Date: date, Score: 0, Insight: NoEntriesInsight}, nil
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("score day: load user: %w", err)
	}

	reply, err := s.ai.Complete(ctx, []Message{
		{Role: model.RoleSystem, Content: scoringPrompt},
		{Role: model.RoleUser, Content: DayDigest(user, date, entries)},
	})
	if err != nil {
		metrics.ScoringOutcome("error")
		return nil, fmt.Errorf("score day: generate: %w", err)
	}

	score, insight, parsed := ParseScoreReply(reply)
	if parsed {
		metrics.ScoringOutcome("scored")
	} else {
		metrics.ScoringOutcome("fallback")
		logger.Warn("score.fallback", "uid", userID, "date", date, "reply", reply)
	}

	ds, err := s.store.UpsertDailyScore(ctx, &model.DailyScore{UserID: userID, Date: date, Score: score, Insight: insight})
	if err != nil {
		return nil, fmt.Errorf("score day: %w", err)
	}
	if s.mirror != nil {
		s.mirror.MirrorDailyScore(ctx, ds)
	}

	weekly, err := s.RecomputeWeek(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("score day: %w", err)
	}
	logger.Info("score.done", "uid", userID, "date", date, "score", score, "week_avg", weekly.AverageScore)

	return &ScoreResult{Date: date, Score: ds.Score, Insight: ds.Insight, Weekly: weekly}, nil
}

// RecomputeWeek rewrites the weekly aggregate for the Monday–Sunday window
// containing date from the stored daily scores.
func (s *ScoringService) RecomputeWeek(ctx context.Context, userID int, date string) (*model.WeeklyScore, error) {
	start, end, err := WeekBoundsOf(date)
	if err != nil {
		return nil, err
	}
	scores, err := s.store.DailyScoresBetween(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("recompute week: %w", err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("recompute week %s: no daily scores: %w", start, ErrNotFound)
	}

	ws, err := s.store.UpsertWeeklyScore(ctx, &model.WeeklyScore{
		UserID:       userID,
		WeekStart:    start,
		WeekEnd:      end,
		AverageScore: WeeklyAverage(scores),
		DaysScored:   len(scores),
	})
	if err != nil {
		return nil, fmt.Errorf("recompute week: %w", err)
	}
	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx, start)
	}
	if s.mirror != nil {
		s.mirror.MirrorWeeklyScore(ctx, ws)
	}
	return ws, nil
}

// WeeklyScores lists the user's weekly aggregates, newest first.
func (s *ScoringService) WeeklyScores(ctx context.Context, userID int) ([]model.WeeklyScore, error) {
	return s.store.WeeklyScores(ctx, userID, 0)
}

// DailyScores lists daily scores in [start, end]; empty bounds mean the
// current week.
func (s *ScoringService) DailyScores(ctx context.Context, userID int, start, end string) ([]model.DailyScore, error) {
	if start == "" || end == "" {
		start, end = WeekBounds(s.now())
	}
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.store.DailyScoresBetween(ctx, userID, start, end)
}

// WeeklyAverage is the mean score rounded to one decimal place.
func WeeklyAverage(scores []model.DailyScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, ds := range scores {
		sum += ds.Score
	}
	return math.Round(float64(sum)/float64(len(scores))*10) / 10
}

// ParseScoreReply extracts the first JSON object from a model reply. When
// no valid object is found the score is 50 and the raw reply becomes the
// insight; parsed reports which path was taken.
func ParseScoreReply(reply string) (score int, insight string, parsed bool) {
	obj := firstJSONObject(reply)
	if obj == "" || !gjson.Valid(obj) {
		return defaultScore, strings.TrimSpace(reply), false
	}

	r := gjson.Parse(obj)
	score = defaultScore
	if v := r.Get("score"); v.Type == gjson.Number {
		score = clampScore(v.Float())
	}
	insight = strings.TrimSpace(r.Get("insight").String())
	if insight == "" {
		insight = fallbackInsight
	}
	return score, insight, true
}

func clampScore(f float64) int {
	if math.IsNaN(f) {
		return defaultScore
	}
	return int(math.Max(0, math.Min(100, math.Round(f))))
}

// firstJSONObject returns the first balanced {...} span, honouring string
// literals, or "" when there is none.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// DayDigest renders the user's profile and one day's entries for the model.
func DayDigest(u *model.User, date string, entries []model.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", u.DisplayName)
	if u.Occupation != "" {
		fmt.Fprintf(&sb, "Occupation: %s\n", u.Occupation)
	}
	if u.Goals != "" {
		fmt.Fprintf(&sb, "Goals: %s\n", u.Goals)
	}
	fmt.Fprintf(&sb, "Date: %s\n\nActivities:\n", date)

	total, done := 0, 0
	for i, e := range entries {
		status := "not completed"
		if e.Completed {
			status = "completed"
			done++
		}
		total += e.DurationMinutes
		fmt.Fprintf(&sb, "%d. %s [%s] - %d min - %s\n", i+1, e.Title, e.Category, e.DurationMinutes, status)
		if e.Notes != "" {
			fmt.Fprintf(&sb, "   Notes: %s\n", e.Notes)
		}
	}
	fmt.Fprintf(&sb, "\nTotal: %d activities, %d minutes, %d completed\n", len(entries), total, done)
	return sb.String()
}
