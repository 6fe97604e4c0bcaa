package store

import (
	"context"
	"fmt"
	"time"

	"productivity-ranker/internal/model"

	"gorm.io/gorm/clause"
)

// UpsertDailyScore writes the score for (user, date), overwriting any
// existing row, and returns the stored row.
func (s *Store) UpsertDailyScore(ctx context.Context, ds *model.DailyScore) (*model.DailyScore, error) {
	ds.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "insight", "updated_at"}),
	}).Create(ds).Error
	if err != nil {
		return nil, fmt.Errorf("upsert daily score: %w", err)
	}
	return s.DailyScoreOn(ctx, ds.UserID, ds.Date)
}

func (s *Store) DailyScoreOn(ctx context.Context, userID int, date string) (*model.DailyScore, error) {
	var ds model.DailyScore
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&ds).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ds, nil
}

func (s *Store) DailyScoresBetween(ctx context.Context, userID int, start, end string) ([]model.DailyScore, error) {
	var scores []model.DailyScore
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("query daily scores: %w", err)
	}
	return scores, nil
}

// UpsertWeeklyScore writes the aggregate for (user, week_start), overwriting
// any existing row, and returns the stored row.
func (s *Store) UpsertWeeklyScore(ctx context.Context, ws *model.WeeklyScore) (*model.WeeklyScore, error) {
	ws.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"week_end", "average_score", "days_scored", "updated_at"}),
	}).Create(ws).Error
	if err != nil {
		return nil, fmt.Errorf("upsert weekly score: %w", err)
	}

	var out model.WeeklyScore
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", ws.UserID, ws.WeekStart).
		First(&out).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// WeeklyScores lists a user's weekly aggregates, newest week first.
func (s *Store) WeeklyScores(ctx context.Context, userID int, limit int) ([]model.WeeklyScore, error) {
	var scores []model.WeeklyScore
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("week_start DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("query weekly scores: %w", err)
	}
	return scores, nil
}

// LeaderboardRows joins every weekly aggregate for weekStart with the owning
// user. Ties on the average fall back to days scored, then user id.
func (s *Store) LeaderboardRows(ctx context.Context, weekStart string) ([]model.LeaderboardRow, error) {
	var rows []model.LeaderboardRow
	err := s.db.WithContext(ctx).
		Table("weekly_scores AS w").
		Select("w.user_id, u.display_name, u.occupation, w.average_score, w.days_scored").
		Joins("JOIN users AS u ON u.id = w.user_id").
		Where("w.week_start = ?", weekStart).
		Order("w.average_score DESC, w.days_scored DESC, w.user_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
