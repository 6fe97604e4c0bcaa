package store

import (
	"context"
	"fmt"

	"productivity-ranker/internal/model"
)

func (s *Store) CreateEntry(ctx context.Context, e *model.Entry) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *Store) EntriesOn(ctx context.Context, userID int, date string) ([]model.Entry, error) {
	return s.EntriesBetween(ctx, userID, date, date)
}

// EntriesBetween returns entries with start <= date <= end, oldest first.
func (s *Store) EntriesBetween(ctx context.Context, userID int, start, end string) ([]model.Entry, error) {
	var entries []model.Entry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date, created_at, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return entries, nil
}

// RecentEntries returns at most limit entries in the window, newest first.
func (s *Store) RecentEntries(ctx context.Context, userID int, start, end string, limit int) ([]model.Entry, error) {
	var entries []model.Entry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC, created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes the entry only when userID owns it.
func (s *Store) DeleteEntry(ctx context.Context, userID, id int) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Entry{})
	if res.Error != nil {
		return fmt.Errorf("delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
