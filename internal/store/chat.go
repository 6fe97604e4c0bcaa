package store

import (
	"context"
	"fmt"
	"slices"

	"productivity-ranker/internal/model"
)

func (s *Store) AddChatMessage(ctx context.Context, m *model.ChatMessage) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (s *Store) ChatHistory(ctx context.Context, userID int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	return msgs, nil
}

// RecentChatMessages returns up to limit messages before excludeID's turn,
// oldest first. excludeID is skipped so a just-stored message is not
// counted twice.
func (s *Store) RecentChatMessages(ctx context.Context, userID, excludeID, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id <> ?", userID, excludeID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("query recent chat: %w", err)
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (s *Store) ClearChat(ctx context.Context, userID int) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ChatMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear chat: %w", res.Error)
	}
	return res.RowsAffected, nil
}
