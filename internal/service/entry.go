package service

import (
	"context"
	"fmt"
	"time"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"
)

const maxRangeDays = 366

type EntryService struct {
	store *store.Store
	now   func() time.Time
}

func NewEntryService(st *store.Store) *EntryService {
	return &EntryService{store: st, now: time.Now}
}

func (s *EntryService) Create(ctx context.Context, userID int, req model.EntryRequest) (*model.Entry, error) {
	date := req.Date
	if date == "" {
		date = Today(s.now())
	} else if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	e := &model.Entry{
		UserID:          userID,
		Title:           req.Title,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		Completed:       req.Completed,
		Notes:           req.Notes,
		Date:            date,
	}
	if err := s.store.CreateEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListDay lists one day's entries; an empty date means today.
func (s *EntryService) ListDay(ctx context.Context, userID int, date string) ([]model.Entry, error) {
	if date == "" {
		date = Today(s.now())
	} else if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	return s.store.EntriesOn(ctx, userID, date)
}

func (s *EntryService) ListRange(ctx context.Context, userID int, start, end string) ([]model.Entry, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.store.EntriesBetween(ctx, userID, start, end)
}

// Delete removes an entry owned by userID. Missing and foreign entries both
// report ErrNotFound.
func (s *EntryService) Delete(ctx context.Context, userID, entryID int) error {
	if err := s.store.DeleteEntry(ctx, userID, entryID); err != nil {
		return fmt.Errorf("delete entry %d: %w", entryID, err)
	}
	return nil
}

func checkRange(start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	e, err := ParseDate(end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidDate, end, start)
	}
	if e.Sub(s) > maxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: %s..%s", ErrRangeTooLarge, start, end)
	}
	return nil
}
