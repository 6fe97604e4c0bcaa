package service

import (
	"errors"

	"productivity-ranker/internal/store"
)

var (
	ErrNotFound           = store.ErrNotFound
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountExists      = errors.New("username or email already registered")
	ErrSessionExpired     = errors.New("session expired")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrInvalidDate        = errors.New("invalid date")
	ErrRangeTooLarge      = errors.New("date range too large")
)
