// Package storetest opens a migrated in-memory store for tests.
package storetest

import (
	"context"
	"testing"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(t testing.TB) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := store.New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// User inserts a user whose password is "password123".
func User(t testing.TB, s *store.Store, username string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		DisplayName:  username,
		Occupation:   "engineer",
		Goals:        "ship more",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}
