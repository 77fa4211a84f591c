// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hey-granth/profile-guard/internal/db"
)

// Open returns a migrated in-memory database private to the test.
//
// A single connection is used, so concurrent transactions serialize the way
// row locks serialize them on mysql/postgres.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// CreateUser inserts an active, unverified user.
func CreateUser(t testing.TB, database *gorm.DB, username string, gender db.Gender) *db.User {
	t.Helper()
	u := &db.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Gender:       gender,
		Active:       true,
		LastLoginAt:  time.Now().UTC(),
	}
	if err := database.Create(u).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return u
}
