package db

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResetTestData empties every table, children first, and resets id sequences
// where the dialect allows it.
//
// Compatible with MySQL, Postgres and SQLite.
func ResetTestData(db *gorm.DB) error {
	models := AllModels()
	for i := len(models) - 1; i >= 0; i-- {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(models[i]); err != nil {
			return fmt.Errorf("failed to parse model: %w", err)
		}
		table := stmt.Schema.Table
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}

		switch db.Dialector.Name() {
		case "mysql":
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		case "sqlite":
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	return nil
}

// SeedUsers creates n users with the password "password": the first half
// male, the rest female.
func SeedUsers(db *gorm.DB, n int, r *rand.Rand) ([]User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]User, 0, n)
	for i := 1; i <= n; i++ {
		gender := GenderMale
		if i > n/2 {
			gender = GenderFemale
		}
		users = append(users, User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Gender:       gender,
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	return users, nil
}
