package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/standard-backend/userapi/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
	}
}

// Migrate runs AutoMigrate for every model followed by the hand-written migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	migrations := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"add_active_users_name_index", addActiveUsersNameIndex},
	}
	for _, m := range migrations {
		if err := m.fn(db); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
	}
	return nil
}

// addActiveUsersNameIndex backs the default listing (active users ordered by name).
func addActiveUsersNameIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_users_active_name
		ON users(name)
		WHERE active = true
	`).Error
}
