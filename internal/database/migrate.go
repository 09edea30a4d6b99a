package database

import (
	"plume/internal/models"

	"gorm.io/gorm"
)

// Models lists every persisted type, in foreign-key dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	}
}

// Migrate applies the schema for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
