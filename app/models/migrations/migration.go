package migrations

import (
	"gorm.io/gorm"

	"storefront/app/models"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.KVEntry{},
	)
}
