package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursestream-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
