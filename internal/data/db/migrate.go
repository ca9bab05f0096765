package db

import (
	"fmt"

	"github.com/yungbote/feedback360-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureSubmissionIndexes(db)
}

func EnsureSubmissionIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_submission_manager_role ON submission(manager_name, role);`).Error; err != nil {
		return fmt.Errorf("create idx_submission_manager_role: %w", err)
	}
	return nil
}
