package db

import (
	"fmt"

	types "github.com/justicebot/justicebot-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// =========================
		// Evidence pipeline
		// =========================
		&types.EvidenceAnalysis{},
		&types.DeviceToken{},

		// =========================
		// Cases + chat
		// =========================
		&types.CaseAssessment{},
		&types.ChatMessage{},
	); err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		return EnsureEvidenceIndexes(db)
	}
	return nil
}

// EnsureEvidenceIndexes adds Postgres-only indexes that AutoMigrate cannot express.
func EnsureEvidenceIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_extracted_text_owner_created
		ON extracted_text (owner_user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_extracted_text_owner_created: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_extracted_text_fts
		ON extracted_text
		USING GIN (to_tsvector('english', extracted_text));
	`).Error; err != nil {
		return fmt.Errorf("create idx_extracted_text_fts: %w", err)
	}
	return nil
}
