package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/vibemix-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Collaborator-owned rows this service reads.
		&types.Post{},
		&types.PostLike{},

		// Taxonomy + votes
		&types.Tag{},
		&types.PostTag{},
		&types.TagVote{},
		&types.UserTagPreference{},
		&types.VoterStats{},
	)
}

// EnsureFeedIndexes adds the Postgres-only indexes backing the feed keyset scan.
func EnsureFeedIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_post_feed_keyset
		ON post(created_at DESC, id DESC)
		WHERE is_deleted = false;
	`).Error; err != nil {
		return fmt.Errorf("create idx_post_feed_keyset: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_post_tag_kind_confidence
		ON post_tag(kind, tag_id, confidence);
	`).Error; err != nil {
		return fmt.Errorf("create idx_post_tag_kind_confidence: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if s.driver != DriverPostgres {
		return nil
	}
	if err := EnsureFeedIndexes(s.db); err != nil {
		s.log.Error("Feed index migration failed", "error", err)
		return err
	}
	return nil
}
