package database

import (
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.RefreshToken{},
		&model.Lead{},
		&model.Blog{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == DriverPostgres {
		CreateIndexes(db)
	}
	return nil
}

// CreateIndexes adds the PostgreSQL-only indexes that back the lead filters.
// Failures are logged and skipped.
func CreateIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_leads_industry_lower ON leads (LOWER(industry));",
		"CREATE INDEX IF NOT EXISTS idx_leads_user_created ON leads (user_id, created_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_active ON refresh_tokens (user_id) WHERE revoked = false;",
		"CREATE INDEX IF NOT EXISTS idx_blogs_content_gin ON blogs USING GIN (content jsonb_path_ops);",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			logger.GetLogger().Warn("Failed to create index",
				zap.String("sql", indexSQL),
				zap.Error(err),
			)
		}
	}
}
