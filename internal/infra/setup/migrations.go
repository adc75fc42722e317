package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Ijadele/Blog/internal/domain"
)

// MigrateDB 自动迁移 users、posts、comments 三张表。
// 唯一索引 (users.email, posts.slug) 由模型的 gorm tag 声明，是邮箱和 slug 唯一性的最终保证。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
