package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/stride-backend/internal/domain"
)

// Models returns every persisted model in migration order.
func Models() []any {
	return []any{
		&types.User{},
		&types.UserToken{},
		&types.Conversation{},
		&types.ActionPlan{},
	}
}

func (s *PostgresService) AutoMigrateAll() error {
	if err := s.db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// AutoMigrate runs the shared model migration on an arbitrary handle.
// Used by test harnesses that bring their own database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
