package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// MigrateDB creates or updates the schema for all persistent models.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.Student{},
		&domain.Recruiter{},
		&domain.College{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.CallRequest{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
