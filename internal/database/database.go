package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"creator-marketplace/internal/models"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")
	return db, nil
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Trade{},
		&models.CreatorProfile{},
		&models.CreatorTrade{},
		&models.SocialAccount{},
		&models.BrandProfile{},
		&models.Subscription{},
		&models.Brief{},
		&models.BriefTargeting{},
		&models.Application{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.CreatorProfile{}, "AdditionalTrades", &models.CreatorTrade{}); err != nil {
		return fmt.Errorf("setup creator_trades join table: %w", err)
	}

	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
