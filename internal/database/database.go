package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/whatwillyoucook/backend/config"
	"github.com/whatwillyoucook/backend/internal/models"
)

// New opens the postgres connection and migrates the schema.
// TranslateError is required so unique-index violations surface as
// gorm.ErrDuplicatedKey, which the upsert paths rely on.
func New(cfg *config.Config) (*gorm.DB, error) {
	logrus.WithFields(logrus.Fields{
		"host": cfg.DBHost,
		"port": cfg.DBPort,
		"db":   cfg.DBName,
	}).Info("connecting to database")

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("error migrating schema: %w", err)
	}

	logrus.Info("database ready")
	return db, nil
}

// Migrate applies the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Rating{},
		&models.Comment{},
		&models.SavedRecipe{},
	)
}
