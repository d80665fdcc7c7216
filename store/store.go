package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/vTempo/afroditis-delicacies/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("✅ Database ready")
	return db, nil
}

// Migrate creates or updates every table the services use.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.MenuItem{},
		&models.MenuSettings{},
		&models.CartItem{},
		&models.User{},
		&models.Order{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Wrap converts a gorm error into the service error taxonomy. kind and key
// describe the record for not-found errors.
func Wrap(op, kind, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFound(kind, key)
	}
	var (
		nf *models.NotFoundError
		ve *models.ValidationError
		pe *models.PermissionError
		de *models.DeserializationError
		se *models.RemoteStoreError
	)
	if errors.As(err, &nf) || errors.As(err, &ve) || errors.As(err, &pe) || errors.As(err, &de) || errors.As(err, &se) {
		return err
	}
	return models.StoreError(op, err)
}
