package database

import (
	"os"

	"github.com/pkg/errors"
	"github.com/thereayou/parley/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (d *Database) Connect() error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return errors.Wrap(err, "database.Connect")
	}

	if err := Migrate(db); err != nil {
		return err
	}

	d.db = db
	return nil
}

// Migrate is shared with tests, which run against an in-memory store.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Membership{},
		&models.Message{},
	)
	return errors.Wrap(err, "database.Migrate")
}
