package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nabenabe-code/kintai/config"
	"github.com/nabenabe-code/kintai/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// duplicate-key errors must surface as gorm.ErrDuplicatedKey so the
		// punch and registration paths can map them to business errors
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate keeps the schema in sync; also used by the test fixtures.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Employee{},
		&models.Attendance{},
		&models.Shift{},
	)
}
