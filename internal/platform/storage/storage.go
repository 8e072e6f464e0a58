package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blog-server-go/internal/domain/model"
	"blog-server-go/internal/platform/config"
	"blog-server-go/internal/platform/errors"
)

// Open connects to the sqlite database and runs migrations.
// TranslateError maps driver unique-constraint failures onto
// gorm.ErrDuplicatedKey so repositories can detect conflicts portably.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "open",
			"failed to open database", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Account{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
	)
	if err != nil {
		return errors.Wrap(errors.KindStorage, "migrate",
			"failed to migrate schema", err)
	}
	return nil
}
