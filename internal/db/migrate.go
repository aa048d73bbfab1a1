package db

import (
	"fmt"

	"github.com/mohamedousama/Scola-System/internal/domain" // Domain models

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Open connects to the MySQL database.
// TranslateError is enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey, which the services rely on for race handling.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(
		&domain.User{},
		&domain.Student{},
		&domain.Course{},
		&domain.Enrollment{},
		&domain.Wallet{},
		&domain.Transaction{},
	)
}
