package db

import (
	"errors"
	"fmt"

	"github.com/mohamedousama/Scola-System/internal/config" // Configuration
	"github.com/mohamedousama/Scola-System/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Seed bootstraps first-run state: the admin account with its wallet,
// and the sample course catalog when the course table is empty.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := ensureAdmin(db, cfg); err != nil {
		return err
	}
	return seedCourses(db)
}

// ensureAdmin creates the admin User + Wallet if the configured admin
// username does not exist yet
func ensureAdmin(db *gorm.DB, cfg *config.Config) error {
	var admin domain.User
	err := db.Where("username = ?", cfg.AdminUsername).First(&admin).Error
	if err == nil {
		return nil // Admin already present
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	// Create admin and wallet together
	err = db.Transaction(func(tx *gorm.DB) error {
		admin = domain.User{Username: cfg.AdminUsername, Password: string(hash), Role: domain.RoleAdmin}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Wallet{UserID: admin.ID, Balance: 0}).Error
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	logrus.WithField("username", cfg.AdminUsername).Info("Admin account created")
	return nil
}

// seedCourses inserts the sample course catalog when no courses exist
func seedCourses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Course{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count courses: %w", err)
	}
	if count > 0 {
		return nil // Catalog already seeded
	}
	courses := []domain.Course{
		{Name: "Python Programming", Price: 500.0, Description: "Learn Python programming from scratch"},
		{Name: "Web Development", Price: 750.0, Description: "Build websites with HTML, CSS and JavaScript"},
		{Name: "Data Science", Price: 1000.0, Description: "Data science and statistical analysis"},
		{Name: "Mobile App Development", Price: 800.0, Description: "Develop mobile applications"},
	}
	if err := db.Create(&courses).Error; err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}
	logrus.WithField("count", len(courses)).Info("Sample courses seeded")
	return nil
}
