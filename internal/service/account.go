package service

import (
	"errors" // Error matching
	"fmt"    // Error wrapping
	"strings"

	"github.com/mohamedousama/Scola-System/internal/domain" // Domain models

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// AccountService implements self-registration
type AccountService struct {
	db *gorm.DB // Database handle
}

// NewAccountService creates an AccountService
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// RegisterStudent creates the User + Student + Wallet triple for a
// self-registering student, atomically. The username is stored lowercased.
func (s *AccountService) RegisterStudent(username, password, fullName string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{Username: username, Password: string(hash), Role: domain.RoleStudent}
	// One transaction: no user without its student profile and wallet
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		student := domain.Student{UserID: user.ID, FullName: strings.TrimSpace(fullName)}
		if err := tx.Create(&student).Error; err != nil {
			return fmt.Errorf("create student profile: %w", err)
		}
		wallet := domain.Wallet{UserID: user.ID, Balance: 0}
		if err := tx.Create(&wallet).Error; err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
