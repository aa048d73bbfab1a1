package service

import (
	"testing" // Go's testing package

	"github.com/mohamedousama/Scola-System/internal/domain" // Domain models

	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // For setup assertions
	"golang.org/x/crypto/bcrypt"          // Password hashing
)

func TestRegisterStudent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)

	user, err := svc.RegisterStudent("Sara123", "secret-pass", "Sara Omar")
	require.NoError(t, err)

	// Username is stored lowercased, role defaults to student
	assert.Equal(t, "sara123", user.Username)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-pass")))

	// The full User + Student + Wallet triple exists
	var student domain.Student
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&student).Error)
	assert.Equal(t, "Sara Omar", student.FullName)
	var wallet domain.Wallet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&wallet).Error)
	assert.Equal(t, 0.0, wallet.Balance)
}

func TestRegisterStudentDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)

	_, err := svc.RegisterStudent("sara", "secret-pass", "Sara Omar")
	require.NoError(t, err)

	_, err = svc.RegisterStudent("Sara", "other-pass", "Sara Othman")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The failed registration left nothing behind
	assert.Equal(t, int64(1), count(t, db, &domain.User{}))
	assert.Equal(t, int64(1), count(t, db, &domain.Student{}))
	assert.Equal(t, int64(1), count(t, db, &domain.Wallet{}))
}
