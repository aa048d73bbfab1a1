package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation
	"time"     // Token lifetimes

	"github.com/mohamedousama/Scola-System/internal/domain"     // Domain models
	"github.com/mohamedousama/Scola-System/internal/middleware" // Request identity helpers
	"github.com/mohamedousama/Scola-System/internal/service"    // Business logic
	"github.com/mohamedousama/Scola-System/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// RegisterRequest carries the self-registration form fields
type RegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required"`   // Login username
	Password string `form:"password" json:"password" binding:"required"`   // Chosen password
	FullName string `form:"full_name" json:"full_name" binding:"required"` // Display name
}

// LoginRequest carries the login form fields
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"` // Username must be provided
	Password string `form:"password" json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued session token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// isValidUsername checks that the username uses only letters, digits and underscores
func isValidUsername(username string) bool {
	matched, _ := regexp.MatchString(`^[A-Za-z0-9_]+$`, username)
	return matched
}

// isValidPassword checks if the password length is between 6 and 72 characters
func isValidPassword(password string) bool {
	return len(password) >= 6 && len(password) <= 72
}

// RegisterHandler self-registers a student: one User, one Student profile and
// one empty Wallet, created atomically
func RegisterHandler(svc *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate username and password
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must contain only letters, digits and underscores"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 6-72 characters"})
			return
		}
		user, err := svc.RegisterStudent(req.Username, req.Password, req.FullName)
		if err != nil {
			if errors.Is(err, service.ErrUsernameTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"username": strings.ToLower(req.Username), // Requested username
				"error":    err.Error(),                   // Error message
			}).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // New username
		}).Info("Student registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// LoginHandler authenticates a user and returns a JWT session token carrying
// the user id, username and role
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate the session token
		token, err := utils.GenerateJWT(user.ID, user.Username, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler revokes the presented session token for the remainder of its
// lifetime, so it can no longer be used after logout
func LogoutHandler(jwtSecret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := middleware.TokenFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Re-parse to learn the token's remaining lifetime
		claims, err := utils.ParseJWT(tokenStr, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		ttl := time.Until(claims.ExpiresAt.Time) // Remaining token lifetime
		if err := utils.RevokeToken(c.Request.Context(), rdb, tokenStr, ttl); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID, // User logging out
				"error":   err.Error(),   // Error message
			}).Error("Logout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		logrus.WithField("user_id", claims.UserID).Info("Session logged out")
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}
