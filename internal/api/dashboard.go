package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"github.com/mohamedousama/Scola-System/internal/domain"     // Domain models
	"github.com/mohamedousama/Scola-System/internal/middleware" // Request identity helpers
	"github.com/mohamedousama/Scola-System/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// walletCacheKey builds the cache key for a user's wallet
func walletCacheKey(userID uint) string {
	return "wallet:user:" + strconv.Itoa(int(userID))
}

// EnrollmentView represents one enrollment row on the student dashboard
type EnrollmentView struct {
	CourseName      string  `json:"course_name"`      // Enrolled course name
	CoursePrice     float64 `json:"course_price"`     // Course list price
	AmountPaid      float64 `json:"amount_paid"`      // Amount paid at enrollment
	RemainingAmount float64 `json:"remaining_amount"` // Unpaid balance
	Commission      float64 `json:"commission"`       // Commission credited for this enrollment
}

// DashboardHandler returns the role-specific dashboard: admins see the course
// catalog and their wallet, students see their profile, enrollments, wallet
// and recent wallet credits
func DashboardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFromContext(c) // Authenticated identity
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()

		// Wallet, served from cache when possible
		cacheKey := walletCacheKey(actor.UserID)
		var wallet domain.Wallet
		found, err := utils.GetCache(ctx, rdb, cacheKey, &wallet)
		if err != nil || !found {
			// Not cached: fetch from the database. A user may predate wallets,
			// in which case the zero-balance wallet is shown.
			if err := db.Where("user_id = ?", actor.UserID).First(&wallet).Error; err == nil {
				_ = utils.SetCache(ctx, rdb, cacheKey, wallet, 60*time.Second)
			}
		}

		var courses []domain.Course // Course catalog, shown on both dashboards
		if err := db.Order("id").Find(&courses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
			return
		}

		// Admin dashboard: catalog plus wallet
		if actor.Role == domain.RoleAdmin {
			c.JSON(http.StatusOK, gin.H{
				"role":     domain.RoleAdmin, // Viewer role
				"username": actor.Username,   // Viewer username
				"courses":  courses,          // Course catalog with enroll targets
				"wallet":   wallet,           // Admin commission wallet
			})
			return
		}

		// Student dashboard: profile, enrollments, wallet and credit history
		var student domain.Student
		if err := db.Where("user_id = ?", actor.UserID).First(&student).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student profile not found"})
			return
		}
		var enrollments []domain.Enrollment
		if err := db.Preload("Course").Where("student_id = ?", student.ID).Find(&enrollments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
			return
		}
		views := make([]EnrollmentView, len(enrollments))
		for i, e := range enrollments {
			views[i] = EnrollmentView{
				CourseName:      e.Course.Name,     // Enrolled course name
				CoursePrice:     e.Course.Price,    // Course list price
				AmountPaid:      e.AmountPaid,      // Amount paid
				RemainingAmount: e.RemainingAmount, // Unpaid balance
				Commission:      e.Commission,      // Commission credited
			}
		}
		// Recent wallet credits
		var credits []domain.Transaction
		if err := db.Where("to_wallet_id = ?", wallet.ID).
			Order("created_at desc").
			Limit(20).
			Find(&credits).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet credits"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"role":        domain.RoleStudent, // Viewer role
			"username":    actor.Username,     // Viewer username
			"full_name":   student.FullName,   // Student display name
			"courses":     courses,            // Course catalog
			"enrollments": views,              // Enrollment rows
			"wallet":      wallet,             // Commission wallet
			"credits":     credits,            // Recent wallet credits
		})
	}
}
