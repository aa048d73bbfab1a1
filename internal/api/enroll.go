package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Timestamps for logging

	"github.com/mohamedousama/Scola-System/internal/middleware" // Request identity helpers
	"github.com/mohamedousama/Scola-System/internal/service"    // Enrollment transaction
	"github.com/mohamedousama/Scola-System/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// EnrollRequest carries the enrollment form fields
type EnrollRequest struct {
	StudentName string  `form:"student_name" json:"student_name" binding:"required"` // Student display name
	CourseID    uint    `form:"course_id" json:"course_id" binding:"required"`       // Target course ID
	AmountPaid  float64 `form:"amount_paid" json:"amount_paid" binding:"gte=0"`      // Amount paid up front
}

// EnrollStudentHandler runs the enrollment transaction for an admin actor and
// maps the service errors onto HTTP statuses
func EnrollStudentHandler(svc *service.EnrollmentService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFromContext(c) // Authenticated identity
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req EnrollRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Execute the enrollment transaction
		result, err := svc.Enroll(actor, service.EnrollInput{
			StudentName: req.StudentName, // Student display name
			CourseID:    req.CourseID,    // Target course
			AmountPaid:  req.AmountPaid,  // Amount paid
		})
		if err != nil {
			status := statusForEnrollError(err)
			if status == http.StatusInternalServerError {
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"admin_id":     actor.UserID,    // Acting admin
					"student_name": req.StudentName, // Requested student
					"course_id":    req.CourseID,    // Requested course
					"error":        err.Error(),     // Error message
				}).Error("Enrollment failed")
				c.JSON(status, gin.H{"error": "Enrollment failed"})
				return
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		// Log successful enrollment
		logrus.WithFields(logrus.Fields{
			"admin_id":        actor.UserID,                    // Acting admin
			"student_name":    result.StudentName,              // Enrolled student
			"course_name":     result.CourseName,               // Enrolled course
			"amount_paid":     result.AmountPaid,               // Amount paid
			"commission":      result.Commission,               // Commission credited twice
			"student_created": result.StudentCreated,           // Whether an account was provisioned
			"timestamp":       time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Enrollment transaction")
		// Invalidate the credited wallets' cache entries
		ctx := c.Request.Context()
		_ = utils.DeleteCache(ctx, rdb, walletCacheKey(result.StudentUserID))
		if result.AdminUserID != 0 {
			_ = utils.DeleteCache(ctx, rdb, walletCacheKey(result.AdminUserID))
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{
			"message":    "Student enrolled successfully",
			"enrollment": result,
		})
	}
}

// statusForEnrollError maps enrollment service errors to HTTP statuses
func statusForEnrollError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCourseNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyEnrolled), errors.Is(err, service.ErrStudentConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidStudentName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
