package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"github.com/mohamedousama/Scola-System/internal/domain" // Domain models
	"github.com/mohamedousama/Scola-System/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// EnrollmentAdminResponse represents one enrollment row in the admin listing
type EnrollmentAdminResponse struct {
	ID              uint    `json:"id"`               // Enrollment ID
	StudentName     string  `json:"student_name"`     // Student display name
	CourseName      string  `json:"course_name"`      // Course name
	AmountPaid      float64 `json:"amount_paid"`      // Amount paid
	RemainingAmount float64 `json:"remaining_amount"` // Unpaid balance
	Commission      float64 `json:"commission"`       // Commission credited
	CreatedAt       int64   `json:"created_at"`       // Enrollment timestamp (ms)
}

// ListEnrollmentsHandler returns all enrollments with student and course
// names, paginated and cached
func ListEnrollmentsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		// Create a cache key based on pagination parameters
		cacheKey := "admin:enrollments:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		// Try to get cached response
		var cached struct {
			Enrollments []EnrollmentAdminResponse `json:"enrollments"` // List of enrollments
			Page        int                       `json:"page"`        // Current page
			PageSize    int                       `json:"page_size"`   // Page size
			Total       int64                     `json:"total"`       // Total number of enrollments
			TotalPages  int                       `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"enrollments": cached.Enrollments, // List of enrollments
				"page":        cached.Page,        // Current page
				"page_size":   cached.PageSize,    // Page size
				"total":       cached.Total,       // Total number of enrollments
				"total_pages": cached.TotalPages,  // Total pages
				"cached":      true,               // Indicate response is from cache
			})
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total enrollment count
		if err := db.Model(&domain.Enrollment{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count enrollments"}) // Return on error
			return
		}
		// Fetch paginated enrollments with student names and course details
		type row struct {
			ID              uint
			FullName        string
			CourseName      string
			AmountPaid      float64
			RemainingAmount float64
			Commission      float64
			CreatedAt       int64
		}
		var rows []row
		if err := db.Model(&domain.Enrollment{}).
			Select("enrollments.id, students.full_name, courses.name as course_name, enrollments.amount_paid, enrollments.remaining_amount, enrollments.commission, enrollments.created_at").
			Joins("JOIN students ON students.id = enrollments.student_id").
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Order("enrollments.created_at desc").
			Offset(offset).Limit(pageSize).
			Scan(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"}) // Return on error
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		// Map rows to response format
		resp := make([]EnrollmentAdminResponse, len(rows))
		for i, r := range rows {
			resp[i] = EnrollmentAdminResponse{
				ID:              r.ID,              // Enrollment ID
				StudentName:     r.FullName,        // Student display name
				CourseName:      r.CourseName,      // Course name
				AmountPaid:      r.AmountPaid,      // Amount paid
				RemainingAmount: r.RemainingAmount, // Unpaid balance
				Commission:      r.Commission,      // Commission credited
				CreatedAt:       r.CreatedAt,       // Enrollment timestamp
			}
		}
		// Prepare final response data
		respData := gin.H{
			"enrollments": resp,       // List of enrollments
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of enrollments
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}
