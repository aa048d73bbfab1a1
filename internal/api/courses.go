package api

import (
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"github.com/mohamedousama/Scola-System/internal/domain" // Domain models
	"github.com/mohamedousama/Scola-System/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Cache key for the public course catalog
const coursesCacheKey = "courses:all"

// CourseResponse represents a course on the public listing
type CourseResponse struct {
	ID          uint    `json:"id"`          // Course ID
	Name        string  `json:"name"`        // Course name
	Price       float64 `json:"price"`       // List price
	Description string  `json:"description"` // Course description
}

// ListCoursesHandler returns the course catalog, cached in Redis.
// The catalog is immutable after seeding, so a short TTL is plenty.
func ListCoursesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		// Try the cache first
		var cached []CourseResponse
		found, err := utils.GetCache(ctx, rdb, coursesCacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"courses": cached, "cached": true})
			return
		}
		var courses []domain.Course // Slice to hold courses
		if err := db.Order("id").Find(&courses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
			return
		}
		// Map courses to response format
		resp := make([]CourseResponse, len(courses))
		for i, course := range courses {
			resp[i] = CourseResponse{
				ID:          course.ID,          // Course ID
				Name:        course.Name,        // Course name
				Price:       course.Price,       // List price
				Description: course.Description, // Course description
			}
		}
		// Cache the catalog for future requests
		_ = utils.SetCache(ctx, rdb, coursesCacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"courses": resp, "cached": false})
	}
}
