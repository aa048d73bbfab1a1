package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/mohamedousama/Scola-System/internal/api"        // Custom package for API handlers
	"github.com/mohamedousama/Scola-System/internal/config"     // Custom package for configuration
	"github.com/mohamedousama/Scola-System/internal/db"         // Custom package for database setup
	"github.com/mohamedousama/Scola-System/internal/middleware" // Custom package for middleware
	"github.com/mohamedousama/Scola-System/internal/service"    // Custom package for business logic

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	database, err := db.Open(dsn)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Migrate the schema and bootstrap first-run state (admin account, sample courses)
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if err := db.Seed(database, cfg); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup services
	accounts := service.NewAccountService(database)                          // Self-registration
	enrollments := service.NewEnrollmentService(database, cfg.StudentPassword) // Enrollment transaction

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes
	r.GET("/", api.ListCoursesHandler(database, redisClient))    // Course catalog
	r.POST("/register", api.RegisterHandler(accounts))           // Student self-registration
	r.POST("/login", api.LoginHandler(database, cfg.JWTSecret))  // Login endpoint

	// Session routes (protected by JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient))
	auth.GET("/dashboard", api.DashboardHandler(database, redisClient))  // Role-specific dashboard
	auth.GET("/logout", api.LogoutHandler(cfg.JWTSecret, redisClient))   // Session revocation

	// Admin routes (protected, admin only)
	admin := r.Group("/")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient), middleware.AdminOnlyMiddleware(database))
	admin.POST("/enroll_student", api.EnrollStudentHandler(enrollments, redisClient)) // The enrollment transaction
	admin.GET("/enrollments", api.ListEnrollmentsHandler(database, redisClient))      // Paginated enrollment listing

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
