package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string // Application port
	DBUser          string // Database user
	DBPassword      string // Database password
	DBHost          string // Database host
	DBPort          string // Database port
	DBName          string // Database name
	JWTSecret       string // JWT secret key
	RedisAddr       string // Redis server address
	RedisPass       string // Redis password
	RedisDB         int    // Redis database number
	AdminUsername   string // Username of the bootstrap admin account
	AdminPassword   string // Initial password of the bootstrap admin account
	StudentPassword string // Default password for admin-provisioned student accounts
	IsProd          bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),                     // Application port
		DBUser:          os.Getenv("DB_USER"),                           // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                       // Database password
		DBHost:          os.Getenv("DB_HOST"),                           // Database host
		DBPort:          getEnv("DB_PORT", "3306"),                      // Database port
		DBName:          os.Getenv("DB_NAME"),                           // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),                        // JWT secret key
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),         // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                        // Redis password
		RedisDB:         redisDB,                                        // Redis database number
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),              // Bootstrap admin username
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),           // Bootstrap admin password
		StudentPassword: getEnv("DEFAULT_STUDENT_PASSWORD", "123456"),   // Default student credential
		IsProd:          os.Getenv("IS_PROD") == "true",                 // Is production environment
	}
}

// getEnv returns the environment variable value or a fallback if unset
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
