// Package config provides configuration management for the townhall backend.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: all problems found while loading are reported in
// a single error instead of failing on the first one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret            string        // Secret key for signing JWTs
	AccessTokenDuration  time.Duration // Duration for access tokens
	RefreshTokenDuration time.Duration // Duration for refresh tokens
}

// StorageConfig holds settings for the external object-storage provider.
// The media pipeline talks to any S3-compatible endpoint (AWS S3, MinIO).
type StorageConfig struct {
	Endpoint      string // base endpoint, e.g. http://localhost:9000
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // base of the durable retrieval URLs handed to callers
	DefaultFolder string // logical folder objects land under when none is declared
}

// ProvisionConfig holds the account-provisioning password policy.
// The policy is a configuration point, not a hard mandate.
type ProvisionConfig struct {
	MinPasswordLength int
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // Port for the HTTP server
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB        *PoolConfig
	Auth      *AuthConfig
	Storage   *StorageConfig
	Provision *ProvisionConfig
	Server    *ServerConfig
}

// getRequiredEnv returns a required environment variable, appending to the
// errors slice when it is not set. This promotes a "fail fast" approach for
// critical missing configuration.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return "" // Return empty string, error is collected
	}
	return value
}

// getOptionalEnv returns an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt returns an optional environment variable parsed as an int.
// Uses defaultValue if not set; appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue // Return default, error is collected
	}
	return valueInt
}

// getOptionalEnvDuration returns an optional environment variable parsed as a
// time.Duration ("15m", "168h"). Uses defaultValue if not set; appends an
// error if parsing fails.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue // Return default, error is collected
	}
	return valueDuration
}

// clampPoolSize keeps the connection pool size within reasonable bounds.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 5 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 5, clamping to 5", varName, size))
		return 5
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE", &errors)

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	// Auth configuration
	authConfig := &AuthConfig{
		JWTSecret:            getRequiredEnv("JWT_SECRET", &errors),
		AccessTokenDuration:  getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute, &errors),
		RefreshTokenDuration: getOptionalEnvDuration("JWT_REFRESH_TOKEN_DURATION", 168*time.Hour, &errors), // 7 days
	}

	// Object-storage configuration. PublicBaseURL defaults to path-style
	// addressing against the endpoint itself, which is what MinIO serves.
	storageEndpoint := getRequiredEnv("STORAGE_ENDPOINT", &errors)
	storageBucket := getRequiredEnv("STORAGE_BUCKET", &errors)
	storageConfig := &StorageConfig{
		Endpoint:      storageEndpoint,
		Region:        getOptionalEnv("STORAGE_REGION", "us-east-1"),
		Bucket:        storageBucket,
		AccessKey:     getRequiredEnv("STORAGE_ACCESS_KEY", &errors),
		SecretKey:     getRequiredEnv("STORAGE_SECRET_KEY", &errors),
		PublicBaseURL: getOptionalEnv("STORAGE_PUBLIC_BASE_URL", fmt.Sprintf("%s/%s", storageEndpoint, storageBucket)),
		DefaultFolder: getOptionalEnv("STORAGE_DEFAULT_FOLDER", "townhall"),
	}

	// Provisioning policy
	minPasswordLength := getOptionalEnvInt("PROVISION_MIN_PASSWORD_LENGTH", 8, &errors)
	if minPasswordLength < 1 {
		errors = append(errors, fmt.Sprintf("PROVISION_MIN_PASSWORD_LENGTH must be positive, got %d", minPasswordLength))
		minPasswordLength = 8
	}
	provisionConfig := &ProvisionConfig{MinPasswordLength: minPasswordLength}

	// Server configuration. The port is a string because it is used directly
	// when building the listen address (":8080").
	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:        dbConfig,
		Auth:      authConfig,
		Storage:   storageConfig,
		Provision: provisionConfig,
		Server:    serverConfig,
	}, nil
}
