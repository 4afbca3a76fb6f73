package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first when present.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg.APIBaseURL = getEnv("INKFEED_API_URL", cfg.APIBaseURL)
	cfg.RequestTimeout = getEnvAsDuration("INKFEED_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.PageSize = getEnvAsInt("INKFEED_PAGE_SIZE", cfg.PageSize)
	cfg.Token = getEnv("INKFEED_TOKEN", cfg.Token)

	cfg.Upload.Endpoint = getEnv("INKFEED_S3_ENDPOINT", cfg.Upload.Endpoint)
	cfg.Upload.Region = getEnv("INKFEED_S3_REGION", cfg.Upload.Region)
	cfg.Upload.Bucket = getEnv("INKFEED_S3_BUCKET", cfg.Upload.Bucket)
	cfg.Upload.AccessKey = getEnv("INKFEED_S3_ACCESS_KEY", cfg.Upload.AccessKey)
	cfg.Upload.SecretKey = getEnv("INKFEED_S3_SECRET_KEY", cfg.Upload.SecretKey)
	cfg.Upload.PublicBaseURL = getEnv("INKFEED_S3_PUBLIC_URL", cfg.Upload.PublicBaseURL)
}
