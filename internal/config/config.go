package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	JWTSecret       string
	MongoURI        string
	DBName          string
	SkipAuth        bool
	Environment     string
	AppId           string
	UploadDir       string // Physical directory for uploaded import files
	ImportBatchSize int    // Records per upsert batch
	TransformScript string // Optional tengo script applied to raw rows before mapping
	SessionTTLHours int    // Idle import sessions older than this are purged
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "chainsync"),
		SkipAuth:        getEnv("SKIP_AUTH", "false") == "true",
		Environment:     getEnv("ENVIRONMENT", "development"),
		AppId:           getEnv("APP_ID", "chainsync"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		ImportBatchSize: getEnvInt("IMPORT_BATCH_SIZE", 50),
		TransformScript: getEnv("IMPORT_TRANSFORM_SCRIPT", ""),
		SessionTTLHours: getEnvInt("IMPORT_SESSION_TTL_HOURS", 24),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
