package config

import (
	"os"
	"strings"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	PostgresDSN    string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	JWTSecret      string
	AllowedOrigins []string

	// UploadRequireAuth gates /upload and /chart behind bearer auth.
	// The original deployments disagreed on this, so it is an explicit choice.
	UploadRequireAuth bool

	// PersistUploads enables the optional raw-record path: uploaded workbooks
	// go to object storage and parsed rows to the dataset collection.
	PersistUploads bool
}

func Load() *Config {
	return &Config{
		Port:              getenv("PORT", "8080"),
		PostgresDSN:       getenv("POSTGRES_DSN", ""),
		MongoURI:          getenv("MONGO_URI", ""),
		MongoDB:           getenv("MONGO_DB", "excel_vision"),
		RedisAddr:         getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:     getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey:    getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:    getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:       getenv("MINIO_BUCKET", "workbooks"),
		MinioUseSSL:       getenv("MINIO_USE_SSL", "false") == "true",
		JWTSecret:         getenv("JWT_SECRET", ""),
		AllowedOrigins:    splitList(getenv("ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:5173")),
		UploadRequireAuth: getenv("UPLOAD_REQUIRE_AUTH", "false") == "true",
		PersistUploads:    getenv("PERSIST_UPLOADS", "false") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
