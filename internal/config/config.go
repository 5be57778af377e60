package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database
	DBHost     string `yaml:"dbHost"`
	DBPort     string `yaml:"dbPort"`
	DBUser     string `yaml:"dbUser"`
	DBPassword string `yaml:"dbPassword"`
	DBName     string `yaml:"dbName"`
	DBSSLMode  string `yaml:"dbSSLMode"`

	// JWT sessions
	JWTSecret        string        `yaml:"jwtSecret"`
	JWTAccessExpiry  time.Duration `yaml:"jwtAccessExpiry"`
	JWTRefreshExpiry time.Duration `yaml:"jwtRefreshExpiry"`

	// Google sign-in audiences (comma separated OAuth client IDs)
	GoogleClientIDs string `yaml:"googleClientIDs"`

	// Redis (optional): shared revocation list and auth rate limit
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	// Image hosting
	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`
	MinioPublicURL string `yaml:"minioPublicURL"`
	UploadMaxBytes int64  `yaml:"uploadMaxBytes"`
	ImageMaxPixels int64  `yaml:"imageMaxPixels"`
	ImageSize      int    `yaml:"imageSize"`

	// Server
	Port                string `yaml:"port"`
	CORSOrigins         string `yaml:"corsOrigins"`
	RateLimitPerMin     int    `yaml:"rateLimitPerMin"`
	AuthRateLimitPerMin int    `yaml:"authRateLimitPerMin"`

	// Logging
	LogLevel         string `yaml:"logLevel"`
	LogRetentionDays int    `yaml:"logRetentionDays"`

	AppName  string `yaml:"appName"`
	AppEnv   string `yaml:"appEnv"`
	TimeZone string `yaml:"timeZone"`
}

// Load builds the config from CONFIG_FILE (if set) and the environment.
// Environment variables win over values from the file.
func Load() (*Config, error) {
	file := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, file); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", orDefault(file.DBHost, "localhost")),
		DBPort:     getEnv("DB_PORT", orDefault(file.DBPort, "5432")),
		DBUser:     getEnv("DB_USER", orDefault(file.DBUser, "postgres")),
		DBPassword: getEnv("DB_PASSWORD", file.DBPassword),
		DBName:     getEnv("DB_NAME", orDefault(file.DBName, "booknest")),
		DBSSLMode:  getEnv("DB_SSLMODE", orDefault(file.DBSSLMode, "disable")),

		JWTSecret:        getEnv("JWT_SECRET", file.JWTSecret),
		JWTAccessExpiry:  envDuration("JWT_ACCESS_EXPIRY", file.JWTAccessExpiry, 15*time.Minute),
		JWTRefreshExpiry: envDuration("JWT_REFRESH_EXPIRY", file.JWTRefreshExpiry, 168*time.Hour),

		GoogleClientIDs: getEnv("GOOGLE_CLIENT_IDS", file.GoogleClientIDs),

		RedisAddr:     getEnv("REDIS_ADDR", file.RedisAddr),
		RedisPassword: getEnv("REDIS_PASSWORD", file.RedisPassword),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", orDefault(file.MinioEndpoint, "localhost:9000")),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", file.MinioAccessKey),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", file.MinioSecretKey),
		MinioBucket:    getEnv("MINIO_BUCKET", orDefault(file.MinioBucket, "booknest")),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", strconv.FormatBool(file.MinioUseSSL)) == "true",
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", file.MinioPublicURL),
		UploadMaxBytes: envInt64("UPLOAD_MAX_BYTES", file.UploadMaxBytes, 5*1024*1024),
		ImageMaxPixels: envInt64("IMAGE_MAX_PIXELS", file.ImageMaxPixels, 40_000_000),
		ImageSize:      int(envInt64("IMAGE_SIZE", int64(file.ImageSize), 517)),

		Port:                getEnv("PORT", orDefault(file.Port, "8080")),
		CORSOrigins:         getEnv("CORS_ORIGINS", orDefault(file.CORSOrigins, "*")),
		RateLimitPerMin:     int(envInt64("RATE_LIMIT_PER_MIN", int64(file.RateLimitPerMin), 60)),
		AuthRateLimitPerMin: int(envInt64("AUTH_RATE_LIMIT_PER_MIN", int64(file.AuthRateLimitPerMin), 10)),

		LogLevel:         getEnv("LOG_LEVEL", orDefault(file.LogLevel, "info")),
		LogRetentionDays: int(envInt64("LOG_RETENTION_DAYS", int64(file.LogRetentionDays), 30)),

		AppName:  getEnv("APP_NAME", orDefault(file.AppName, "BookNest")),
		AppEnv:   getEnv("APP_ENV", file.AppEnv),
		TimeZone: getEnv("APP_TIMEZONE", orDefault(file.TimeZone, "Asia/Kolkata")),
	}

	if cfg.MinioPublicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		cfg.MinioPublicURL = scheme + "://" + cfg.MinioEndpoint + "/" + cfg.MinioBucket
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// GoogleAudiences returns the configured OAuth client IDs.
func (c *Config) GoogleAudiences() []string {
	return splitCSV(c.GoogleClientIDs)
}

// Location resolves TimeZone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func orDefault(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}

func envDuration(key string, fromFile, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		return fallback
	}
	if fromFile > 0 {
		return fromFile
	}
	return fallback
}

func envInt64(key string, fromFile, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
		return fallback
	}
	if fromFile > 0 {
		return fromFile
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
