package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	TMDB      TMDBConfig
	Auth      AuthConfig
	Community CommunityConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Ranking   RankingConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Region       string
	HTTPTimeout  time.Duration
	RateLimit    float64 // requests per second
	RateBurst    int
}

type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
}

// CommunityConfig selects where community posts live.
// Store is "local" (one blob per browser profile) or "server" (shared Postgres tables).
// BlobBackend picks the blob store used by the local store: "memory", "redis" or "minio".
type CommunityConfig struct {
	Store          string
	BlobBackend    string
	MemoryProfiles int
}

type RedisConfig struct {
	URL      string
	Password string
}

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

type RankingConfig struct {
	TopRatedCacheTTL time.Duration
}

const defaultJWTSecret = "change-me-in-production"

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SERVER_PORT", "8010"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			CORSOrigins:  getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getEnvOrDefault("DB_PORT", "5432"),
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:          getEnvOrDefault("DB_NAME", "cinereview"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			QueryTimeout:    getDurationOrDefault("DB_QUERY_TIMEOUT", 10*time.Second),
		},
		TMDB: TMDBConfig{
			APIKey:       os.Getenv("TMDB_API_KEY"),
			BaseURL:      getEnvOrDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnvOrDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
			Language:     getEnvOrDefault("TMDB_LANGUAGE", "pt-BR"),
			Region:       getEnvOrDefault("TMDB_REGION", "BR"),
			HTTPTimeout:  getDurationOrDefault("TMDB_HTTP_TIMEOUT", 10*time.Second),
			RateLimit:    getFloatOrDefault("TMDB_RATE_LIMIT", 20),
			RateBurst:    getIntOrDefault("TMDB_RATE_BURST", 10),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnvOrDefault("JWT_SECRET", defaultJWTSecret),
			SessionTTL:   getDurationOrDefault("SESSION_TTL", 7*24*time.Hour),
			CookieName:   getEnvOrDefault("SESSION_COOKIE", "token"),
			CookieSecure: getBoolOrDefault("COOKIE_SECURE", false),
		},
		Community: CommunityConfig{
			Store:          strings.ToLower(getEnvOrDefault("COMMUNITY_STORE", "local")),
			BlobBackend:    strings.ToLower(getEnvOrDefault("COMMUNITY_BLOB_BACKEND", "memory")),
			MemoryProfiles: getIntOrDefault("COMMUNITY_MEMORY_PROFILES", 10000),
		},
		Redis: RedisConfig{
			URL:      getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:        getEnvOrDefault("AWS_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnvOrDefault("AWS_BUCKET", "community"),
			Region:          getEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
			UseSSL:          getBoolOrDefault("AWS_USE_SSL", false),
		},
		Ranking: RankingConfig{
			TopRatedCacheTTL: getDurationOrDefault("TOP_RATED_CACHE_TTL", time.Minute),
		},
	}
}

// GetDSN returns PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) Validate() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET is using the default value")
	}
	switch c.Community.Store {
	case "local", "server":
	default:
		return fmt.Errorf("COMMUNITY_STORE must be local or server, got %q", c.Community.Store)
	}
	switch c.Community.BlobBackend {
	case "memory", "redis":
	case "minio":
		if c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required for the minio blob backend")
		}
	default:
		return fmt.Errorf("COMMUNITY_BLOB_BACKEND must be memory, redis or minio, got %q", c.Community.BlobBackend)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
