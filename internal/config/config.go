package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// MongoDB Configuration
	MongoDB MongoDBConfig `json:"mongodb"`

	// Collection names inside the MongoDB database
	Collections CollectionsConfig `json:"collections"`

	// Access token verification
	Auth AuthConfig `json:"auth"`

	// Feed engine limits and timeouts
	Feed FeedConfig `json:"feed"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`

	Metrics MetricsConfig `json:"metrics"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// MongoDBConfig contains document store connection configuration
type MongoDBConfig struct {
	Host           string `json:"host"`
	Port           string `json:"port"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Database       string `json:"database"`
	ConnectTimeout int    `json:"connect_timeout"` // seconds, per attempt
	ConnectRetries int    `json:"connect_retries"`
}

type CollectionsConfig struct {
	Tweets    string `json:"tweets"`
	Users     string `json:"users"`
	Followers string `json:"followers"`
	Bookmarks string `json:"bookmarks"`
	Hashtags  string `json:"hashtags"`
}

type AuthConfig struct {
	JWTSecret string `json:"-"`
}

// FeedConfig bounds every feed query.
type FeedConfig struct {
	DefaultLimit     int64         `json:"default_limit"`
	MaxLimit         int64         `json:"max_limit"`
	QueryTimeout     time.Duration `json:"query_timeout"`
	ViewWriteTimeout time.Duration `json:"view_write_timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "4000"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		MongoDB: MongoDBConfig{
			Host:           getEnv("MONGO_HOST", "localhost"),
			Port:           getEnv("MONGO_PORT", "27017"),
			Username:       getEnv("MONGO_USERNAME", ""),
			Password:       getEnv("MONGO_PASSWORD", ""),
			Database:       getEnv("MONGO_DATABASE", "gotweet"),
			ConnectTimeout: getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10),
			ConnectRetries: getEnvAsInt("MONGO_CONNECT_RETRIES", 5),
		},
		Collections: CollectionsConfig{
			Tweets:    getEnv("DB_TWEETS_COLLECTION", "tweets"),
			Users:     getEnv("DB_USERS_COLLECTION", "users"),
			Followers: getEnv("DB_FOLLOWERS_COLLECTION", "followers"),
			Bookmarks: getEnv("DB_BOOKMARKS_COLLECTION", "bookmarks"),
			Hashtags:  getEnv("DB_HASHTAGS_COLLECTION", "hashtags"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET_ACCESS_TOKEN", ""),
		},
		Feed: FeedConfig{
			DefaultLimit:     int64(getEnvAsInt("FEED_DEFAULT_LIMIT", 20)),
			MaxLimit:         int64(getEnvAsInt("FEED_MAX_LIMIT", 100)),
			QueryTimeout:     getEnvAsDuration("FEED_QUERY_TIMEOUT", 10*time.Second),
			ViewWriteTimeout: getEnvAsDuration("FEED_VIEW_WRITE_TIMEOUT", 2*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}
}

// GetMongoURI builds the connection string, adding credentials only when both are set.
func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" && cfg.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
			cfg.MongoDB.Username,
			cfg.MongoDB.Password,
			cfg.MongoDB.Host,
			cfg.MongoDB.Port,
			cfg.MongoDB.Database,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
}

func (cfg *Config) Addr() string {
	return fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
}

func (cfg *Config) IsProduction() bool {
	return strings.EqualFold(cfg.Server.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s: %q, using default %s", key, value, defaultValue)
	}
	return defaultValue
}
