package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Recognition RecognitionConfig
	Storage     StorageConfig
	Chat        ChatConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the persistence driver
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // "postgres" or "memory"
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	// Seed loads the starter catalog on startup
	Seed bool `mapstructure:"seed"`
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-minute request limits
type RateLimitConfig struct {
	PerIP       int `mapstructure:"per_ip"`
	Recognition int `mapstructure:"recognition"`
}

// RecognitionConfig selects the food recognizer
type RecognitionConfig struct {
	Provider      string        `mapstructure:"provider"` // "http" or "rekognition"
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	AWSRegion     string        `mapstructure:"aws_region"`
	MinConfidence float64       `mapstructure:"min_confidence"`
	MinMatchScore float64       `mapstructure:"min_match_score"`
}

// StorageConfig selects where uploaded images go
type StorageConfig struct {
	Driver         string `mapstructure:"driver"` // "local" or "s3"
	LocalDir       string `mapstructure:"local_dir"`
	PublicBaseURL  string `mapstructure:"public_base_url"`
	S3Bucket       string `mapstructure:"s3_bucket"`
	S3Region       string `mapstructure:"s3_region"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// ChatConfig selects the assistant's language model
type ChatConfig struct {
	Provider string `mapstructure:"provider"` // "openrouter" or "gemini"
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
	Referer  string `mapstructure:"referer"`
	Title    string `mapstructure:"title"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutriscan/")

	// NUTRISCAN_SERVER_PORT maps to server.port
	v.SetEnvPrefix("NUTRISCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present without overriding variables already set
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "nutriscan")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.seed", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.recognition", 30)

	v.SetDefault("recognition.provider", "http")
	v.SetDefault("recognition.base_url", "http://localhost:5000")
	v.SetDefault("recognition.timeout", "30s")
	v.SetDefault("recognition.aws_region", "")
	v.SetDefault("recognition.min_confidence", 60)
	v.SetDefault("recognition.min_match_score", 40)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "./uploads")
	v.SetDefault("storage.public_base_url", "/uploads")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "")
	v.SetDefault("storage.max_upload_bytes", 5<<20)

	v.SetDefault("chat.provider", "openrouter")
	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("chat.model", "")
	v.SetDefault("chat.referer", "http://localhost:3000")
	v.SetDefault("chat.title", "NutriScan Chatbot")

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set NUTRISCAN_AUTH_JWT_SECRET)")
	}

	switch config.Database.Driver {
	case "memory":
	case "postgres":
		if config.Database.Host == "" || config.Database.Name == "" {
			return fmt.Errorf("database host and name are required for the postgres driver")
		}
	default:
		return fmt.Errorf("database driver must be 'postgres' or 'memory', got: %s", config.Database.Driver)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	switch config.Recognition.Provider {
	case "http":
		if config.Recognition.BaseURL == "" {
			return fmt.Errorf("recognition base URL is required for the http provider")
		}
	case "rekognition":
		if config.Recognition.AWSRegion == "" {
			return fmt.Errorf("AWS region is required for the rekognition provider")
		}
	default:
		return fmt.Errorf("recognition provider must be 'http' or 'rekognition', got: %s", config.Recognition.Provider)
	}

	switch config.Storage.Driver {
	case "local":
		if config.Storage.LocalDir == "" {
			return fmt.Errorf("storage local_dir is required for the local driver")
		}
	case "s3":
		if config.Storage.S3Bucket == "" || config.Storage.S3Region == "" {
			return fmt.Errorf("S3 bucket and region are required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage driver must be 'local' or 's3', got: %s", config.Storage.Driver)
	}
	if config.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("storage max_upload_bytes must be positive")
	}

	if config.Chat.Provider != "openrouter" && config.Chat.Provider != "gemini" {
		return fmt.Errorf("chat provider must be 'openrouter' or 'gemini', got: %s", config.Chat.Provider)
	}

	return nil
}
