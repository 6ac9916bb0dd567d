package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Cookie   CookieConfig
	Model    ModelConfig
	Scoring  ScoringConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port        string
	AllowOrigin []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type AdminConfig struct {
	Username     string
	PasswordHash string
}

type CookieConfig struct {
	// EncryptionKey must be 16, 24 or 32 bytes (AES-128/192/256).
	EncryptionKey string
	MaxAge        time.Duration
}

type ModelConfig struct {
	Enabled          bool
	BaseURL          string
	APIKey           string
	Name             string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
	// IncludeAssets sends section markup and page CSS with each prompt.
	IncludeAssets bool
}

type ScoringConfig struct {
	WGlobal  float64
	WUser    float64
	Strategy string
}

const (
	defaultWGlobal  = 0.7
	defaultWUser    = 0.3
	defaultStrategy = "model"
)

func Load() (*Config, error) {
	cfg := build()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadTooling is Load for operator commands that only talk to the database.
func LoadTooling() (*Config, error) {
	cfg := build()

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func build() *Config {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Adaptive Landing"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			AllowOrigin: []string{getEnv("CORS_ALLOW_ORIGIN", "http://localhost:8080")},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "adaptive_landing"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       getDuration("JWT_TTL", 12*time.Hour),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Cookie: CookieConfig{
			EncryptionKey: getEnv("COOKIE_ENCRYPTION_KEY", ""),
			MaxAge:        getDuration("COOKIE_MAX_AGE", 365*24*time.Hour),
		},
		Model: ModelConfig{
			Enabled:          getBool("MODEL_ENABLED", true),
			BaseURL:          getEnv("MODEL_BASE_URL", "https://api.openai.com/v1"),
			APIKey:           getEnv("OPENAI_API_KEY", ""),
			Name:             getEnv("MODEL_NAME", "gpt-5-nano"),
			Timeout:          getDuration("MODEL_TIMEOUT", 15*time.Second),
			FailureThreshold: uint32(getInt("MODEL_BREAKER_FAILURES", 3)),
			OpenTimeout:      getDuration("MODEL_BREAKER_OPEN_TIMEOUT", 60*time.Second),
			IncludeAssets:    getBool("MODEL_INCLUDE_ASSETS", false),
		},
		Scoring: ScoringConfig{
			WGlobal:  getFloat("SCORE_WEIGHT_GLOBAL", defaultWGlobal),
			WUser:    getFloat("SCORE_WEIGHT_USER", defaultWUser),
			Strategy: getEnv("RECOMMEND_STRATEGY", defaultStrategy),
		},
	}
}

// Validate checks values the server cannot start without.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("missing jwt secret")
	}

	if c.Database.Password == "" {
		return errors.New("missing database password")
	}

	switch len(c.Cookie.EncryptionKey) {
	case 16, 24, 32:
	default:
		return errors.New("cookie encryption key must be 16, 24 or 32 bytes")
	}

	if c.Model.Enabled && c.Model.APIKey == "" {
		return errors.New("missing model api key (set OPENAI_API_KEY or MODEL_ENABLED=false)")
	}

	if c.Scoring.WGlobal < 0 || c.Scoring.WUser < 0 {
		return errors.New("score weights must be non-negative")
	}

	switch c.Scoring.Strategy {
	case "model", "weighted", "rules":
	default:
		return errors.New("unknown recommend strategy: " + c.Scoring.Strategy)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultVal
}
