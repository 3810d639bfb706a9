package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	OCR      OCRConfig
	AI       AIConfig
	Admin    AdminConfig
}

// TelegramConfig holds bot transport configuration
type TelegramConfig struct {
	Token         string
	PollTimeout   time.Duration
	MaxFileSizeMB int
	DataDir       string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
	DialTimeout  time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Languages   []string
	TessdataDir string
}

// AIConfig holds text-generation provider configuration
type AIConfig struct {
	Provider     string // "gemini" or "openai"
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	BaseURL      string
	Temperature  float32
	Timeout      time.Duration
}

// AdminConfig holds web admin panel configuration
type AdminConfig struct {
	HTTPAddr           string
	Username           string
	PasswordBcryptHash string
	JWTSecret          string
	TokenTTL           time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:         getEnv("TELEGRAM_TOKEN", ""),
			PollTimeout:   getEnvAsDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),
			MaxFileSizeMB: getEnvAsInt("MAX_FILE_SIZE_MB", 20),
			DataDir:       getEnv("DATA_DIR", "./data"),
		},
		Database: DatabaseConfig{
			DSN:          getEnv("DATABASE_URL", "accounting.db"),
			MaxOpenConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_IDLE_CONNS", 5),
			ConnLifetime: getEnvAsDuration("DB_CONN_LIFETIME", 30*time.Minute),
			DialTimeout:  getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		OCR: OCRConfig{
			Languages:   []string{"vie", "eng"},
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		AI: AIConfig{
			Provider:     getEnv("AI_PROVIDER", "gemini"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:  getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			Timeout:      getEnvAsDuration("AI_TIMEOUT", 45*time.Second),
		},
		Admin: AdminConfig{
			HTTPAddr:           getEnv("ADMIN_ADDR", ":8081"),
			Username:           getEnv("ADMIN_USERNAME", "admin"),
			PasswordBcryptHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			TokenTTL:           getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration for the bot daemon.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return NewAppError("CONFIG_ERROR", "TELEGRAM_TOKEN is required", ErrInvalidInput)
	}
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required when AI_PROVIDER=gemini", ErrInvalidInput)
		}
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when AI_PROVIDER=openai", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "AI_PROVIDER must be gemini or openai", ErrInvalidInput)
	}
	return nil
}

// ValidateAdmin validates the configuration needed by the web admin panel.
func (c *Config) ValidateAdmin() error {
	if c.Admin.PasswordBcryptHash == "" {
		return NewAppError("CONFIG_ERROR", "ADMIN_PASSWORD_HASH is required", ErrInvalidInput)
	}
	if c.Admin.JWTSecret == "" {
		return NewAppError("CONFIG_ERROR", "JWT_SECRET is required", ErrInvalidInput)
	}
	return nil
}
