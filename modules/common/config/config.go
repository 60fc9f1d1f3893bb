package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config - all environment-backed settings for the server
type Config struct {
	// Server
	Port string

	// Supabase (database + storage)
	SupabaseURL        string
	SupabaseServiceKey string
	StorageBucket      string

	// Gemini API
	GeminiAPIKey string
	GeminiModel  string

	// Generated image lifecycle
	ImageRetentionHours    int
	CleanupIntervalMinutes int

	// Redis (OTP codes + rate limiting)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// JWT
	JWTSecret              string
	JWTRefreshSecret       string
	JWTExpiresMinutes      int
	JWTRefreshExpiresHours int

	// OTP
	OTPTTLMinutes        int
	OTPSendLimit         int
	OTPSendWindowMinutes int
}

var globalConfig *Config

// LoadConfig - load environment variables (reads .env when present)
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := false
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	globalConfig = &Config{
		Port: getEnv("PORT", "8080"),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", "ai-studio"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),

		ImageRetentionHours:    getEnvInt("IMAGE_RETENTION_HOURS", 6),
		CleanupIntervalMinutes: getEnvInt("CLEANUP_INTERVAL_MINUTES", 30),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTRefreshSecret:       getEnv("JWT_REFRESH_SECRET", ""),
		JWTExpiresMinutes:      getEnvInt("JWT_EXPIRES_MINUTES", 15),
		JWTRefreshExpiresHours: getEnvInt("JWT_REFRESH_EXPIRES_HOURS", 168),

		OTPTTLMinutes:        getEnvInt("OTP_TTL_MINUTES", 5),
		OTPSendLimit:         getEnvInt("OTP_SEND_LIMIT", 5),
		OTPSendWindowMinutes: getEnvInt("OTP_SEND_WINDOW_MINUTES", 15),
	}

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Supabase: %s (bucket: %s)", globalConfig.SupabaseURL, globalConfig.StorageBucket)
	log.Printf("   Gemini: %s", globalConfig.GeminiModel)
	log.Printf("   Retention: %dh, sweep every %dm", globalConfig.ImageRetentionHours, globalConfig.CleanupIntervalMinutes)
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)

	return globalConfig, nil
}

// GetConfig - access the loaded configuration
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - required environment variables
func (c *Config) validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetRedisAddr - Redis connection address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
