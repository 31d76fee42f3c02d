package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	AppBaseURL         string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	SessionSecret      string
	TokenEncryptionKey string
	DatabaseURL        string
	MongoURI           string
	MongoDatabase      string
	AIProvider         string
	AIKey              string
	AIModel            string
	UpstreamTimeout    time.Duration
	LLMTimeout         time.Duration
	SyncInterval       time.Duration
	Env                string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	port := GetEnv("PORT", "5001")

	return &Config{
		Port:               port,
		AppBaseURL:         GetEnv("APP_BASE_URL", "http://localhost:5173"),
		GoogleClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  GetEnv("GOOGLE_REDIRECT_URL", "http://localhost:"+port+"/auth/google/callback"),
		SessionSecret:      GetEnv("SESSION_SECRET", ""),
		TokenEncryptionKey: GetEnv("TOKEN_ENCRYPTION_KEY", ""),
		DatabaseURL:        GetEnv("DATABASE_URL", ""),
		MongoURI:           GetEnv("MONGO_URI", ""),
		MongoDatabase:      GetEnv("MONGO_DATABASE", "focusos"),
		AIProvider:         GetEnv("AI_PROVIDER", "gemini"),
		AIKey:              GetEnv("AI_API_KEY", ""),
		AIModel:            GetEnv("AI_MODEL", ""),
		UpstreamTimeout:    GetSeconds("UPSTREAM_TIMEOUT_SECONDS", 30),
		LLMTimeout:         GetSeconds("LLM_TIMEOUT_SECONDS", 90),
		SyncInterval:       GetSeconds("SYNC_INTERVAL_SECONDS", 0),
		Env:                GetEnv("ENV", "development"),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetSeconds reads a non-negative number of seconds. Invalid values fall back to the default.
func GetSeconds(key string, defaultSeconds int) time.Duration {
	seconds, err := strconv.Atoi(GetEnv(key, strconv.Itoa(defaultSeconds)))
	if err != nil || seconds < 0 {
		seconds = defaultSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Validate() error {
	if c.GoogleClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.GoogleClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.TokenEncryptionKey == "" {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY is required")
	}
	if c.AIKey == "" {
		return fmt.Errorf("AI_API_KEY is required")
	}
	switch c.AIProvider {
	case "gemini", "openai", "deepseek":
	default:
		return fmt.Errorf("AI_PROVIDER must be one of gemini, openai, deepseek")
	}
	if c.UpstreamTimeout == 0 || c.LLMTimeout == 0 {
		return fmt.Errorf("upstream and LLM timeouts must be positive")
	}
	return nil
}
