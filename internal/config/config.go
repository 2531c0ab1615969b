package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries all runtime settings, constructed once at startup and
// passed by reference to the components that need it.
type Config struct {
	AppEnv           string
	LogLevel         string
	LogFormat        string
	HTTPListenAddr   string
	PublicBasePath   string
	MetricsNamespace string

	// Persistence. Driver selects between the Postgres and SQLite
	// repository backends.
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string

	// Session cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
	SessionTTL    time.Duration
	DedupTTL      time.Duration

	// Messaging channel.
	ChannelProvider     string // meta | twilio
	WhatsAppVerifyToken string
	WhatsAppAccessToken string
	WhatsAppPhoneID     string
	WhatsAppAPIBaseURL  string
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioFromNumber    string
	SendTimeout         time.Duration

	// LLM gateway. Empty provider leaves generation disabled.
	LLMProvider  string // openai | groq | anthropic | disabled
	LLMAPIKey    string
	LLMModel     string
	LLMBaseURL   string
	LLMTimeout   time.Duration
	LLMMaxTokens int
	LLMCacheTTL  time.Duration

	// Content sources.
	KnowledgeBasePath  string
	BusinessConfigPath string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		HTTPListenAddr:   getEnv("HTTP_LISTEN_ADDR", ":8080"),
		PublicBasePath:   getEnv("PUBLIC_BASE_PATH", ""),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "bot_pedidos"),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/bot.db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		RedisTLS:      getBool("REDIS_TLS", false),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		DedupTTL:      getDuration("DEDUP_TTL", 10*time.Minute),

		ChannelProvider:     strings.ToLower(getEnv("CHANNEL_PROVIDER", "meta")),
		WhatsAppVerifyToken: os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		WhatsAppAccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:     os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppAPIBaseURL:  getEnv("WHATSAPP_API_BASE_URL", "https://graph.facebook.com/v19.0"),
		TwilioAccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:    os.Getenv("TWILIO_FROM_NUMBER"),
		SendTimeout:         getDuration("SEND_TIMEOUT", 15*time.Second),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", "disabled")),
		LLMAPIKey:    os.Getenv("LLM_API_KEY"),
		LLMModel:     os.Getenv("LLM_MODEL"),
		LLMBaseURL:   os.Getenv("LLM_BASE_URL"),
		LLMTimeout:   getDuration("LLM_TIMEOUT", 8*time.Second),
		LLMMaxTokens: getInt("LLM_MAX_TOKENS", 300),
		LLMCacheTTL:  getDuration("LLM_CACHE_TTL", 24*time.Hour),

		KnowledgeBasePath:  getEnv("KNOWLEDGE_BASE_PATH", "config/knowledge_base.json"),
		BusinessConfigPath: getEnv("BUSINESS_CONFIG_PATH", "config/business.json"),
	}

	switch cfg.DatabaseDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required with the postgres driver")
		}
	case "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	switch cfg.ChannelProvider {
	case "meta":
		if cfg.WhatsAppAccessToken == "" || cfg.WhatsAppPhoneID == "" {
			return nil, fmt.Errorf("WHATSAPP_ACCESS_TOKEN and WHATSAPP_PHONE_NUMBER_ID are required with the meta channel")
		}
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
			return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required with the twilio channel")
		}
	default:
		return nil, fmt.Errorf("unsupported CHANNEL_PROVIDER %q", cfg.ChannelProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
