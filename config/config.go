package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values. It is loaded once at start and
// shared read-only by pointer; nothing mutates it afterwards.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSAllowOrigins  string `mapstructure:"CORS_ALLOW_ORIGINS"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"`

	// Gemini configuration.
	GeminiAPIKey   string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string        `mapstructure:"GEMINI_MODEL"`
	AITimeout      time.Duration `mapstructure:"AI_TIMEOUT"`
	AIMaxRetries   int           `mapstructure:"AI_MAX_RETRIES"`
	AIRetryBackoff time.Duration `mapstructure:"AI_RETRY_BACKOFF"`

	// Firebase configuration.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	AuthCheckRevoked        bool   `mapstructure:"AUTH_CHECK_REVOKED"`

	PlanDefaultDays int `mapstructure:"PLAN_DEFAULT_DAYS"`
}

// LoadConfig reads .env (if any), an optional config.yaml in "." or
// "./config", and the process environment, in that order of precedence
// (environment wins).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	return unmarshal(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("AI_TIMEOUT", "60s")
	v.SetDefault("AI_MAX_RETRIES", 0)
	v.SetDefault("AI_RETRY_BACKOFF", "1s")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("AUTH_CHECK_REVOKED", false)
	v.SetDefault("PLAN_DEFAULT_DAYS", 5)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.PlanDefaultDays < 1 || cfg.PlanDefaultDays > MaxPlanDays {
		return nil, fmt.Errorf("PLAN_DEFAULT_DAYS must be between 1 and %d, got %d", MaxPlanDays, cfg.PlanDefaultDays)
	}
	if cfg.AIMaxRetries < 0 {
		return nil, fmt.Errorf("AI_MAX_RETRIES must not be negative, got %d", cfg.AIMaxRetries)
	}
	return &cfg, nil
}

// MaxPlanDays bounds the plan length a caller may ask for.
const MaxPlanDays = 14

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	origins := splitList(c.CORSAllowOrigins)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// TrustedProxyList splits TRUSTED_PROXIES (IPs or CIDRs) on commas. Empty
// means forwarding headers are never trusted.
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// AIConfigured reports whether a Gemini API key is present.
func (c *Config) AIConfigured() bool {
	return c.GeminiAPIKey != ""
}

// AuthConfigured reports whether Firebase credentials were supplied.
func (c *Config) AuthConfigured() bool {
	return c.FirebaseCredentialsFile != "" || c.FirebaseProjectID != ""
}
