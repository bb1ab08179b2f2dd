package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`
	// TrustedProxies lists the proxies whose X-Forwarded-For is believed.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis holds refresh tokens (DB REDIS_SESSION_DB) and the job queue (REDIS_QUEUE_DB).
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment gateway.
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`
	DefaultCurrency string `mapstructure:"DEFAULT_CURRENCY"`

	// Google Calendar.
	GoogleCredentialsFile  string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	GoogleCalendarID       string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleImpersonateEmail string `mapstructure:"GOOGLE_IMPERSONATE_EMAIL"`
	CalendarTimezone       string `mapstructure:"CALENDAR_TIMEZONE"`

	// Identity.
	IdentityProvider        string `mapstructure:"IDENTITY_PROVIDER"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`
	SessionCookieSecure     bool   `mapstructure:"SESSION_COOKIE_SECURE"`

	// Directory backend: "mongo" or "memory".
	DirectoryBackend string `mapstructure:"DIRECTORY_BACKEND"`
}

// Load reads config.yaml (if present) and the environment into a Config.
func Load() (*Config, error) {
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

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "mindnest")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("DEFAULT_CURRENCY", "INR")
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	v.SetDefault("GOOGLE_IMPERSONATE_EMAIL", "")
	v.SetDefault("CALENDAR_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("IDENTITY_PROVIDER", "local")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("DIRECTORY_BACKEND", "mongo")
}

func (c *Config) validate() error {
	switch c.IdentityProvider {
	case "local":
		if c.JWTSecret == "" && c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	case "firebase":
		if c.FirebaseCredentialsFile == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_FILE is required when IDENTITY_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider)
	}
	switch c.DirectoryBackend {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown DIRECTORY_BACKEND %q", c.DirectoryBackend)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// Proxies splits TRUSTED_PROXIES on commas. Empty means no proxy is trusted.
func (c *Config) Proxies() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
