package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string

	CORSAllowedOrigins []string
	KnowledgePath      string

	// External services
	TranslationAPIURL  string
	TermsAPIURL        string
	TranslationTimeout time.Duration
	TermsTimeout       time.Duration

	// Reminders
	RedisAddr        string
	RedisPassword    string
	RemindersEnabled bool
	ReminderInterval time.Duration

	// SMS
	SMSEnabled bool
	SMSAPIURL  string
	SMSAPIKey  string

	ReportFontPaths []string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		JWTSecret:      getEnv("JWT_SECRET", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		KnowledgePath:      getEnv("KNOWLEDGE_PATH", ""),

		TranslationAPIURL:  getEnv("TRANSLATION_API_URL", "http://localhost:9000/translate"),
		TermsAPIURL:        getEnv("TERMS_API_URL", "http://localhost:9001/find_terms"),
		TranslationTimeout: getEnvAsDuration("TRANSLATION_TIMEOUT", 10*time.Second),
		TermsTimeout:       getEnvAsDuration("TERMS_TIMEOUT", 5*time.Second),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RemindersEnabled: getEnvAsBool("REMINDERS_ENABLED", true),
		ReminderInterval: getEnvAsDuration("REMINDER_INTERVAL", time.Minute),

		SMSEnabled: getEnvAsBool("SMS_ENABLED", false),
		SMSAPIURL:  getEnv("SMS_API_URL", "https://api.example-sms.com/send"),
		SMSAPIKey:  getEnv("SMS_API_KEY", ""),

		ReportFontPaths: getEnvAsList("REPORT_FONT_PATHS", []string{
			"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}),
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.TranslationAPIURL) == "" {
		errs = append(errs, errors.New("TRANSLATION_API_URL is required"))
	}
	if strings.TrimSpace(c.TermsAPIURL) == "" {
		errs = append(errs, errors.New("TERMS_API_URL is required"))
	}
	if c.TranslationTimeout <= 0 {
		errs = append(errs, errors.New("TRANSLATION_TIMEOUT must be positive"))
	}
	if c.TermsTimeout <= 0 {
		errs = append(errs, errors.New("TERMS_TIMEOUT must be positive"))
	}
	if c.RemindersEnabled && c.ReminderInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
