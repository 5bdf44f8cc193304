package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiTimeout    time.Duration
	SyntheticDelay   time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	UploadMaxBytes   int64
	RateLimitPerMin  int
	DefaultLocale    string
	TrustProxy       bool
}

// UsesSynthetic reports whether generation runs offline because no Gemini key is set.
func (c *Config) UsesSynthetic() bool {
	return strings.TrimSpace(c.GeminiAPIKey) == ""
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	ints := map[string]int{}
	for key, def := range map[string]int{
		"GEMINI_TIMEOUT_SECONDS":     120,
		"SYNTHETIC_DELAY_MS":         1500,
		"HTTP_READ_TIMEOUT_SECONDS":  15,
		"HTTP_WRITE_TIMEOUT_SECONDS": 30,
		"HTTP_IDLE_TIMEOUT_SECONDS":  60,
		"UPLOAD_MAX_MB":              20,
		"RATE_LIMIT_PER_MINUTE":      30,
	} {
		v, err := getEnvInt(key, def)
		if err != nil {
			return nil, err
		}
		if v <= 0 && key != "SYNTHETIC_DELAY_MS" {
			return nil, fmt.Errorf("%s must be positive, got %d", key, v)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s must not be negative, got %d", key, v)
		}
		ints[key] = v
	}

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout:    time.Second * time.Duration(ints["GEMINI_TIMEOUT_SECONDS"]),
		SyntheticDelay:   time.Millisecond * time.Duration(ints["SYNTHETIC_DELAY_MS"]),
		HTTPReadTimeout:  time.Second * time.Duration(ints["HTTP_READ_TIMEOUT_SECONDS"]),
		HTTPWriteTimeout: time.Second * time.Duration(ints["HTTP_WRITE_TIMEOUT_SECONDS"]),
		HTTPIdleTimeout:  time.Second * time.Duration(ints["HTTP_IDLE_TIMEOUT_SECONDS"]),
		UploadMaxBytes:   int64(ints["UPLOAD_MAX_MB"]) << 20,
		RateLimitPerMin:  ints["RATE_LIMIT_PER_MINUTE"],
		DefaultLocale:    strings.ToLower(getEnv("DEFAULT_LOCALE", "en")),
	}

	trust, err := strconv.ParseBool(getEnv("TRUST_PROXY_HEADERS", "false"))
	if err != nil {
		return nil, fmt.Errorf("TRUST_PROXY_HEADERS must be a boolean: %w", err)
	}
	cfg.TrustProxy = trust

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return i, nil
}
