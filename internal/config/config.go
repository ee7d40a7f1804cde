// Package config reads process settings from the environment and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jaminalder/element-hunt/internal/oracle"
)

// Oracle backend names.
const (
	OracleGemini = "gemini"
	OracleStatic = "static"
	OracleOff    = "off"
)

// Config holds process settings. Game rules are constants, not configuration.
type Config struct {
	Port          string
	LogLevel      string
	LogFormat     string
	Oracle        string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OracleTimeout time.Duration
	SessionSecret string
	CookieSecure  bool
	TickInterval  time.Duration
}

// LoadEnvFiles loads the first .env file found; missing files are not an error.
func LoadEnvFiles(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// Load builds a Config from environment variables.
func Load() (Config, error) {
	c := Config{
		Port:          getEnv("PORT", "5180"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", oracle.DefaultGeminiModel),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", oracle.DefaultGeminiBaseURL),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	c.Oracle = strings.ToLower(os.Getenv("ORACLE"))
	if c.Oracle == "" {
		c.Oracle = OracleOff
		if c.GeminiAPIKey != "" {
			c.Oracle = OracleGemini
		}
	}
	switch c.Oracle {
	case OracleGemini, OracleStatic, OracleOff:
	default:
		return Config{}, fmt.Errorf("unknown ORACLE %q", c.Oracle)
	}

	var err error
	if c.OracleTimeout, err = getDuration("ORACLE_TIMEOUT", 8*time.Second); err != nil {
		return Config{}, err
	}
	if c.TickInterval, err = getDuration("TICK_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}
	if c.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	return c, nil
}

// NewOracle builds the configured backend.
func (c Config) NewOracle() oracle.Oracle {
	switch c.Oracle {
	case OracleGemini:
		return oracle.NewGemini(c.GeminiAPIKey, c.GeminiModel, c.GeminiBaseURL, c.OracleTimeout)
	case OracleStatic:
		return oracle.Static{}
	default:
		return oracle.Unconfigured{}
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", k, v)
	}
	return d, nil
}

func getBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", k, v)
	}
	return b, nil
}
