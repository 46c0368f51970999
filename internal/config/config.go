package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Ulannnnnnn/WebFinal/internal/session"
)

// Config holds client configuration loaded from an optional YAML file and env.
type Config struct {
	// APIBaseURL is the backend base URL, no trailing slash.
	APIBaseURL string `validate:"required,url"`

	// RequestTimeout bounds each API call.
	RequestTimeout time.Duration `validate:"min=1"`

	// RateLimitRPS and RateLimitBurst throttle outgoing API calls. Defaults
	// are generous enough that interactive use never blocks.
	RateLimitRPS   int `validate:"min=1"`
	RateLimitBurst int `validate:"min=1"`

	// SessionFile is where the bearer token is persisted.
	SessionFile string `validate:"required"`
}

type fileConfig struct {
	API struct {
		URL            string `yaml:"url"`
		Timeout        string `yaml:"timeout"`
		RateLimitRPS   int    `yaml:"rate_limit_rps"`
		RateLimitBurst int    `yaml:"rate_limit_burst"`
	} `yaml:"api"`

	Session struct {
		File string `yaml:"file"`
	} `yaml:"session"`
}

const (
	defaultAPIBaseURL = "http://localhost:3000"
	defaultTimeout    = 10 * time.Second
	defaultRateRPS    = 5
	defaultRateBurst  = 10
)

// Load reads configuration in precedence order: env vars (after a best-effort
// .env load), then ~/.weatherfav/config.yaml, then built-in defaults. A
// missing config file is fine; a malformed one is an error.
func Load() (*Config, error) {
	// .env is a development convenience; absence is expected.
	_ = godotenv.Load()

	fc, err := readFileConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.APIBaseURL = strings.TrimSpace(os.Getenv("WEATHERFAV_API_URL"))
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = strings.TrimSpace(fc.API.URL)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	timeoutStr := os.Getenv("WEATHERFAV_TIMEOUT")
	if timeoutStr == "" {
		timeoutStr = fc.API.Timeout
	}
	cfg.RequestTimeout = parseDuration(timeoutStr, defaultTimeout)

	cfg.RateLimitRPS = fc.API.RateLimitRPS
	if v := getenvInt("WEATHERFAV_RATE_LIMIT_RPS", 0); v > 0 {
		cfg.RateLimitRPS = v
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateRPS
	}
	cfg.RateLimitBurst = fc.API.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateBurst
	}

	cfg.SessionFile = strings.TrimSpace(os.Getenv("WEATHERFAV_SESSION_FILE"))
	if cfg.SessionFile == "" {
		cfg.SessionFile = strings.TrimSpace(fc.Session.File)
	}
	if cfg.SessionFile == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg.SessionFile = path
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// readFileConfig loads ~/.weatherfav/config.yaml if present, or the file
// named by WEATHERFAV_CONFIG.
func readFileConfig() (fileConfig, error) {
	var fc fileConfig

	path := strings.TrimSpace(os.Getenv("WEATHERFAV_CONFIG"))
	if path == "" {
		sessionPath, err := session.DefaultPath()
		if err != nil {
			return fc, err
		}
		path = filepath.Join(filepath.Dir(sessionPath), "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is not positive.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
