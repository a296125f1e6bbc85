package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/capital-longevity/internal/config"
	"github.com/iwvelando/capital-longevity/internal/session"
	"github.com/iwvelando/capital-longevity/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address          string               `yaml:"address"`
	MaxRequestSize   string               `yaml:"maxRequestSize"`
	Logging          config.LoggingConfig `yaml:"logging"`
	Session          SessionConfig        `yaml:"session"`
	RateLimit        RateLimitConfig      `yaml:"rateLimit"`
	requestSizeBytes int64
	sessionTTL       time.Duration
	rateLimitWindow  time.Duration
}

// SessionConfig selects where previous results are remembered.
type SessionConfig struct {
	Backend       string `yaml:"backend"`
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	TTL           string `yaml:"ttl"`
}

// RateLimitConfig bounds API requests per client; Requests <= 0 disables it.
type RateLimitConfig struct {
	Requests int    `yaml:"requests"`
	Window   string `yaml:"window"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{
		MaxRequestSize: fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes),
		Logging:        config.LoggingConfig{},
		Session: SessionConfig{
			Backend: constants.DefaultSessionBackend,
			TTL:     constants.DefaultSessionTTL,
		},
		RateLimit: RateLimitConfig{
			Requests: constants.DefaultRateLimitRequests,
			Window:   constants.DefaultRateLimitWindow,
		},
	}
	// Defaults are known to parse.
	_ = cfg.normalize()
	return cfg
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Address = ""

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequestSizeBytes returns the configured request body limit in bytes.
func (c *Config) RequestSizeBytes() int64 {
	return c.requestSizeBytes
}

// SetRequestSizeBytes overrides the configured request body limit.
func (c *Config) SetRequestSizeBytes(size int64) {
	if size > 0 {
		c.requestSizeBytes = size
		c.MaxRequestSize = fmt.Sprintf("%d", size)
	}
}

// SessionTTL returns how long previous results are remembered.
func (c *Config) SessionTTL() time.Duration {
	return c.sessionTTL
}

// RateLimitWindow returns the refill window of the rate limiter.
func (c *Config) RateLimitWindow() time.Duration {
	return c.rateLimitWindow
}

// SessionOptions converts the session settings for session.NewStore.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Backend:       c.Session.Backend,
		RedisAddress:  c.Session.RedisAddress,
		RedisPassword: c.Session.RedisPassword,
		RedisDB:       c.Session.RedisDB,
		TTL:           c.sessionTTL,
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		if port := strings.TrimSpace(os.Getenv(constants.PortEnvVar)); port != "" {
			c.Address = ":" + port
		} else {
			c.Address = constants.DefaultServerAddress
		}
	}

	sizeStr := strings.TrimSpace(c.MaxRequestSize)
	if sizeStr == "" {
		c.requestSizeBytes = constants.DefaultMaxRequestSizeBytes
		c.MaxRequestSize = fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes)
	} else {
		bytes, err := ParseSize(sizeStr)
		if err != nil {
			return err
		}
		if bytes <= 0 {
			bytes = constants.DefaultMaxRequestSizeBytes
		}
		c.requestSizeBytes = bytes
	}

	if c.Session.Backend == "" {
		c.Session.Backend = constants.DefaultSessionBackend
	}
	switch c.Session.Backend {
	case constants.DefaultSessionBackend, constants.RedisSessionBackend:
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	ttl, err := parseDuration(c.Session.TTL, constants.DefaultSessionTTL)
	if err != nil {
		return fmt.Errorf("invalid session ttl: %w", err)
	}
	c.sessionTTL = ttl

	window, err := parseDuration(c.RateLimit.Window, constants.DefaultRateLimitWindow)
	if err != nil {
		return fmt.Errorf("invalid rate limit window: %w", err)
	}
	if window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	c.rateLimitWindow = window
	return nil
}

func parseDuration(value, fallback string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	return time.ParseDuration(trimmed)
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
