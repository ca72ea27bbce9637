package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = ":8080"
	DefaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultStateTTL       = 2 * time.Hour
)

var ErrMissingAPIKey = errors.New("YOUTUBE_API_KEY not set")

type Config struct {
	Port           string
	Env            string
	YouTubeAPIKey  string
	YouTubeBaseURL string
	HTTPTimeout    time.Duration
	AllowedOrigins []string

	// Empty keys make the application generate random ones at startup, which
	// invalidates every session on restart.
	SessionAuthKey       string
	SessionEncryptionKey string

	// Empty RedisAddr keeps session state in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StateTTL      time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment. The API
// key has no default and must be injected.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                 valueOr(getenv("PORT"), DefaultPort),
		Env:                  getenv("ENV"),
		YouTubeAPIKey:        strings.TrimSpace(getenv("YOUTUBE_API_KEY")),
		YouTubeBaseURL:       strings.TrimRight(valueOr(getenv("YOUTUBE_BASE_URL"), DefaultYouTubeBaseURL), "/"),
		AllowedOrigins:       splitList(getenv("ALLOWED_ORIGINS")),
		SessionAuthKey:       getenv("SESSION_AUTH_KEY"),
		SessionEncryptionKey: getenv("SESSION_ENCRYPTION_KEY"),
		RedisAddr:            strings.TrimSpace(getenv("REDIS_ADDR")),
		RedisPassword:        getenv("REDIS_PASSWORD"),
	}

	if cfg.YouTubeAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	var err error
	cfg.HTTPTimeout, err = durationOr(getenv("HTTP_TIMEOUT"), DefaultHTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg.StateTTL, err = durationOr(getenv("STATE_TTL"), DefaultStateTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_TTL: %w", err)
	}

	if db := getenv("REDIS_DB"); db != "" {
		cfg.RedisDB, err = strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}

	return cfg, nil
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
