package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultLogLevel        = "info"
	DefaultSongLinkAPIURL  = "https://api.song.link"
	DefaultSongLinkTimeout = 10 * time.Second
)

// ErrMissingToken is returned when the bot is started without DISCORD_TOKEN
var ErrMissingToken = errors.New("environment variable DISCORD_TOKEN is required for bot service")

type Config struct {
	DiscordToken string
	IgnoreBots   bool

	LogLevel      string
	LogFormat     string // "text" or "json"
	LogFile       string // empty disables file logging
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	SongLinkAPIURL      string
	SongLinkAPIKey      string
	SongLinkUserCountry string
	SongLinkTimeout     time.Duration

	OpsAddr string // empty disables the health/metrics server
}

// Load reads configuration from the environment, after loading .env if present.
// Command line flags are applied by the caller.
func Load() (*Config, error) {
	// A missing .env is fine; variables then come from the process environment
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv reads configuration from the process environment only
func FromEnv() (*Config, error) {
	config := &Config{
		DiscordToken:        os.Getenv("DISCORD_TOKEN"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", DefaultLogLevel),
		LogFormat:           getEnvWithDefault("LOG_FORMAT", "text"),
		LogFile:             os.Getenv("LOG_FILE"),
		SongLinkAPIURL:      getEnvWithDefault("SONGLINK_API_URL", DefaultSongLinkAPIURL),
		SongLinkAPIKey:      os.Getenv("SONGLINK_API_KEY"),
		SongLinkUserCountry: os.Getenv("SONGLINK_USER_COUNTRY"),
		OpsAddr:             os.Getenv("OPS_ADDR"),
	}

	var err error
	if config.IgnoreBots, err = getEnvBool("IGNORE_BOTS", false); err != nil {
		return nil, err
	}
	if config.SongLinkTimeout, err = getEnvDuration("SONGLINK_TIMEOUT", DefaultSongLinkTimeout); err != nil {
		return nil, err
	}
	if config.LogMaxSizeMB, err = getEnvInt("LOG_MAX_SIZE_MB", 100); err != nil {
		return nil, err
	}
	if config.LogMaxBackups, err = getEnvInt("LOG_MAX_BACKUPS", 3); err != nil {
		return nil, err
	}
	if config.LogMaxAgeDays, err = getEnvInt("LOG_MAX_AGE_DAYS", 28); err != nil {
		return nil, err
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

// ValidateForBot ensures all required fields for bot service are present
func (c *Config) ValidateForBot() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	return c.ValidateForResolve()
}

// ValidateForResolve ensures the song.link settings are usable
func (c *Config) ValidateForResolve() error {
	if c.SongLinkAPIURL == "" {
		return errors.New("song.link API URL must not be empty")
	}
	if c.SongLinkTimeout <= 0 {
		return fmt.Errorf("song.link timeout must be positive, got %s", c.SongLinkTimeout)
	}
	return nil
}
