package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DISCORD_TOKEN", "IGNORE_BOTS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
		"LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
		"SONGLINK_API_URL", "SONGLINK_API_KEY", "SONGLINK_USER_COUNTRY", "SONGLINK_TIMEOUT",
		"OPS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Empty(t, cfg.DiscordToken)
	assert.False(t, cfg.IgnoreBots)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultSongLinkAPIURL, cfg.SongLinkAPIURL)
	assert.Equal(t, 10*time.Second, cfg.SongLinkTimeout)
	assert.Empty(t, cfg.OpsAddr)
	assert.Equal(t, 100, cfg.LogMaxSizeMB)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("IGNORE_BOTS", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SONGLINK_API_URL", "http://localhost:9000")
	t.Setenv("SONGLINK_TIMEOUT", "3s")
	t.Setenv("SONGLINK_USER_COUNTRY", "GB")
	t.Setenv("OPS_ADDR", ":9090")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.DiscordToken)
	assert.True(t, cfg.IgnoreBots)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:9000", cfg.SongLinkAPIURL)
	assert.Equal(t, 3*time.Second, cfg.SongLinkTimeout)
	assert.Equal(t, "GB", cfg.SongLinkUserCountry)
	assert.Equal(t, ":9090", cfg.OpsAddr)
}

func TestFromEnvInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"IGNORE_BOTS", "maybe"},
		{"SONGLINK_TIMEOUT", "ten"},
		{"LOG_MAX_SIZE_MB", "big"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidateForBot(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.ValidateForBot(), ErrMissingToken)

	cfg.DiscordToken = "token"
	assert.NoError(t, cfg.ValidateForBot())

	cfg.SongLinkTimeout = 0
	assert.Error(t, cfg.ValidateForBot())
}

func TestValidateForResolveDoesNotNeedToken(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.NoError(t, cfg.ValidateForResolve())

	cfg.SongLinkAPIURL = ""
	assert.Error(t, cfg.ValidateForResolve())
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DISCORD_TOKEN")
	t.Cleanup(func() { os.Unsetenv("DISCORD_TOKEN") })

	dir := t.TempDir()
	require.NoError(t, godotenv.Write(map[string]string{"DISCORD_TOKEN": "from-dotenv"}, filepath.Join(dir, ".env")))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.DiscordToken)
}
