package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incidentBot/internal/domain"
	"incidentBot/internal/infrastructure/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("INCIDENTS_CHANNEL_ID", "714214212200562749")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{
		"EMOJI_INCIDENT_ACTIONED", "EMOJI_INCIDENT_UNACTIONED", "EMOJI_INCIDENT_INVESTIGATING",
		"ROLE_MODERATORS", "ROLE_ADMINS", "ROLE_OWNERS",
		"INCIDENTS_DB_PATH", "DASHBOARD_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "714214212200562749", cfg.IncidentsChannelID)
	assert.Equal(t, []string{"✅", "❌", "🔍"}, cfg.Signals.AllowedEmoji())
	assert.Equal(t, 0, cfg.AllowedRoles.Len())
	assert.Equal(t, "data/incidents.db", cfg.DatabasePath)
	assert.Equal(t, ":8080", cfg.DashboardAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadCustomSignalsAndRoles(t *testing.T) {
	setRequired(t)
	t.Setenv("EMOJI_INCIDENT_ACTIONED", "incident_actioned:714221559279255583")
	t.Setenv("EMOJI_INCIDENT_UNACTIONED", "incident_unactioned:714223099645526026")
	t.Setenv("EMOJI_INCIDENT_INVESTIGATING", "incident_investigating:714224190928191551")
	t.Setenv("ROLE_MODERATORS", "1, 2")
	t.Setenv("ROLE_ADMINS", "3")
	t.Setenv("ROLE_OWNERS", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "incident_unactioned:714223099645526026", cfg.Signals.Emoji(domain.SignalNotActioned))
	assert.Equal(t, 3, cfg.AllowedRoles.Len())
	assert.True(t, cfg.AllowedRoles.HasAny([]string{"2"}))
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("INCIDENTS_CHANNEL_ID", " ")

	_, err := config.Load()

	require.ErrorIs(t, err, config.ErrMissingConfig)
	assert.Contains(t, err.Error(), "DISCORD_BOT_TOKEN")
	assert.Contains(t, err.Error(), "INCIDENTS_CHANNEL_ID")
}

func TestLoadDuplicateEmoji(t *testing.T) {
	setRequired(t)
	t.Setenv("EMOJI_INCIDENT_ACTIONED", "✅")
	t.Setenv("EMOJI_INCIDENT_UNACTIONED", "✅")
	t.Setenv("EMOJI_INCIDENT_INVESTIGATING", "")

	_, err := config.Load()

	assert.ErrorIs(t, err, domain.ErrInvalidSignalSet)
}
