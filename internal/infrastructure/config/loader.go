package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"incidentBot/internal/domain"
)

const (
	defaultActionedEmoji      = "✅"
	defaultUnactionedEmoji    = "❌"
	defaultInvestigatingEmoji = "🔍"
	defaultDatabasePath       = "data/incidents.db"
	defaultDashboardAddr      = ":8080"
)

var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	DiscordToken       string
	IncidentsChannelID string

	Signals      domain.SignalSet
	AllowedRoles domain.RoleSet

	DatabasePath  string
	DashboardAddr string

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the process environment. It is called once
// at startup; values are never reloaded.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		DiscordToken:       required("DISCORD_BOT_TOKEN"),
		IncidentsChannelID: required("INCIDENTS_CHANNEL_ID"),
		DatabasePath:       getEnv("INCIDENTS_DB_PATH", defaultDatabasePath),
		DashboardAddr:      getEnv("DASHBOARD_ADDR", defaultDashboardAddr),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	signals, err := domain.NewSignalSet(
		getEnv("EMOJI_INCIDENT_ACTIONED", defaultActionedEmoji),
		getEnv("EMOJI_INCIDENT_UNACTIONED", defaultUnactionedEmoji),
		getEnv("EMOJI_INCIDENT_INVESTIGATING", defaultInvestigatingEmoji),
	)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Signals = signals

	var roles []string
	for _, key := range []string{"ROLE_MODERATORS", "ROLE_ADMINS", "ROLE_OWNERS"} {
		roles = append(roles, splitList(os.Getenv(key))...)
	}
	cfg.AllowedRoles = domain.NewRoleSet(roles...)

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
