package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherhub")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherhub")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 25, cfg.Database.MaxConnections)
	require.Equal(t, "gatherhub-main", cfg.Stats.AppName)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	require.Equal(t, 60, cfg.RateLimit.PublicPerMinute)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "development", cfg.Environment)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "none", cfg.Tracing.Exporter)
	require.Equal(t, "gatherhub-server", cfg.Tracing.ServiceName)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestLoadTracingOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherhub")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("TRACING_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("TRACING_SAMPLE_RATE", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "otlp", cfg.Tracing.Exporter)
	require.Equal(t, "collector:4317", cfg.Tracing.OTLPEndpoint)
	require.Equal(t, 0.25, cfg.Tracing.SampleRate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherhub")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9080")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("STATS_URL", "http://localhost:9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9080, cfg.Server.Port)
	require.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	require.Equal(t, "http://localhost:9090", cfg.Stats.URL)
}

func TestLoadStatsServiceDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherhub_stats")
	t.Setenv("SERVER_PORT", "")

	cfg, err := LoadStatsService()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "gatherhub-stats", cfg.Tracing.ServiceName)
}
