package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ResolvePolicyOwnerOrPrivileged, cfg.Reports.ResolvePolicy)
	assert.True(t, cfg.Reports.AllowSightingsOnResolved)
	assert.Equal(t, "report_inserts", cfg.Realtime.Channel)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: 9090
reports:
  resolve_policy: any_authenticated
  allow_sightings_on_resolved: false
`), 0o600)
	require.NoError(t, err)

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, ResolvePolicyAnyAuthenticated, cfg.Reports.ResolvePolicy)
	assert.False(t, cfg.Reports.AllowSightingsOnResolved)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_RejectsUnknownResolvePolicy(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: 8080},
		Reports:   ReportsConfig{ResolvePolicy: "whoever"},
		RateLimit: RateLimitConfig{Requests: 1, Window: time.Second},
	}
	require.Error(t, cfg.Validate())
}

func TestValidate_ProductionNeedsAuth(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: 8080, Environment: "production"},
		Reports:   ReportsConfig{ResolvePolicy: ResolvePolicyOwnerOrPrivileged},
		RateLimit: RateLimitConfig{Requests: 1, Window: time.Second},
	}
	require.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "secret"
	require.NoError(t, cfg.Validate())
}

func TestLoad_BootstrapAdminsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ROLES_BOOTSTRAP_ADMINS", "u-1,u-2")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1", "u-2"}, cfg.Roles.BootstrapAdmins)
}

func TestLoad_AllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("REALTIME_ALLOWED_ORIGINS", "https://mapa.example.org,http://localhost:5173")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://mapa.example.org", "http://localhost:5173"}, cfg.Realtime.AllowedOrigins)
}
