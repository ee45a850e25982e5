package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	ResolvePolicyOwnerOrPrivileged = "owner_or_privileged"
	ResolvePolicyAnyAuthenticated  = "any_authenticated"
)

// Load lee la configuración: .env (si existe) -> YAML (CONFIG_PATH o ./config.yaml) -> ENV.
// Prioridad: ENV > YAML > env-default.
func Load() (*Config, error) {
	// .env es opcional; solo se usa en desarrollo.
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	switch c.Reports.ResolvePolicy {
	case ResolvePolicyOwnerOrPrivileged, ResolvePolicyAnyAuthenticated:
	default:
		errs = append(errs, fmt.Errorf("reports.resolve_policy must be %q or %q", ResolvePolicyOwnerOrPrivileged, ResolvePolicyAnyAuthenticated))
	}

	if c.IsProduction() && strings.TrimSpace(c.Auth.JWTSecret) == "" && strings.TrimSpace(c.BaaS.URL) == "" {
		errs = append(errs, errors.New("production requires AUTH_JWT_SECRET or BAAS_URL"))
	}
	if c.BaaS.RoleRPC && (strings.TrimSpace(c.BaaS.URL) == "" || strings.TrimSpace(c.BaaS.APIKey) == "") {
		errs = append(errs, errors.New("baas.role_rpc requires BAAS_URL and BAAS_API_KEY"))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit requests/window must be positive"))
	}

	return errors.Join(errs...)
}
