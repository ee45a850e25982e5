package config

import "time"

// Config es la configuración raíz del servicio.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	BaaS      BaaSConfig      `yaml:"baas"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Realtime  RealtimeConfig  `yaml:"realtime"`
	Reports   ReportsConfig   `yaml:"reports"`
	Roles     RolesConfig     `yaml:"roles"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	Environment     string        `yaml:"environment"      env:"ENVIRONMENT"             env-default:"development"`
}

// DatabaseConfig: DSN vacío => repos in-memory (modo dev).
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DB_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DB_MAX_CONNS"           env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DB_MIN_CONNS"           env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DB_MAX_CONN_LIFETIME"   env-default:"30m"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME"  env-default:"5m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DB_AUTO_MIGRATE"        env-default:"true"`
}

// AuthConfig: si JWTSecret está seteado se verifican los tokens localmente;
// si no, y BaaS está configurado, se verifican contra el BaaS; si nada, modo dev.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER"`
}

type BaaSConfig struct {
	URL     string        `yaml:"url"      env:"BAAS_URL"`
	APIKey  string        `yaml:"api_key"  env:"BAAS_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"BAAS_TIMEOUT"  env-default:"5s"`
	// RoleRPC=true usa has_role del BaaS en vez de la tabla local de roles.
	RoleRPC bool `yaml:"role_rpc" env:"BAAS_ROLE_RPC" env-default:"false"`
}

type GeocodingConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"GEOCODING_BASE_URL"   env-default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `yaml:"user_agent" env:"GEOCODING_USER_AGENT" env-default:"pet-reports-map/1.0"`
	Language  string        `yaml:"language"   env:"GEOCODING_LANGUAGE"   env-default:"ar,en"`
	Timeout   time.Duration `yaml:"timeout"    env:"GEOCODING_TIMEOUT"    env-default:"4s"`
}

type RealtimeConfig struct {
	Channel          string `yaml:"channel"           env:"REALTIME_CHANNEL"           env-default:"report_inserts"`
	SubscriberBuffer int    `yaml:"subscriber_buffer" env:"REALTIME_SUBSCRIBER_BUFFER" env-default:"32"`
	// Origins aceptados en el upgrade de /map/live. Vacío = mismo host; "*" = cualquiera.
	AllowedOrigins []string `yaml:"allowed_origins" env:"REALTIME_ALLOWED_ORIGINS" env-separator:","`
}

// ReportsConfig resuelve las dos preguntas abiertas del flujo de reportes.
type ReportsConfig struct {
	ResolvePolicy            string `yaml:"resolve_policy"              env:"REPORTS_RESOLVE_POLICY"              env-default:"owner_or_privileged"`
	AllowSightingsOnResolved bool   `yaml:"allow_sightings_on_resolved" env:"REPORTS_ALLOW_SIGHTINGS_ON_RESOLVED" env-default:"true"`
}

// RolesConfig: los bootstrap admins cuentan como admin sin fila en user_roles,
// así se puede otorgar el primer rol.
type RolesConfig struct {
	BootstrapAdmins []string `yaml:"bootstrap_admins" env:"ROLES_BOOTSTRAP_ADMINS" env-separator:","`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"30"`
	Window   time.Duration `yaml:"window"   env:"RATE_LIMIT_WINDOW"   env-default:"1m"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	App    string `yaml:"app"    env:"APP_NAME"   env-default:"pet-reports-map"`
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
